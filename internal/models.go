package internal

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ReportStatus is the lifecycle status of a report
type ReportStatus string

const (
	StatusDraft     ReportStatus = "draft"
	StatusPublished ReportStatus = "published"
	StatusArchived  ReportStatus = "archived"
)

// Row maps a column name to a cell value
type Row map[string]interface{}

// TabularData is the structured result set attached to a report. Columns
// preserves the column order the backend returned; Rows may omit columns,
// which render as blank cells.
type TabularData struct {
	Title   string   `json:"title,omitempty"`
	Type    string   `json:"type,omitempty"`
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Report represents a generated report
type Report struct {
	ID             string       `json:"id"`
	ConversationID string       `json:"conversation_id,omitempty"`
	AttachmentID   string       `json:"attachment_id,omitempty"`
	Title          string       `json:"title"`
	Description    string       `json:"description,omitempty"`
	Content        string       `json:"content,omitempty"`
	Status         ReportStatus `json:"status"`
	Type           string       `json:"type,omitempty"`
	Table          *TabularData `json:"table,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// Sender identifies who wrote a chat message
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// ChatMessage represents one entry of the chat transcript
type ChatMessage struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionRef identifies the backend-side multi-turn context. The zero
// value means no conversation has been started yet.
type SessionRef struct {
	ConversationID string `json:"conversation_id,omitempty"`
	MessageID      string `json:"message_id,omitempty"`
	AttachmentID   string `json:"attachment_id,omitempty"`
}

// Active reports whether a conversation is in progress
func (s SessionRef) Active() bool {
	return s.ConversationID != ""
}

// ReportMapping is a user-assigned display name bound to a conversation
type ReportMapping struct {
	ConversationID string `json:"conversationId"`
	DefaultTitle   string `json:"defaultTitle"`
	ReportName     string `json:"reportName"`
	CreatedAt      string `json:"createdAt"`
	Mapped         bool   `json:"mapped"`
}

// HistoryMessage is a raw conversation message as the backend returns it
type HistoryMessage struct {
	ID           string `json:"id"`
	Role         string `json:"role"`
	Content      string `json:"content"`
	AttachmentID string `json:"attachment_id,omitempty"`
	CreatedAt    string `json:"created_at,omitempty"`
}

// HandoffPayload carries a conversation's history from the dashboard to
// the chat loop. Messages are ordered newest first.
type HandoffPayload struct {
	ConversationID string           `json:"conversation_id"`
	Messages       []HistoryMessage `json:"messages"`
}

// NewID returns a fresh identifier for locally created records
func NewID() string {
	return uuid.NewString()
}

// SenderFromRole maps a backend role onto a transcript sender
func SenderFromRole(role string) Sender {
	if strings.EqualFold(role, string(SenderUser)) {
		return SenderUser
	}
	return SenderAssistant
}

// FilterMappings returns the mappings whose name or default title contains
// the query, case-insensitively. An empty query keeps everything.
func FilterMappings(mappings []ReportMapping, query string) []ReportMapping {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return mappings
	}
	filtered := make([]ReportMapping, 0, len(mappings))
	for _, m := range mappings {
		if strings.Contains(strings.ToLower(m.ReportName), query) ||
			strings.Contains(strings.ToLower(m.DefaultTitle), query) {
			filtered = append(filtered, m)
		}
	}
	return filtered
}
