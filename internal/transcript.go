package internal

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Greeting opens every transcript
const Greeting = "Hello! I'm your AI HR report assistant. Tell me what kind of payroll or HR report you'd like to create - such as payroll summaries, benefits analysis, time tracking, or workforce demographics."

const (
	thinkingText = "I'm analyzing your requirements and generating a comprehensive report. This may take a moment..."
	apologyText  = "I apologize, but there was an error generating your report. Please try again with a different prompt."
)

// HydrationState tracks one-time transcript hydration
type HydrationState int

const (
	HydrationUninitialized HydrationState = iota
	HydrationHydrating
	HydrationReady
)

// Transcript maintains the ordered chat history between the user and the
// report assistant. A send is a two-phase operation: Begin appends the
// user message plus a pending placeholder and returns its token, and the
// resolve methods replace the placeholder's content in place. At most one
// send may be outstanding.
type Transcript struct {
	store      *ReportStore
	messages   []ChatMessage
	pending    string
	generating bool
	hydration  HydrationState
}

// NewTranscript creates a transcript opening with the fixed greeting
func NewTranscript(store *ReportStore) *Transcript {
	return &Transcript{
		store: store,
		messages: []ChatMessage{{
			ID:        NewID(),
			Content:   Greeting,
			Sender:    SenderAssistant,
			Timestamp: time.Now(),
		}},
	}
}

// Messages returns the transcript in chronological order
func (t *Transcript) Messages() []ChatMessage {
	return t.messages
}

// Generating reports whether a send is outstanding
func (t *Transcript) Generating() bool {
	return t.generating
}

// Hydration returns the hydration state
func (t *Transcript) Hydration() HydrationState {
	return t.hydration
}

// Begin starts a send: it appends the user message and a pending
// assistant placeholder, and returns the placeholder's token. Empty input
// and duplicate sends are rejected without touching the transcript.
func (t *Transcript) Begin(input string) (string, bool) {
	content := strings.TrimSpace(input)
	if content == "" || t.generating {
		return "", false
	}

	now := time.Now()
	t.messages = append(t.messages, ChatMessage{
		ID:        NewID(),
		Content:   content,
		Sender:    SenderUser,
		Timestamp: now,
	})

	token := NewID()
	t.messages = append(t.messages, ChatMessage{
		ID:        token,
		Content:   thinkingText,
		Sender:    SenderAssistant,
		Timestamp: now,
	})
	t.pending = token
	t.generating = true
	return token, true
}

// ResolveSuccess replaces the pending placeholder with the confirmation
// for a generated report.
func (t *Transcript) ResolveSuccess(token string, report *Report) {
	t.resolve(token, successText(report))
}

// ResolveFailure replaces the pending placeholder with the fixed apology
func (t *Transcript) ResolveFailure(token string) {
	t.resolve(token, apologyText)
}

func (t *Transcript) resolve(token, content string) {
	for i := range t.messages {
		if t.messages[i].ID == token {
			t.messages[i].Content = content
			t.messages[i].Timestamp = time.Now()
			break
		}
	}
	if t.pending == token {
		t.pending = ""
		t.generating = false
	}
}

// Send runs one full chat cycle: append the user message and placeholder,
// call the store (continue path when a session is active, new-prompt path
// otherwise) and resolve the placeholder with the outcome. A rejected
// send returns (nil, nil) without side effects.
func (t *Transcript) Send(ctx context.Context, input string) (*Report, error) {
	token, ok := t.Begin(input)
	if !ok {
		return nil, nil
	}

	content := strings.TrimSpace(input)
	var report *Report
	var err error
	if session := t.store.Session(); session.Active() {
		report, err = t.store.SendChatMessage(ctx, session.ConversationID, content)
	} else {
		report, err = t.store.GenerateReportFromPrompt(ctx, content)
	}
	if err != nil {
		t.ResolveFailure(token)
		return nil, err
	}
	t.ResolveSuccess(token, report)
	return report, nil
}

// HydrateFromHandoff rebuilds the transcript from a conversation history
// handed off by the dashboard. It runs at most once: the hydration state
// machine rejects any further attempt. The payload's messages arrive
// newest first; the newest message's id becomes the active session, the
// newest attachment reference triggers a best-effort result fetch, and
// the list is reversed into chronological order behind the greeting.
func (t *Transcript) HydrateFromHandoff(ctx context.Context, payload *HandoffPayload) error {
	if t.hydration != HydrationUninitialized {
		return fmt.Errorf("transcript already hydrated")
	}
	t.hydration = HydrationHydrating
	defer func() { t.hydration = HydrationReady }()

	if payload == nil || payload.ConversationID == "" {
		return nil
	}

	messageID := ""
	if len(payload.Messages) > 0 {
		messageID = payload.Messages[0].ID
	}
	t.store.AdoptSession(payload.ConversationID, messageID)

	attachmentID := ""
	attachmentMessageID := messageID
	for _, msg := range payload.Messages {
		if msg.AttachmentID != "" {
			attachmentID = msg.AttachmentID
			attachmentMessageID = msg.ID
			break
		}
	}
	if attachmentID == "" && messageID != "" {
		// History without inline attachment references; ask the backend
		// for the conversation's most recent one.
		if latest, err := t.store.client.LatestAttachment(ctx, payload.ConversationID); err != nil {
			LogDebug("latest attachment lookup failed: %v", err)
		} else {
			attachmentID = latest
		}
	}
	if attachmentID != "" {
		if _, err := t.store.FetchAttachmentResult(ctx, payload.ConversationID, attachmentMessageID, attachmentID); err != nil {
			LogWarn("attachment result fetch during hydration failed: %v", err)
		}
	}

	greeting := t.messages[0]
	messages := make([]ChatMessage, 0, len(payload.Messages)+1)
	messages = append(messages, greeting)
	for i := len(payload.Messages) - 1; i >= 0; i-- {
		raw := payload.Messages[i]
		id := raw.ID
		if id == "" {
			id = NewID()
		}
		timestamp := time.Time{}
		if raw.CreatedAt != "" {
			if parsed, err := time.Parse(time.RFC3339, raw.CreatedAt); err == nil {
				timestamp = parsed
			}
		}
		messages = append(messages, ChatMessage{
			ID:        id,
			Content:   raw.Content,
			Sender:    SenderFromRole(raw.Role),
			Timestamp: timestamp,
		})
	}
	t.messages = messages
	return nil
}

// SynthesizeFromReport rebuilds a minimal transcript around an existing
// current report when no hand-off payload exists: greeting, the
// reconstructed original prompt and a confirmation, spaced one second
// apart around the report's creation time so ordering is preserved.
func (t *Transcript) SynthesizeFromReport(report *Report) error {
	if t.hydration != HydrationUninitialized {
		return fmt.Errorf("transcript already hydrated")
	}
	t.hydration = HydrationHydrating
	defer func() { t.hydration = HydrationReady }()

	if report == nil {
		return nil
	}

	base := report.CreatedAt
	t.messages = []ChatMessage{
		{ID: NewID(), Content: Greeting, Sender: SenderAssistant, Timestamp: base.Add(-time.Second)},
		{ID: NewID(), Content: promptFromReport(report), Sender: SenderUser, Timestamp: base},
		{ID: NewID(), Content: successText(report), Sender: SenderAssistant, Timestamp: base.Add(time.Second)},
	}
	return nil
}

// successText templates the confirmation for a resolved send
func successText(report *Report) string {
	if report == nil {
		return "Your report request has been processed. You can review the result from your dashboard."
	}
	text := fmt.Sprintf("Perfect! I've generated a %s report titled %q.", report.Type, report.Title)
	if report.Table != nil && len(report.Table.Rows) > 0 {
		text += fmt.Sprintf(" It contains %d records.", len(report.Table.Rows))
	}
	return text + " You can view the full report in the preview panel and access it from your dashboard."
}

// promptFromReport recovers the original prompt recorded in a report's
// description, falling back to the title.
func promptFromReport(report *Report) string {
	if strings.HasPrefix(report.Description, promptDescriptionPrefix) {
		quoted := report.Description[len(promptDescriptionPrefix):]
		if prompt, err := strconv.Unquote(quoted); err == nil {
			return prompt
		}
	}
	return report.Title
}
