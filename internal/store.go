package internal

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// ReportStore owns the report collection, the current-report pointer and
// the active session identifiers. It is constructed once per command and
// passed to whatever needs it; commands run on a single goroutine, so the
// store is not synchronized. Network work is delegated to the client and
// responses are merged into the store's state; a failed call leaves the
// state exactly as it was.
type ReportStore struct {
	client  *Client
	reports []*Report
	current *Report
	session SessionRef
}

// StoreState is the serializable snapshot of a ReportStore
type StoreState struct {
	Reports   []*Report  `json:"reports"`
	CurrentID string     `json:"current_id,omitempty"`
	Session   SessionRef `json:"session"`
}

// ReportUpdate carries partial report fields for UpdateReport; nil fields
// are left untouched.
type ReportUpdate struct {
	Title        *string
	Description  *string
	Content      *string
	Status       *ReportStatus
	Type         *string
	Table        *TabularData
	AttachmentID *string
}

// NewReportStore creates an empty store backed by the given client
func NewReportStore(client *Client) *ReportStore {
	return &ReportStore{client: client}
}

// Reports returns the collection, newest first
func (s *ReportStore) Reports() []*Report {
	return s.reports
}

// Current returns the current report, or nil
func (s *ReportStore) Current() *Report {
	return s.current
}

// Session returns the active session identifiers
func (s *ReportStore) Session() SessionRef {
	return s.session
}

// SetCurrent makes the given report current
func (s *ReportStore) SetCurrent(report *Report) {
	s.current = report
}

// Add prepends a report to the collection and makes it current
func (s *ReportStore) Add(report *Report) {
	s.reports = append([]*Report{report}, s.reports...)
	s.current = report
}

// FindByID returns the report with the given id, or nil
func (s *ReportStore) FindByID(id string) *Report {
	for _, r := range s.reports {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// FindByConversation returns the report bound to a conversation, or nil
func (s *ReportStore) FindByConversation(conversationID string) *Report {
	for _, r := range s.reports {
		if r.ConversationID == conversationID {
			return r
		}
	}
	return nil
}

// AdoptSession adopts a conversation handed off from the dashboard as the
// active session and, when the collection already holds a report for it,
// marks that report current.
func (s *ReportStore) AdoptSession(conversationID, messageID string) {
	if conversationID == "" {
		return
	}
	s.session.ConversationID = conversationID
	if messageID != "" {
		s.session.MessageID = messageID
	}
	if r := s.FindByConversation(conversationID); r != nil {
		s.current = r
	}
}

// GenerateReportFromPrompt turns a prompt into a report. Without an active
// session it starts a new conversation and prepends a fresh report; with
// one it continues the conversation and merges into the current report.
func (s *ReportStore) GenerateReportFromPrompt(ctx context.Context, prompt string) (*Report, error) {
	if s.session.Active() {
		return s.SendChatMessage(ctx, s.session.ConversationID, prompt)
	}

	res, err := s.client.StartConversation(ctx, prompt)
	if err != nil {
		LogError("generate report: %v", err)
		return nil, err
	}

	s.session = SessionRef{
		ConversationID: res.ConversationID,
		MessageID:      res.MessageID,
		AttachmentID:   res.AttachmentID,
	}

	table := res.Table
	if table == nil {
		// The conversation opened without a result set; the one-shot
		// endpoint can often still produce one for the same prompt.
		oneShot, err := s.client.GenerateOneShot(ctx, prompt)
		if err != nil {
			LogDebug("one-shot generation unavailable: %v", err)
		} else if len(oneShot.Rows) > 0 {
			table = oneShot
		}
	}

	report := s.buildReport(prompt, table)
	report.ConversationID = res.ConversationID
	report.AttachmentID = res.AttachmentID
	s.Add(report)
	return report, nil
}

// SendChatMessage posts a follow-up to an existing conversation, updates
// the session identifiers and merges any returned tabular data into the
// current report.
func (s *ReportStore) SendChatMessage(ctx context.Context, conversationID, content string) (*Report, error) {
	res, err := s.client.SendChat(ctx, conversationID, content)
	if err != nil {
		LogError("send chat message: %v", err)
		return nil, err
	}

	s.session.ConversationID = conversationID
	if res.MessageID != "" {
		s.session.MessageID = res.MessageID
	}
	if res.AttachmentID != "" {
		s.session.AttachmentID = res.AttachmentID
	}

	if s.current == nil {
		report := s.buildReport(content, res.Table)
		report.ConversationID = conversationID
		report.AttachmentID = res.AttachmentID
		s.Add(report)
		return report, nil
	}

	if res.Table != nil {
		update := ReportUpdate{
			Table:   res.Table,
			Content: stringPtr(buildReportContent(content, res.Table)),
		}
		if res.AttachmentID != "" {
			update.AttachmentID = &res.AttachmentID
		}
		s.UpdateReport(s.current.ID, update)
	}
	return s.current, nil
}

// FetchAttachmentResult loads the result set of a prior message's
// attachment. It refreshes the current report, or synthesizes one titled
// from the attachment's query description when no report is current.
func (s *ReportStore) FetchAttachmentResult(ctx context.Context, conversationID, messageID, attachmentID string) (*Report, error) {
	table, err := s.client.AttachmentResult(ctx, conversationID, messageID, attachmentID)
	if err != nil {
		LogError("fetch attachment result: %v", err)
		return nil, err
	}

	s.session = SessionRef{
		ConversationID: conversationID,
		MessageID:      messageID,
		AttachmentID:   attachmentID,
	}

	if s.current != nil {
		s.UpdateReport(s.current.ID, ReportUpdate{
			Table:        table,
			Content:      stringPtr(buildReportContent(s.current.Title, table)),
			AttachmentID: &attachmentID,
		})
		return s.current, nil
	}

	title := "Query Results"
	if desc, err := s.client.AttachmentDescription(ctx, conversationID, messageID, attachmentID); err != nil {
		LogDebug("attachment description unavailable: %v", err)
	} else if desc != "" {
		title = desc
	}

	now := time.Now()
	report := &Report{
		ID:             NewID(),
		ConversationID: conversationID,
		AttachmentID:   attachmentID,
		Title:          title,
		Description:    descriptionFromPrompt(title),
		Content:        buildReportContent(title, table),
		Status:         StatusDraft,
		Type:           "Query Results",
		Table:          table,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.Add(report)
	return report, nil
}

// UpdateReport merges partial fields into the matching report and bumps
// its updated timestamp. Reports false when no report matches.
func (s *ReportStore) UpdateReport(id string, update ReportUpdate) bool {
	report := s.FindByID(id)
	if report == nil {
		return false
	}
	if update.Title != nil {
		report.Title = *update.Title
	}
	if update.Description != nil {
		report.Description = *update.Description
	}
	if update.Content != nil {
		report.Content = *update.Content
	}
	if update.Status != nil {
		report.Status = *update.Status
	}
	if update.Type != nil {
		report.Type = *update.Type
	}
	if update.Table != nil {
		report.Table = update.Table
	}
	if update.AttachmentID != nil {
		report.AttachmentID = *update.AttachmentID
	}
	report.UpdatedAt = time.Now()
	return true
}

// Snapshot returns a serializable copy of the store's state
func (s *ReportStore) Snapshot() *StoreState {
	state := &StoreState{Reports: s.reports, Session: s.session}
	if s.current != nil {
		state.CurrentID = s.current.ID
	}
	return state
}

// Restore replaces the store's state from a snapshot
func (s *ReportStore) Restore(state *StoreState) {
	if state == nil {
		return
	}
	s.reports = state.Reports
	s.session = state.Session
	s.current = nil
	if state.CurrentID != "" {
		s.current = s.FindByID(state.CurrentID)
	}
}

// buildReport constructs a new report from a prompt and an optional
// result set. Without tabular data the backend gave us nothing to show
// yet, so the content is a deterministic summary of the request.
func (s *ReportStore) buildReport(prompt string, table *TabularData) *Report {
	now := time.Now()
	report := &Report{
		ID:          NewID(),
		Title:       titleFromPrompt(prompt),
		Description: descriptionFromPrompt(prompt),
		Status:      StatusDraft,
		Type:        "General",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if table != nil {
		if table.Title != "" {
			report.Title = table.Title
		}
		if table.Type != "" {
			report.Type = table.Type
		} else {
			report.Type = "Query Results"
		}
		report.Table = table
		report.Content = buildReportContent(prompt, table)
	} else {
		report.Content = buildSummaryContent(prompt)
	}
	return report
}

// titleFromPrompt synthesizes a report title when the backend omits one
func titleFromPrompt(prompt string) string {
	title := strings.TrimSpace(prompt)
	if title == "" {
		return "AI Generated Report"
	}
	if len(title) > 60 {
		title = title[:57] + "..."
	}
	return strings.ToUpper(title[:1]) + title[1:]
}

const promptDescriptionPrefix = "Report generated from prompt: "

// descriptionFromPrompt records the originating prompt, truncated
func descriptionFromPrompt(prompt string) string {
	if len(prompt) > 100 {
		prompt = prompt[:100] + "..."
	}
	return promptDescriptionPrefix + fmt.Sprintf("%q", prompt)
}

// buildReportContent renders a markdown-like report body around a result set
func buildReportContent(prompt string, table *TabularData) string {
	var b strings.Builder
	title := table.Title
	if title == "" {
		title = titleFromPrompt(prompt)
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	b.WriteString("## Executive Summary\n")
	fmt.Fprintf(&b, "Based on your request: %q\n\n", prompt)
	b.WriteString("## Key Findings\n")
	fmt.Fprintf(&b, "- Total records analyzed: %d\n", len(table.Rows))
	if table.Type != "" {
		fmt.Fprintf(&b, "- Data type: %s\n", table.Type)
	}
	b.WriteString("\n## Data Analysis\n")
	b.WriteString("The following table shows the complete dataset:\n\n")
	b.WriteString(tableMarkdown(table))
	return b.String()
}

// buildSummaryContent is the fallback body when the backend returned no
// tabular data for a new conversation.
func buildSummaryContent(prompt string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", titleFromPrompt(prompt))
	b.WriteString("## Executive Summary\n")
	fmt.Fprintf(&b, "Based on your request: %q\n\n", prompt)
	b.WriteString("The report conversation has been started. Refine your request in the chat to populate the result set.\n")
	return b.String()
}

// tableMarkdown renders tabular data as a pipe-delimited markdown table
func tableMarkdown(table *TabularData) string {
	if len(table.Columns) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "| %s |\n", strings.Join(table.Columns, " | "))
	b.WriteString("|")
	for range table.Columns {
		b.WriteString("----------|")
	}
	b.WriteString("\n")
	for _, row := range table.Rows {
		cells := make([]string, len(table.Columns))
		for i, col := range table.Columns {
			cells[i] = FormatCell(row[col])
		}
		fmt.Fprintf(&b, "| %s |\n", strings.Join(cells, " | "))
	}
	return b.String()
}

func stringPtr(s string) *string {
	return &s
}
