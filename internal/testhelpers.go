package internal

import (
	"time"
)

// CreateTestTable creates tabular data with sample payroll rows
func CreateTestTable() *TabularData {
	return &TabularData{
		Title:   "Payroll Summary",
		Type:    "Payroll",
		Columns: []string{"employeeName", "department", "grossPay"},
		Rows: []Row{
			{"employeeName": "Alice Smith", "department": "Engineering", "grossPay": 8200.50},
			{"employeeName": "Bob Jones", "department": "Sales", "grossPay": 6400.00},
		},
	}
}

// CreateTestReport creates a test report with sample data
func CreateTestReport(id string) *Report {
	now := time.Now()
	return &Report{
		ID:             id,
		ConversationID: "conv-" + id,
		Title:          "Payroll Summary",
		Description:    promptDescriptionPrefix + `"payroll summary for Q3"`,
		Content:        "# Payroll Summary\n\n## Executive Summary\n\nSample report body.",
		Status:         StatusPublished,
		Type:           "Payroll",
		Table:          CreateTestTable(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// CreateTestMapping creates a named report mapping
func CreateTestMapping(conversationID, reportName string) ReportMapping {
	return ReportMapping{
		ConversationID: conversationID,
		DefaultTitle:   "Report " + conversationID,
		ReportName:     reportName,
		CreatedAt:      time.Now().Format(time.RFC3339),
		Mapped:         true,
	}
}

// CreateTestHandoff creates a hand-off payload with messages newest first
func CreateTestHandoff(conversationID string, count int) *HandoffPayload {
	payload := &HandoffPayload{ConversationID: conversationID}
	base := time.Now()
	for i := 0; i < count; i++ {
		role := "user"
		if i%2 == 0 {
			role = "assistant"
		}
		payload.Messages = append(payload.Messages, HistoryMessage{
			ID:        NewID(),
			Role:      role,
			Content:   "message " + string(rune('a'+i)),
			CreatedAt: base.Add(-time.Duration(i) * time.Minute).Format(time.RFC3339),
		})
	}
	return payload
}

// testConfig builds a configuration pointed at a test server
func testConfig(serverURL string) *Config {
	return &Config{
		APIURL:      serverURL,
		NL2SQLURL:   serverURL,
		PageSize:    50,
		HTTPTimeout: 5 * time.Second,
	}
}
