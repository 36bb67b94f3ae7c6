package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Client talks to the report backend. It is stateless: every method is a
// single request/response pair, and shape normalization happens here so
// callers only ever see canonical types.
type Client struct {
	baseURL    string
	nl2sqlURL  string
	pageSize   int
	httpClient *http.Client
}

// NewClient builds a backend client from the runtime configuration
func NewClient(cfg *Config) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.APIURL, "/"),
		nl2sqlURL:  strings.TrimRight(cfg.NL2SQLURL, "/"),
		pageSize:   cfg.PageSize,
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
	}
}

// StartResult is the canonical response of the start-conversation endpoint
type StartResult struct {
	ConversationID string
	MessageID      string
	AttachmentID   string
	Table          *TabularData
}

// ChatResult is the canonical response of the continue-conversation endpoint
type ChatResult struct {
	MessageID    string
	AttachmentID string
	Table        *TabularData
}

// doJSON issues one request and decodes the response body into out.
// Failures are logged and returned as *APIError; they are never swallowed.
func (c *Client) doJSON(ctx context.Context, method, endpoint string, body interface{}, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		apiErr := &APIError{Endpoint: endpoint, Err: err}
		LogError("request failed: %v", apiErr)
		return apiErr
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Endpoint: endpoint, StatusCode: resp.StatusCode}
		LogError("request failed: %v", apiErr)
		return apiErr
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &MalformedResponseError{Endpoint: endpoint, Reason: "invalid JSON body", Err: err}
	}
	return nil
}

// GenerateOneShot posts a prompt to the one-shot nl2sql endpoint and
// returns its tabular result. Column order follows the first row's key
// order as it appears on the wire.
func (c *Client) GenerateOneShot(ctx context.Context, prompt string) (*TabularData, error) {
	endpoint := c.nl2sqlURL + "/nl2sql"
	var resp struct {
		Title string            `json:"title"`
		Type  string            `json:"type"`
		Data  []json.RawMessage `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodPost, endpoint, map[string]string{"prompt": prompt}, &resp); err != nil {
		return nil, err
	}

	table := &TabularData{Title: resp.Title, Type: resp.Type}
	for i, raw := range resp.Data {
		if i == 0 {
			cols, err := objectKeys(raw)
			if err != nil {
				return nil, &MalformedResponseError{Endpoint: endpoint, Reason: "data rows are not objects", Err: err}
			}
			table.Columns = cols
		}
		var row Row
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, &MalformedResponseError{Endpoint: endpoint, Reason: "data rows are not objects", Err: err}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// StartConversation opens a new report conversation from a prompt. When
// the backend already produced a result set it arrives nested under
// statement_response as parallel column/row arrays and is zipped here.
func (c *Client) StartConversation(ctx context.Context, content string) (*StartResult, error) {
	endpoint := c.baseURL + "/api/reports/start"
	var resp struct {
		MessageID      string `json:"message_id"`
		ConversationID string `json:"conversation_id"`
		AttachmentID   string `json:"attachment_id"`
		Result         *struct {
			StatementResponse struct {
				Manifest struct {
					Schema struct {
						Columns []struct {
							Name string `json:"name"`
						} `json:"columns"`
					} `json:"schema"`
				} `json:"manifest"`
				Result struct {
					DataArray [][]interface{} `json:"data_array"`
				} `json:"result"`
			} `json:"statement_response"`
		} `json:"result"`
	}
	if err := c.doJSON(ctx, http.MethodPost, endpoint, map[string]string{"content": content}, &resp); err != nil {
		return nil, err
	}
	if resp.ConversationID == "" {
		return nil, &MalformedResponseError{Endpoint: endpoint, Reason: "missing conversation_id"}
	}

	result := &StartResult{
		ConversationID: resp.ConversationID,
		MessageID:      resp.MessageID,
		AttachmentID:   resp.AttachmentID,
	}
	if resp.Result != nil {
		sr := resp.Result.StatementResponse
		columns := make([]string, len(sr.Manifest.Schema.Columns))
		for i, col := range sr.Manifest.Schema.Columns {
			columns[i] = col.Name
		}
		if len(columns) > 0 {
			result.Table = zipColumns(columns, sr.Result.DataArray)
		}
	}
	return result, nil
}

// SendChat posts a follow-up message to an existing conversation
func (c *Client) SendChat(ctx context.Context, conversationID, content string) (*ChatResult, error) {
	endpoint := fmt.Sprintf("%s/api/reports/%s/chat", c.baseURL, url.PathEscape(conversationID))
	var resp struct {
		MessageID    string          `json:"messageId"`
		AttachmentID string          `json:"attachmentId"`
		Columns      []string        `json:"columns"`
		Rows         [][]interface{} `json:"rows"`
	}
	if err := c.doJSON(ctx, http.MethodPost, endpoint, map[string]string{"content": content}, &resp); err != nil {
		return nil, err
	}

	result := &ChatResult{MessageID: resp.MessageID, AttachmentID: resp.AttachmentID}
	if len(resp.Columns) > 0 {
		result.Table = zipColumns(resp.Columns, resp.Rows)
	}
	return result, nil
}

// LatestAttachment returns the id of the most recent attachment in a
// conversation.
func (c *Client) LatestAttachment(ctx context.Context, conversationID string) (string, error) {
	endpoint := fmt.Sprintf("%s/api/reports/%s/latest-attachment", c.baseURL, url.PathEscape(conversationID))
	var resp struct {
		AttachmentID string `json:"attachmentId"`
	}
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return "", err
	}
	return resp.AttachmentID, nil
}

// AttachmentDescription fetches the original query description of an
// attachment, used to title a rehydrated report.
func (c *Client) AttachmentDescription(ctx context.Context, conversationID, messageID, attachmentID string) (string, error) {
	endpoint := fmt.Sprintf("%s/api/reports/%s/messages/%s/attachments/%s",
		c.baseURL, url.PathEscape(conversationID), url.PathEscape(messageID), url.PathEscape(attachmentID))
	var resp struct {
		Query struct {
			Description string `json:"description"`
		} `json:"query"`
	}
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return "", err
	}
	return resp.Query.Description, nil
}

// AttachmentResult fetches the result set of an attachment as parallel
// column and row arrays and zips them into row objects.
func (c *Client) AttachmentResult(ctx context.Context, conversationID, messageID, attachmentID string) (*TabularData, error) {
	endpoint := fmt.Sprintf("%s/api/reports/%s/messages/%s/attachments/%s/result",
		c.baseURL, url.PathEscape(conversationID), url.PathEscape(messageID), url.PathEscape(attachmentID))
	var resp struct {
		Columns []string        `json:"columns"`
		Rows    [][]interface{} `json:"rows"`
	}
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, err
	}
	if len(resp.Columns) == 0 {
		return nil, &MalformedResponseError{Endpoint: endpoint, Reason: "missing columns"}
	}
	return zipColumns(resp.Columns, resp.Rows), nil
}

// ListAllMessages fetches a conversation's full message history, following
// the continuation token one page at a time until it is exhausted.
func (c *Client) ListAllMessages(ctx context.Context, conversationID string) ([]HistoryMessage, error) {
	var all []HistoryMessage
	pageToken := ""
	for {
		query := url.Values{}
		query.Set("pageSize", strconv.Itoa(c.pageSize))
		if pageToken != "" {
			query.Set("pageToken", pageToken)
		}
		endpoint := fmt.Sprintf("%s/api/reports/%s/messages?%s",
			c.baseURL, url.PathEscape(conversationID), query.Encode())

		var resp struct {
			Messages      []HistoryMessage `json:"messages"`
			NextPageToken string           `json:"next_page_token"`
		}
		if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
			return nil, err
		}
		all = append(all, resp.Messages...)
		if resp.NextPageToken == "" {
			return all, nil
		}
		pageToken = resp.NextPageToken
	}
}

// ListMappings fetches the named report mappings. The endpoint returns
// either a plain array or an index-keyed object depending on backend
// version; both are normalized into one ordered slice holding only the
// explicitly mapped entries.
func (c *Client) ListMappings(ctx context.Context) ([]ReportMapping, error) {
	endpoint := c.baseURL + "/api/reports?onlyMapped=true"
	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &raw); err != nil {
		return nil, err
	}

	var list []ReportMapping
	if err := json.Unmarshal(raw, &list); err != nil {
		indexed := map[string]ReportMapping{}
		if err := json.Unmarshal(raw, &indexed); err != nil {
			return nil, &MalformedResponseError{Endpoint: endpoint, Reason: "neither array nor indexed object", Err: err}
		}
		keys := make([]string, 0, len(indexed))
		for k := range indexed {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			a, aErr := strconv.Atoi(keys[i])
			b, bErr := strconv.Atoi(keys[j])
			if aErr == nil && bErr == nil {
				return a < b
			}
			return keys[i] < keys[j]
		})
		for _, k := range keys {
			list = append(list, indexed[k])
		}
	}

	mapped := make([]ReportMapping, 0, len(list))
	for _, m := range list {
		if m.Mapped {
			mapped = append(mapped, m)
		}
	}
	return mapped, nil
}

// SaveMapping assigns a display name to a conversation
func (c *Client) SaveMapping(ctx context.Context, conversationID, reportName, description string) error {
	endpoint := c.baseURL + "/api/reports/mappings"
	body := map[string]interface{}{
		"conversationId": conversationID,
		"reportName":     reportName,
		"description":    description,
		"active":         true,
	}
	return c.doJSON(ctx, http.MethodPost, endpoint, body, nil)
}

// zipColumns transforms parallel column/row arrays into row objects.
// Short rows leave the trailing columns unset, which render blank.
func zipColumns(columns []string, rows [][]interface{}) *TabularData {
	table := &TabularData{Columns: columns}
	for _, values := range rows {
		row := Row{}
		for i, col := range columns {
			if i < len(values) {
				row[col] = values[i]
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

// objectKeys returns a JSON object's keys in wire order
func objectKeys(raw json.RawMessage) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	var keys []string
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", keyTok)
		}
		keys = append(keys, key)

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
	}
	return keys, nil
}
