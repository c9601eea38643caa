package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"
)

// HTTPEmailConnector talks to a mailbox provider's REST gateway. Search and
// thread reads are provider-side; drafts live in the provider so the
// operator can see them in their own mailbox.
type HTTPEmailConnector struct {
	client *httpClient
}

func NewHTTPEmailConnector(baseURL, apiKey string) *HTTPEmailConnector {
	return &HTTPEmailConnector{client: newHTTPClient(baseURL, apiKey)}
}

func (c *HTTPEmailConnector) SearchThreads(ctx context.Context, query string, limit int) ([]EmailThreadRef, error) {
	if limit <= 0 {
		limit = 10
	}
	path := fmt.Sprintf("/threads/search?q=%s&limit=%d", url.QueryEscape(query), limit)
	body, err := c.client.doJSON(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var refs []EmailThreadRef
	for _, item := range gjson.GetBytes(body, "threads").Array() {
		lastAt, _ := time.Parse(time.RFC3339, item.Get("last_message_at").String())
		refs = append(refs, EmailThreadRef{
			ID:            item.Get("id").String(),
			Subject:       item.Get("subject").String(),
			Snippet:       item.Get("snippet").String(),
			LastMessageAt: lastAt,
		})
	}
	return refs, nil
}

func (c *HTTPEmailConnector) GetThread(ctx context.Context, threadID string) (*EmailThread, error) {
	body, err := c.client.doJSON(ctx, http.MethodGet, "/threads/"+url.PathEscape(threadID), nil)
	if err != nil {
		return nil, err
	}

	thread := &EmailThread{
		ID:      gjson.GetBytes(body, "id").String(),
		Subject: gjson.GetBytes(body, "subject").String(),
	}
	for _, item := range gjson.GetBytes(body, "messages").Array() {
		date, _ := time.Parse(time.RFC3339, item.Get("date").String())
		thread.Messages = append(thread.Messages, EmailMessage{
			MessageID: item.Get("message_id").String(),
			From:      item.Get("from").String(),
			To:        item.Get("to").String(),
			Date:      date,
			Body:      item.Get("body").String(),
			IsHTML:    item.Get("is_html").Bool(),
		})
	}
	return thread, nil
}

func (c *HTTPEmailConnector) CreateDraft(ctx context.Context, email OutboundEmail) (string, error) {
	body, err := c.client.doJSON(ctx, http.MethodPost, "/drafts", email)
	if err != nil {
		return "", err
	}
	draftID := gjson.GetBytes(body, "id").String()
	if draftID == "" {
		return "", NewConnectorError(ConnectorErrPermanent, "provider returned no draft id", nil)
	}
	return draftID, nil
}

func (c *HTTPEmailConnector) Send(ctx context.Context, externalDraftID string, email OutboundEmail) (*SendReceipt, error) {
	payload := map[string]interface{}{
		"draft_id": externalDraftID,
		"email":    email,
	}
	body, err := c.client.doJSON(ctx, http.MethodPost, "/messages/send", payload)
	if err != nil {
		return nil, err
	}

	var receipt SendReceipt
	if err := json.Unmarshal(body, &receipt); err != nil {
		return nil, NewConnectorError(ConnectorErrPermanent, "failed to decode send receipt", err)
	}
	if receipt.MessageID == "" {
		return nil, NewConnectorError(ConnectorErrPermanent, "provider returned no message id", nil)
	}
	return &receipt, nil
}

func (c *HTTPEmailConnector) DeleteDraft(ctx context.Context, externalDraftID string) error {
	_, err := c.client.doJSON(ctx, http.MethodDelete, "/drafts/"+url.PathEscape(externalDraftID), nil)
	if connErr, ok := AsConnectorError(err); ok && connErr.Kind == ConnectorErrNotFound {
		// already gone, rollback treats this as success
		return nil
	}
	return err
}
