package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"draftpilot-backend/internal/draft/domain"

	"golang.org/x/oauth2"
)

// Client is a thin wrapper around the Microsoft Graph endpoints the pipeline
// uses. It implements domain.MailProvider.
type Client struct {
	baseURL string
	auth    *Authenticator
}

func NewClient(auth *Authenticator) *Client {
	return &Client{
		baseURL: "https://graph.microsoft.com/v1.0",
		auth:    auth,
	}
}

// graph wire shapes

type graphEmailAddress struct {
	Address string `json:"address"`
	Name    string `json:"name"`
}

type graphRecipient struct {
	EmailAddress graphEmailAddress `json:"emailAddress"`
}

type graphBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

type graphMessage struct {
	ID                   string           `json:"id"`
	ConversationID       string           `json:"conversationId"`
	Subject              string           `json:"subject"`
	BodyPreview          string           `json:"bodyPreview"`
	Body                 graphBody        `json:"body"`
	From                 graphRecipient   `json:"from"`
	ToRecipients         []graphRecipient `json:"toRecipients"`
	ReceivedDateTime     string           `json:"receivedDateTime"`
	LastModifiedDateTime string           `json:"lastModifiedDateTime"`
	Categories           []string         `json:"categories"`
	IsDraft              bool             `json:"isDraft"`
}

type graphMessageList struct {
	Value []graphMessage `json:"value"`
}

// parseGraphTime parses Graph's ISO timestamps; a zero time means the value
// was absent or unparseable, which downstream scoring treats as "no bonus".
func parseGraphTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05Z"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func (g *graphMessage) toDomain() *domain.Message {
	msg := &domain.Message{
		ID:             g.ID,
		ConversationID: g.ConversationID,
		Sender:         g.From.EmailAddress.Address,
		SenderName:     g.From.EmailAddress.Name,
		Subject:        g.Subject,
		Body:           g.Body.Content,
		BodyPreview:    g.BodyPreview,
		ReceivedAt:     parseGraphTime(g.ReceivedDateTime),
		ModifiedAt:     parseGraphTime(g.LastModifiedDateTime),
		Categories:     g.Categories,
		IsDraft:        g.IsDraft,
	}
	for _, r := range g.ToRecipients {
		if r.EmailAddress.Address != "" {
			msg.ToRecipients = append(msg.ToRecipients, r.EmailAddress.Address)
		}
	}
	return msg
}

func (c *Client) httpClient(ctx context.Context) (*http.Client, error) {
	src, err := c.auth.TokenSource(ctx)
	if err != nil {
		return nil, err
	}
	return oauth2.NewClient(ctx, src), nil
}

// doJSON issues a request and decodes the response into out (when non-nil).
// Non-2xx responses become RequestError.
func (c *Client) doJSON(ctx context.Context, method, requestURL string, payload, out interface{}) error {
	client, err := c.httpClient(ctx)
	if err != nil {
		return err
	}

	var bodyReader io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewBuffer(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body := string(respBody)
		if len(body) > 2000 {
			body = body[:2000]
		}
		return &RequestError{Status: resp.StatusCode, Body: body}
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

// GetUserInfo fetches the signed-in user's basic profile.
func (c *Client) GetUserInfo(ctx context.Context) (map[string]interface{}, error) {
	var info map[string]interface{}
	if err := c.doJSON(ctx, http.MethodGet, c.baseURL+"/me", nil, &info); err != nil {
		return nil, err
	}
	return info, nil
}

// GetMessage fetches a single message by id.
func (c *Client) GetMessage(ctx context.Context, id string) (*domain.Message, error) {
	var gm graphMessage
	requestURL := fmt.Sprintf("%s/me/messages/%s", c.baseURL, url.PathEscape(id))
	if err := c.doJSON(ctx, http.MethodGet, requestURL, nil, &gm); err != nil {
		return nil, err
	}
	return gm.toDomain(), nil
}

// GetMessagesFromSender lists messages received from the address within the
// window, most recent first.
func (c *Client) GetMessagesFromSender(ctx context.Context, address string, days, limit int) ([]*domain.Message, error) {
	if address == "" {
		return nil, nil
	}
	filterDate := time.Now().UTC().AddDate(0, 0, -days).Format(time.RFC3339)
	params := url.Values{}
	params.Set("$filter", fmt.Sprintf("receivedDateTime ge %s and from/emailAddress/address eq '%s'", filterDate, address))
	params.Set("$top", fmt.Sprintf("%d", limit))
	params.Set("$orderby", "receivedDateTime desc")
	params.Set("$select", "id,conversationId,subject,bodyPreview,from,receivedDateTime,categories")

	var list graphMessageList
	if err := c.doJSON(ctx, http.MethodGet, c.baseURL+"/me/messages?"+params.Encode(), nil, &list); err != nil {
		return nil, err
	}
	return toDomainList(list.Value), nil
}

// GetDraftsToRecipient fetches recent drafts and filters client-side by
// recipient address; recipient filters in $filter are unreliable for
// personal mailboxes.
func (c *Client) GetDraftsToRecipient(ctx context.Context, address string, limit int) ([]*domain.Message, error) {
	if address == "" {
		return nil, nil
	}
	top := limit
	if top < 25 {
		top = 25
	}
	params := url.Values{}
	params.Set("$filter", "isDraft eq true")
	params.Set("$top", fmt.Sprintf("%d", top))
	params.Set("$orderby", "lastModifiedDateTime desc")
	params.Set("$select", "id,conversationId,subject,bodyPreview,toRecipients,lastModifiedDateTime,isDraft")

	var list graphMessageList
	if err := c.doJSON(ctx, http.MethodGet, c.baseURL+"/me/messages?"+params.Encode(), nil, &list); err != nil {
		return nil, err
	}

	target := strings.ToLower(address)
	var filtered []*domain.Message
	for _, gm := range list.Value {
		for _, r := range gm.ToRecipients {
			if strings.ToLower(r.EmailAddress.Address) == target {
				filtered = append(filtered, gm.toDomain())
				break
			}
		}
		if len(filtered) >= limit {
			break
		}
	}
	return filtered, nil
}

// CreateDraftReply saves a reply draft with the given HTML body on the
// original message and returns the draft id.
func (c *Client) CreateDraftReply(ctx context.Context, originalID, htmlBody string) (string, error) {
	payload := map[string]interface{}{
		"message": map[string]interface{}{
			"body": map[string]string{
				"contentType": "HTML",
				"content":     htmlBody,
			},
		},
	}

	var created graphMessage
	requestURL := fmt.Sprintf("%s/me/messages/%s/createReply", c.baseURL, url.PathEscape(originalID))
	if err := c.doJSON(ctx, http.MethodPost, requestURL, payload, &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

// SendMail sends an email from the signed-in mailbox. Used by the test-email
// debug endpoint only.
func (c *Client) SendMail(ctx context.Context, toAddress, subject, bodyHTML string) error {
	payload := map[string]interface{}{
		"message": map[string]interface{}{
			"subject": subject,
			"body":    map[string]string{"contentType": "HTML", "content": bodyHTML},
			"toRecipients": []map[string]interface{}{
				{"emailAddress": map[string]string{"address": toAddress}},
			},
		},
		"saveToSentItems": true,
	}
	return c.doJSON(ctx, http.MethodPost, c.baseURL+"/me/sendMail", payload, nil)
}

func toDomainList(items []graphMessage) []*domain.Message {
	out := make([]*domain.Message, 0, len(items))
	for i := range items {
		out = append(out, items[i].toDomain())
	}
	return out
}
