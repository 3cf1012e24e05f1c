package graph

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Subscription is a Graph change-notification subscription on the inbox.
type Subscription struct {
	ID                 string `json:"id"`
	Resource           string `json:"resource"`
	ChangeType         string `json:"changeType"`
	NotificationURL    string `json:"notificationUrl"`
	ExpirationDateTime string `json:"expirationDateTime"`
	ClientState        string `json:"clientState"`
}

// CreateSubscription subscribes to "created" events on the inbox. Graph
// validates notificationURL synchronously, so the webhook endpoint must be
// reachable before this call. clientState is echoed back on every
// notification and checked at intake.
func (c *Client) CreateSubscription(ctx context.Context, notificationURL, clientState string) (*Subscription, error) {
	payload := map[string]interface{}{
		"changeType":         "created",
		"notificationUrl":    notificationURL,
		"resource":           "me/mailFolders('inbox')/messages",
		"expirationDateTime": time.Now().UTC().Add(time.Hour).Format(time.RFC3339),
		"clientState":        clientState,
	}

	var sub Subscription
	if err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/subscriptions", payload, &sub); err != nil {
		return nil, fmt.Errorf("subscription creation failed: %w", err)
	}
	return &sub, nil
}

// DeleteSubscription removes a subscription by id.
func (c *Client) DeleteSubscription(ctx context.Context, subscriptionID string) error {
	requestURL := fmt.Sprintf("%s/subscriptions/%s", c.baseURL, url.PathEscape(subscriptionID))
	return c.doJSON(ctx, http.MethodDelete, requestURL, nil, nil)
}
