package dto

// ChangeNotification is one item of a Graph change notification batch.
type ChangeNotification struct {
	SubscriptionID string       `json:"subscriptionId"`
	ChangeType     string       `json:"changeType"`
	ClientState    string       `json:"clientState"`
	Resource       string       `json:"resource"`
	ResourceData   ResourceData `json:"resourceData"`
}

type ResourceData struct {
	ID string `json:"id"`
}

// NotificationBatch mirrors the Graph webhook envelope. ValidationTokens is
// present only on lifecycle notifications.
type NotificationBatch struct {
	Value            []ChangeNotification `json:"value"`
	ValidationTokens []string             `json:"validationTokens,omitempty"`
}

type WebhookResponse struct {
	Status string `json:"status"`
}

type RecentDraftsResponse struct {
	Items interface{} `json:"items"`
}

type SendTestEmailRequest struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type StartMonitoringRequest struct {
	WebhookURL string `json:"webhook_url"`
}
