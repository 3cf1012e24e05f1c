package delivery

import (
	"context"
	"log"
	"net/http"
	"strings"
	"sync"

	"draftpilot-backend/internal/draft/dto"
	"draftpilot-backend/internal/draft/usecase"
	"draftpilot-backend/pkg/config"
	"draftpilot-backend/pkg/graph"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DraftHandler struct {
	draftUsecase usecase.DraftUsecase
	graphClient  *graph.Client
	auth         *graph.Authenticator
	config       *config.Config

	// Active subscription state; one monitored mailbox per instance.
	monitorMu      sync.Mutex
	subscriptionID string
}

func NewDraftHandler(draftUsecase usecase.DraftUsecase, graphClient *graph.Client, auth *graph.Authenticator, cfg *config.Config) *DraftHandler {
	return &DraftHandler{
		draftUsecase: draftUsecase,
		graphClient:  graphClient,
		auth:         auth,
		config:       cfg,
	}
}

// Webhook serves both Graph endpoint validation (query validationToken is
// echoed back as plain text) and change notification batches.
func (h *DraftHandler) Webhook(c *gin.Context) {
	if validationToken := c.Query("validationToken"); validationToken != "" {
		log.Printf("[Webhook] Validation token received")
		c.String(http.StatusOK, validationToken)
		return
	}

	if c.Request.Method != http.MethodPost {
		c.JSON(http.StatusOK, gin.H{"status": "webhook endpoint active"})
		return
	}

	var batch dto.NotificationBatch
	if err := c.ShouldBindJSON(&batch); err != nil {
		log.Printf("[Webhook] Malformed notification payload: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification payload"})
		return
	}

	// Lifecycle notifications carry JWT validation tokens; sanity-check the
	// audience before acknowledging.
	for _, token := range batch.ValidationTokens {
		if err := graph.CheckValidationToken(token, h.config.GraphClientID); err != nil {
			log.Printf("[Webhook] Rejecting lifecycle notification: %v", err)
			c.JSON(http.StatusAccepted, dto.WebhookResponse{Status: "processed"})
			return
		}
	}

	result := h.draftUsecase.HandleNotificationBatch(c.Request.Context(), batch)
	c.JSON(http.StatusOK, result)
}

// RecentDrafts returns the generated drafts recorded for display.
func (h *DraftHandler) RecentDrafts(c *gin.Context) {
	c.JSON(http.StatusOK, dto.RecentDraftsResponse{Items: h.draftUsecase.ListRecentDrafts()})
}

func (h *DraftHandler) Health(c *gin.Context) {
	h.monitorMu.Lock()
	monitoring := h.subscriptionID != ""
	h.monitorMu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"status":        "healthy",
		"authenticated": h.auth.Authenticated(),
		"monitoring":    monitoring,
	})
}

// StartMonitoring creates the inbox change subscription. The webhook base
// URL may be overridden in the request body for tunnel setups.
func (h *DraftHandler) StartMonitoring(c *gin.Context) {
	h.monitorMu.Lock()
	defer h.monitorMu.Unlock()

	if h.subscriptionID != "" {
		c.JSON(http.StatusOK, gin.H{"message": "monitoring is already active", "subscription_id": h.subscriptionID})
		return
	}

	baseURL := h.config.WebhookURL
	var req dto.StartMonitoringRequest
	if err := c.ShouldBindJSON(&req); err == nil && req.WebhookURL != "" {
		baseURL = req.WebhookURL
	}
	if baseURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no webhook URL configured"})
		return
	}

	clientState := uuid.NewString()
	endpoint := strings.TrimRight(baseURL, "/") + "/webhook"
	log.Printf("[Webhook] Creating subscription to: %s", endpoint)

	sub, err := h.graphClient.CreateSubscription(c.Request.Context(), endpoint, clientState)
	if err != nil {
		log.Printf("[Webhook] Error starting monitoring: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.subscriptionID = sub.ID
	h.draftUsecase.SetClientState(clientState)
	log.Printf("[Webhook] Created subscription: %s", sub.ID)
	c.JSON(http.StatusOK, gin.H{"message": "started monitoring inbox", "subscription_id": sub.ID})
}

// StopMonitoring deletes the active subscription.
func (h *DraftHandler) StopMonitoring(c *gin.Context) {
	h.monitorMu.Lock()
	defer h.monitorMu.Unlock()

	if h.subscriptionID == "" {
		c.JSON(http.StatusOK, gin.H{"message": "monitoring is not active"})
		return
	}

	if err := h.graphClient.DeleteSubscription(c.Request.Context(), h.subscriptionID); err != nil {
		log.Printf("[Webhook] Error stopping monitoring: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	log.Printf("[Webhook] Deleted subscription: %s", h.subscriptionID)
	h.subscriptionID = ""
	h.draftUsecase.SetClientState("")
	c.JSON(http.StatusOK, gin.H{"message": "stopped monitoring inbox"})
}

// Shutdown best-effort deletes the subscription during process exit.
func (h *DraftHandler) Shutdown() {
	h.monitorMu.Lock()
	defer h.monitorMu.Unlock()
	if h.subscriptionID == "" {
		return
	}
	if err := h.graphClient.DeleteSubscription(context.Background(), h.subscriptionID); err != nil {
		log.Printf("[Webhook] Error deleting subscription on shutdown: %v", err)
	}
	h.subscriptionID = ""
}

// Login redirects the operator to the Microsoft consent page.
func (h *DraftHandler) Login(c *gin.Context) {
	c.Redirect(http.StatusFound, h.auth.AuthCodeURL("draftpilot"))
}

// AuthCallback redeems the authorization code.
func (h *DraftHandler) AuthCallback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "authorization code not provided"})
		return
	}
	if err := h.auth.Exchange(c.Request.Context(), code); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.Redirect(http.StatusFound, "/api/health")
}

// DebugRetrieval queries the lexical index directly, mirroring the pipeline's
// term derivation.
func (h *DraftHandler) DebugRetrieval(c *gin.Context) {
	q := c.DefaultQuery("q", "test")
	sender := c.Query("sender")

	var terms []string
	for _, w := range strings.Fields(q) {
		if len(w) > 2 {
			terms = append(terms, w)
			if len(terms) >= 6 {
				break
			}
		}
	}

	items := h.draftUsecase.RetrieveCitations(terms, sender, 5)
	c.JSON(http.StatusOK, gin.H{"ok": true, "count": len(items), "items": items})
}

// DebugSendTestEmail sends a message to the signed-in mailbox for
// end-to-end checks.
func (h *DraftHandler) DebugSendTestEmail(c *gin.Context) {
	var req dto.SendTestEmailRequest
	_ = c.ShouldBindJSON(&req)
	if req.Subject == "" {
		req.Subject = "Test email from E2E script"
	}
	if req.Body == "" {
		req.Body = "<p>Hello from E2E</p>"
	}

	info, err := h.graphClient.GetUserInfo(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	toAddr, _ := info["mail"].(string)
	if toAddr == "" {
		toAddr, _ = info["userPrincipalName"].(string)
	}

	if err := h.graphClient.SendMail(c.Request.Context(), toAddr, req.Subject, req.Body); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
