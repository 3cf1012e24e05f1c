package usecase

import (
	"context"
	"log"
	"regexp"
	"time"

	"draftpilot-backend/internal/draft/dto"
)

// Resource paths look like me/mailFolders('inbox')/messages('<id>')
var messageIDPattern = regexp.MustCompile(`messages\('([^']+)'\)`)

func (u *draftUsecase) HandleNotificationBatch(ctx context.Context, batch dto.NotificationBatch) dto.WebhookResponse {
	for _, notification := range batch.Value {
		u.processNotification(ctx, notification)
	}
	return dto.WebhookResponse{Status: "processed"}
}

// processNotification filters and deduplicates one change event, then drives
// the pipeline. No failure here is fatal to the batch.
func (u *draftUsecase) processNotification(ctx context.Context, notification dto.ChangeNotification) {
	resourceID := notification.ResourceData.ID
	if resourceID == "" {
		if m := messageIDPattern.FindStringSubmatch(notification.Resource); len(m) == 2 {
			resourceID = m[1]
		}
	}

	if notification.ChangeType != "created" || resourceID == "" {
		log.Printf("[Intake] Skipping notification. changeType=%s, resourceIDPresent=%v", notification.ChangeType, resourceID != "")
		return
	}

	if expected := u.expectedClientState(); expected != "" && notification.ClientState != expected {
		log.Printf("[Intake] Dropping notification with mismatched clientState for %s", resourceID)
		return
	}

	if !u.admit(resourceID) {
		return
	}
	defer u.release(resourceID)

	if err := u.generateDraftReply(ctx, resourceID); err != nil {
		log.Printf("[Draft] Error generating draft reply for %s: %v", resourceID, err)
	}
}

// admit reserves the id for processing. It refuses ids that are currently
// in flight or were processed within the dedup window. The window is the
// correctness mechanism against at-least-once delivery: re-processing would
// create a second draft.
func (u *draftUsecase) admit(id string) bool {
	u.ledgerMu.Lock()
	defer u.ledgerMu.Unlock()

	if _, busy := u.inflight[id]; busy {
		log.Printf("[Intake] Skipping %s - already being processed", id)
		return false
	}
	if last, ok := u.recentlyProcessed[id]; ok && u.now().Sub(last) < u.dedupWindow {
		log.Printf("[Intake] Skipping duplicate notification for %s", id)
		return false
	}
	u.inflight[id] = struct{}{}
	return true
}

// release unmarks the id and stamps it as processed, on success or failure.
func (u *draftUsecase) release(id string) {
	u.ledgerMu.Lock()
	defer u.ledgerMu.Unlock()
	delete(u.inflight, id)
	u.recentlyProcessed[id] = u.now()
}

// startLedgerSweeper bounds the recently-processed map in long-running
// processes by dropping stamps far older than the dedup window.
func (u *draftUsecase) startLedgerSweeper() {
	ticker := time.NewTicker(time.Minute)
	go func() {
		for range ticker.C {
			u.sweepLedger()
		}
	}()
}

func (u *draftUsecase) sweepLedger() {
	cutoff := u.now().Add(-10 * u.dedupWindow)
	u.ledgerMu.Lock()
	defer u.ledgerMu.Unlock()
	for id, stamp := range u.recentlyProcessed {
		if stamp.Before(cutoff) {
			delete(u.recentlyProcessed, id)
		}
	}
}
