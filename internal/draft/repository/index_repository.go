package repository

import (
	"strings"
	"time"

	"draftpilot-backend/internal/draft/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// messageIndexRepository implements MessageIndexRepository on Postgres
type messageIndexRepository struct {
	db *gorm.DB
}

// NewMessageIndexRepository creates a new instance of messageIndexRepository
func NewMessageIndexRepository(db *gorm.DB) MessageIndexRepository {
	return &messageIndexRepository{
		db: db,
	}
}

func (r *messageIndexRepository) UpsertMessages(messages []*domain.Message) error {
	entries := make([]domain.IndexEntry, 0, len(messages))
	for _, m := range messages {
		if m == nil || m.ID == "" {
			continue
		}
		received := ""
		if ts := m.Timestamp(); !ts.IsZero() {
			received = ts.UTC().Format(time.RFC3339)
		}
		entries = append(entries, domain.IndexEntry{
			ID:          m.ID,
			Sender:      strings.ToLower(m.Sender),
			Subject:     m.Subject,
			BodyPreview: m.PreviewText(),
			ReceivedUTC: received,
		})
	}
	if len(entries) == 0 {
		return nil
	}

	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&entries).Error
}

func (r *messageIndexRepository) SearchLexical(term, sender string, limit int) ([]domain.IndexEntry, error) {
	pattern := "%" + strings.ToLower(term) + "%"

	query := r.db.Model(&domain.IndexEntry{}).
		Where("(LOWER(subject) LIKE ? OR LOWER(body_preview) LIKE ?)", pattern, pattern)
	if sender != "" {
		query = query.Where("sender = ?", strings.ToLower(sender))
	}

	var entries []domain.IndexEntry
	err := query.Order("received_utc DESC").Limit(limit).Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
