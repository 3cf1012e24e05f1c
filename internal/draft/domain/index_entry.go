package domain

// IndexEntry is the persisted projection of a Message in the lexical index.
// The message id is the natural key: upserting the same id replaces the row,
// so re-indexing is a no-op for index shape.
type IndexEntry struct {
	ID          string `json:"id" gorm:"primaryKey"`
	Sender      string `json:"sender" gorm:"index"`
	Subject     string `json:"subject"`
	BodyPreview string `json:"body_preview" gorm:"type:text"`
	ReceivedUTC string `json:"received_utc" gorm:"index"`
}

// TableName specifies the table name for GORM
func (IndexEntry) TableName() string {
	return "message_index"
}
