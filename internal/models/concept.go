package models

import (
	"time"

	"github.com/google/uuid"
)

// Concept is one study concept belonging to an app. app_id carries the
// parent app's bundle_id; the relation is a plain back-reference, only the
// cascade delete on the app treats it as ownership.
type Concept struct {
	ID         uuid.UUID `json:"id"`
	AppID      string    `json:"app_id"`
	Category   string    `json:"category"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Importance int       `json:"importance"` // 1-5
	Keywords   string    `json:"keywords,omitempty"`
	StudyNote  string    `json:"study_note,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
