package models

import (
	"time"

	"github.com/google/uuid"
)

// Lecture is one audio lecture belonging to an app (app_id = bundle_id).
type Lecture struct {
	ID              uuid.UUID `json:"id"`
	AppID           string    `json:"app_id"`
	Category        string    `json:"category,omitempty"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	AudioURL        string    `json:"audio_url,omitempty"`
	DurationSeconds int       `json:"duration_seconds,omitempty"`
	Transcript      string    `json:"transcript,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
