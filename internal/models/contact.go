package models

import (
	"time"

	"github.com/google/uuid"
)

// ContactStatus is the workflow state of a contact submission.
type ContactStatus string

const (
	ContactStatusPending    ContactStatus = "pending"
	ContactStatusInProgress ContactStatus = "in_progress"
	ContactStatusResolved   ContactStatus = "resolved"
)

// ValidContactStatus reports whether s is a known contact status.
func ValidContactStatus(s string) bool {
	switch ContactStatus(s) {
	case ContactStatusPending, ContactStatusInProgress, ContactStatusResolved:
		return true
	}
	return false
}

// ContactSubmission is a message sent through the public contact form.
// Only the status field is mutated after creation.
type ContactSubmission struct {
	ID        uuid.UUID     `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Subject   string        `json:"subject"`
	Message   string        `json:"message"`
	Status    ContactStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
