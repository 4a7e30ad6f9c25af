package models

import (
	"time"
)

// EmailStatus records the outcome of the last notification sent for a registration.
type EmailStatus string

const (
	EmailStatusUnset        EmailStatus = ""
	EmailStatusPendingSent  EmailStatus = "pending_email_sent"
	EmailStatusVerifiedSent EmailStatus = "verified_email_sent"
	EmailStatusVerifiedFail EmailStatus = "verified_email_failed"
)

type Member struct {
	Name       string `bson:"name" json:"name" validate:"required"`
	RegNo      string `bson:"reg_no" json:"reg_no" validate:"required"`
	Phone      string `bson:"phone" json:"phone" validate:"required"`
	Department string `bson:"department" json:"department" validate:"required"`
	Year       string `bson:"year" json:"year" validate:"required"`
	Section    string `bson:"section" json:"section" validate:"required"`
}

// Lead is the member who submits the registration and receives email.
type Lead struct {
	Member `bson:",inline"`
	Email  string `bson:"email" json:"email" validate:"required,email"`
}

type Registration struct {
	ID        string `bson:"_id,omitempty" json:"id"`
	EventID   string `bson:"event_id" json:"event_id"`
	EventName string `bson:"event_name" json:"event_name"`

	Lead        `bson:",inline"`
	TeamMembers []Member `bson:"team_members" json:"team_members"`

	TransactionID       string `bson:"transaction_id,omitempty" json:"transaction_id,omitempty"`
	TransactionImageURL string `bson:"transaction_image_url,omitempty" json:"transaction_image_url,omitempty"`

	RegisteredAt time.Time   `bson:"registered_at" json:"registered_at"`
	Verified     bool        `bson:"verified" json:"verified"`
	VerifiedAt   *time.Time  `bson:"verified_at,omitempty" json:"verified_at,omitempty"`
	EmailStatus  EmailStatus `bson:"email_status,omitempty" json:"email_status,omitempty"`
}

// Registration fields the store is queried and patched on.
const (
	FieldEventID      = "event_id"
	FieldVerified     = "verified"
	FieldVerifiedAt   = "verified_at"
	FieldEmailStatus  = "email_status"
	FieldRegisteredAt = "registered_at"
	FieldEndTime      = "end_time"
	FieldTitle        = "title"
	FieldName         = "name"
)
