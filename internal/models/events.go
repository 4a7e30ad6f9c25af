package models

import (
	"time"
)

type Event struct {
	ID            string    `bson:"_id,omitempty" json:"id"`
	Title         string    `bson:"title" json:"title" validate:"required"`
	Description   string    `bson:"description" json:"description" validate:"required"`
	ContactNumber string    `bson:"contact_number" json:"contact_number"`
	Venue         string    `bson:"venue" json:"venue"`
	// TeamSize counts the lead. Amount 0 means a free event. Capacity caps verified registrations.
	TeamSize      int       `bson:"team_size" json:"team_size" validate:"gte=1"`
	Amount        int       `bson:"amount" json:"amount" validate:"gte=0"`
	Capacity      int       `bson:"capacity" json:"capacity" validate:"gte=1"`
	StartTime     time.Time `bson:"start_time" json:"start_time" validate:"required"`
	EndTime       time.Time `bson:"end_time" json:"end_time" validate:"required"`
	ImageURL      string    `bson:"image_url,omitempty" json:"image_url,omitempty"`
	QRCodeURL     string    `bson:"qr_code_url,omitempty" json:"qr_code_url,omitempty"`
	WhatsappLink  string    `bson:"whatsapp_link,omitempty" json:"whatsapp_link,omitempty"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updated_at"`
}

const (
	DefaultTeamSize = 1
	DefaultCapacity = 50
)

// ApplyDefaults fills the values the admin form falls back to when left blank.
func (e *Event) ApplyDefaults() {
	if e.TeamSize <= 0 {
		e.TeamSize = DefaultTeamSize
	}
	if e.Capacity <= 0 {
		e.Capacity = DefaultCapacity
	}
	if e.Amount < 0 {
		e.Amount = 0
	}
}

func (e *Event) IsPaid() bool {
	return e.Amount > 0
}

// IsClosed reports whether registration has ended at now.
func (e *Event) IsClosed(now time.Time) bool {
	return now.After(e.EndTime)
}

// HasCapacityLimit is false for legacy records stored without a capacity.
func (e *Event) HasCapacityLimit() bool {
	return e.Capacity > 0
}

// IsFull reports whether verified registrations have reached capacity.
func (e *Event) IsFull(verified int) bool {
	return e.HasCapacityLimit() && verified >= e.Capacity
}

func (e *Event) SlotsLeft(verified int) int {
	if !e.HasCapacityLimit() {
		return 0
	}
	if left := e.Capacity - verified; left > 0 {
		return left
	}
	return 0
}

// EventStatus is an event as shown on the public registration page.
type EventStatus struct {
	*Event
	VerifiedCount int  `json:"verified_count"`
	SlotsLeft     int  `json:"slots_left"`
	IsFull        bool `json:"is_full"`
	IsClosed      bool `json:"is_closed"`
}

func NewEventStatus(e *Event, verified int, now time.Time) *EventStatus {
	return &EventStatus{
		Event:         e,
		VerifiedCount: verified,
		SlotsLeft:     e.SlotsLeft(verified),
		IsFull:        e.IsFull(verified),
		IsClosed:      e.IsClosed(now),
	}
}
