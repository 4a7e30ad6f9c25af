package models

import "time"

// Person is a core-team member or a mentor.
type Person struct {
	ID       string `bson:"_id,omitempty" json:"id"`
	Name     string `bson:"name" json:"name" validate:"required"`
	Role     string `bson:"role" json:"role" validate:"required"`
	LinkedIn string `bson:"linkedin,omitempty" json:"linkedin,omitempty" validate:"omitempty,url"`
	ImageURL string `bson:"image_url,omitempty" json:"image_url,omitempty"`
}

type ContactSubmission struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Name        string    `bson:"name" json:"name" validate:"required"`
	Email       string    `bson:"email" json:"email" validate:"required,email"`
	Message     string    `bson:"message" json:"message" validate:"required,max=5000"`
	SubmittedAt time.Time `bson:"submitted_at" json:"submitted_at"`
}

// Email is one outgoing HTML message.
type Email struct {
	To      string `json:"to" validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
	HTML    string `json:"html" validate:"required"`
}
