package models

import (
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MinMessageNameLength    = 2
	MinMessageContentLength = 10
	MaxMessageContentLength = 1000
)

// Message is a contact form submission. Rows are never updated.
type Message struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;not null"`
	Name      string    `json:"name" gorm:"type:text;not null"`
	Email     string    `json:"email" gorm:"type:text;not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index"`
}

func (m *Message) Key() uuid.UUID { return m.ID }
func (m *Message) SetKey(id uuid.UUID) { m.ID = id }

func (m *Message) BeforeCreate(*gorm.DB) error {
	ensureID(&m.ID)
	return nil
}

func (m *Message) Normalize() {
	m.Name = strings.TrimSpace(m.Name)
	m.Email = strings.TrimSpace(m.Email)
	m.Content = strings.TrimSpace(m.Content)
}

func (m *Message) Validate() FieldErrors {
	fe := FieldErrors{}
	if utf8.RuneCountInString(m.Name) < MinMessageNameLength {
		fe["name"] = "must be at least 2 characters"
	}
	if addr, err := mail.ParseAddress(m.Email); err != nil || addr.Address != m.Email {
		fe["email"] = "must be a valid email address"
	}
	switch n := utf8.RuneCountInString(m.Content); {
	case n < MinMessageContentLength:
		fe["content"] = "must be at least 10 characters"
	case n > MaxMessageContentLength:
		fe["content"] = "must be at most 1000 characters"
	}
	return fe
}
