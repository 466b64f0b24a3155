package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MinProficiency = 0
	MaxProficiency = 100
)

type Skill struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;not null"`
	Category    string    `json:"category" gorm:"type:text;not null"`
	Name        string    `json:"name" gorm:"type:text;not null"`
	Proficiency int       `json:"proficiency" gorm:"not null;default:50"`
	SortOrder   int       `json:"sort_order" gorm:"not null;default:0"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (s *Skill) Key() uuid.UUID { return s.ID }
func (s *Skill) SetKey(id uuid.UUID) { s.ID = id }

func (s *Skill) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

func (s *Skill) Normalize() {
	s.Category = strings.TrimSpace(s.Category)
	s.Name = strings.TrimSpace(s.Name)
}

// Validate rejects out of range proficiency instead of clamping it; a value the
// admin did not type must never be stored.
func (s *Skill) Validate() FieldErrors {
	fe := FieldErrors{}
	fe.required("category", s.Category)
	fe.required("name", s.Name)
	if s.Proficiency < MinProficiency || s.Proficiency > MaxProficiency {
		fe["proficiency"] = "must be between 0 and 100"
	}
	fe.nonNegative("sort_order", s.SortOrder)
	return fe
}

// ClampProficiency bounds a stored value for rendering.
func ClampProficiency(p int) int {
	return min(max(p, MinProficiency), MaxProficiency)
}
