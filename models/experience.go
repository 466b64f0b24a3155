package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExperienceType string

const (
	ExperienceEducation ExperienceType = "education"
	ExperienceWork      ExperienceType = "work"
	ExperienceAward     ExperienceType = "award"
)

// ExperienceTypes lists the allowed types in display order.
var ExperienceTypes = []ExperienceType{ExperienceEducation, ExperienceWork, ExperienceAward}

func (t ExperienceType) Valid() bool {
	switch t {
	case ExperienceEducation, ExperienceWork, ExperienceAward:
		return true
	}
	return false
}

type Experience struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;not null"`
	Title        string         `json:"title" gorm:"type:text;not null"`
	Organization string         `json:"organization" gorm:"type:text;not null"`
	Type         ExperienceType `json:"type" gorm:"type:text;not null;default:'education'"`
	DateRange    string         `json:"date_range" gorm:"type:text;not null"`
	Description  *string        `json:"description" gorm:"type:text"`
	SortOrder    int            `json:"sort_order" gorm:"not null;default:0"`
	CreatedAt    time.Time      `json:"created_at" gorm:"autoCreateTime"`
}

func (Experience) TableName() string { return "experience" }

func (e *Experience) Key() uuid.UUID { return e.ID }
func (e *Experience) SetKey(id uuid.UUID) { e.ID = id }

func (e *Experience) BeforeCreate(*gorm.DB) error {
	ensureID(&e.ID)
	return nil
}

func (e *Experience) Normalize() {
	e.Title = strings.TrimSpace(e.Title)
	e.Organization = strings.TrimSpace(e.Organization)
	e.DateRange = strings.TrimSpace(e.DateRange)
	e.Type = ExperienceType(strings.ToLower(strings.TrimSpace(string(e.Type))))
	e.Description = NullIfEmpty(e.Description)
}

func (e *Experience) Validate() FieldErrors {
	fe := FieldErrors{}
	fe.required("title", e.Title)
	fe.required("organization", e.Organization)
	fe.required("date_range", e.DateRange)
	if !e.Type.Valid() {
		fe["type"] = "must be one of education, work, award"
	}
	fe.nonNegative("sort_order", e.SortOrder)
	return fe
}
