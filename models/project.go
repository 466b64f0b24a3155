package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Project represents a portfolio project card
type Project struct {
	ID          uuid.UUID                   `json:"id" gorm:"type:uuid;primaryKey;not null"`
	Title       string                      `json:"title" gorm:"type:text;not null"`
	Description string                      `json:"description" gorm:"type:text;not null;default:''"`
	Tags        datatypes.JSONSlice[string] `json:"tags"`
	LiveURL     *string                     `json:"live_url" gorm:"type:text"`
	GithubURL   *string                     `json:"github_url" gorm:"type:text"`
	Featured    bool                        `json:"featured" gorm:"not null;default:false"`
	CreatedAt   time.Time                   `json:"created_at" gorm:"autoCreateTime;index"`
	Media       []ProjectMedia              `json:"media,omitempty" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
}

func (p *Project) Key() uuid.UUID { return p.ID }
func (p *Project) SetKey(id uuid.UUID) { p.ID = id }

func (p *Project) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

// Normalize trims tags, drops empty ones and turns blank links into NULL.
func (p *Project) Normalize() {
	p.Title = strings.TrimSpace(p.Title)
	tags := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	p.Tags = tags
	p.LiveURL = NullIfEmpty(p.LiveURL)
	p.GithubURL = NullIfEmpty(p.GithubURL)
}

func (p *Project) Validate() FieldErrors {
	fe := FieldErrors{}
	fe.required("title", p.Title)
	fe.optionalURL("live_url", p.LiveURL)
	fe.optionalURL("github_url", p.GithubURL)
	return fe
}

// SplitTags parses the admin form's comma separated tag input.
func SplitTags(raw string) []string {
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// MediaKindFor derives the media kind from an upload's content type.
func MediaKindFor(contentType string) MediaKind {
	if strings.HasPrefix(strings.ToLower(contentType), "video") {
		return MediaVideo
	}
	return MediaImage
}

// ProjectMedia is one carousel entry of a project. SortOrder defines display
// sequence and is not unique.
type ProjectMedia struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;not null"`
	ProjectID uuid.UUID `json:"project_id" gorm:"type:uuid;not null;index:idx_project_media_project_id"`
	URL       string    `json:"url" gorm:"type:text;not null"`
	Type      MediaKind `json:"type" gorm:"type:text;not null;default:'image'"`
	Caption   *string   `json:"caption" gorm:"type:text"`
	SortOrder int       `json:"sort_order" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (ProjectMedia) TableName() string { return "project_media" }

func (m *ProjectMedia) Key() uuid.UUID { return m.ID }
func (m *ProjectMedia) SetKey(id uuid.UUID) { m.ID = id }

func (m *ProjectMedia) BeforeCreate(*gorm.DB) error {
	ensureID(&m.ID)
	return nil
}

func (m *ProjectMedia) Normalize() {
	m.Caption = NullIfEmpty(m.Caption)
	if m.Type == "" {
		m.Type = MediaImage
	}
}

func (m *ProjectMedia) Validate() FieldErrors {
	fe := FieldErrors{}
	if m.ProjectID == uuid.Nil {
		fe["project_id"] = "is required"
	}
	fe.required("url", m.URL)
	if m.URL != "" {
		fe.optionalAssetURL("url", &m.URL)
	}
	if m.Type != MediaImage && m.Type != MediaVideo {
		fe["type"] = "must be image or video"
	}
	fe.nonNegative("sort_order", m.SortOrder)
	return fe
}
