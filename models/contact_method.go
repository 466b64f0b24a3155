package models

import (
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-site-backend/contact"
	"gorm.io/gorm"
)

type ContactMethod struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;not null"`
	Platform  string    `json:"platform" gorm:"type:text;not null"`
	URL       string    `json:"url" gorm:"type:text;not null"`
	Icon      *string   `json:"icon" gorm:"type:text"`
	SortOrder int       `json:"sort_order" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (c *ContactMethod) Key() uuid.UUID { return c.ID }
func (c *ContactMethod) SetKey(id uuid.UUID) { c.ID = id }

func (c *ContactMethod) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

// Normalize scheme-qualifies the URL for the platform, so stored values are
// always directly usable as links.
func (c *ContactMethod) Normalize() {
	c.Platform = strings.TrimSpace(c.Platform)
	c.URL = contact.NormalizeURL(c.URL, c.Platform)
	c.Icon = NullIfEmpty(c.Icon)
}

func (c *ContactMethod) Validate() FieldErrors {
	fe := FieldErrors{}
	fe.required("platform", c.Platform)
	fe.required("url", c.URL)
	if _, ok := fe["url"]; !ok {
		u, err := url.Parse(c.URL)
		switch {
		case err != nil || u.Scheme == "":
			fe["url"] = "must be a valid link"
		case (u.Scheme == "http" || u.Scheme == "https") && u.Host == "":
			fe["url"] = "must include a host"
		case (u.Scheme == "mailto" || u.Scheme == "tel") && u.Opaque == "":
			fe["url"] = "must include a value after the scheme"
		}
	}
	fe.nonNegative("sort_order", c.SortOrder)
	return fe
}
