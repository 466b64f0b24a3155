package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const CertificateDateLayout = "2006-01-02"

type Certificate struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;not null"`
	Name      string    `json:"name" gorm:"type:text;not null"`
	Issuer    string    `json:"issuer" gorm:"type:text;not null"`
	Date      *string   `json:"date" gorm:"type:text"`
	ProofURL  *string   `json:"proof_url" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index"`
}

func (c *Certificate) Key() uuid.UUID { return c.ID }
func (c *Certificate) SetKey(id uuid.UUID) { c.ID = id }

func (c *Certificate) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

func (c *Certificate) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Issuer = strings.TrimSpace(c.Issuer)
	c.Date = NullIfEmpty(c.Date)
	c.ProofURL = NullIfEmpty(c.ProofURL)
}

func (c *Certificate) Validate() FieldErrors {
	fe := FieldErrors{}
	fe.required("name", c.Name)
	fe.required("issuer", c.Issuer)
	if c.Date != nil {
		if _, err := time.Parse(CertificateDateLayout, *c.Date); err != nil {
			fe["date"] = "must be a date formatted YYYY-MM-DD"
		}
	}
	fe.optionalAssetURL("proof_url", c.ProofURL)
	return fe
}
