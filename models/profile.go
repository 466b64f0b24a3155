package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile is the site owner's hero card. Only the first row is ever read.
type Profile struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;not null"`
	Name      string    `json:"name" gorm:"type:text;not null;default:''"`
	Headline  string    `json:"headline" gorm:"type:text;not null;default:''"`
	Bio       string    `json:"bio" gorm:"type:text;not null;default:''"`
	AvatarURL *string   `json:"avatar_url" gorm:"type:text"`
	ResumeURL *string   `json:"resume_url" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Profile) TableName() string { return "profile" }

func (p *Profile) Key() uuid.UUID { return p.ID }
func (p *Profile) SetKey(id uuid.UUID) { p.ID = id }

func (p *Profile) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

func (p *Profile) Normalize() {
	p.AvatarURL = NullIfEmpty(p.AvatarURL)
	p.ResumeURL = NullIfEmpty(p.ResumeURL)
}

func (p *Profile) Validate() FieldErrors {
	fe := FieldErrors{}
	fe.required("name", p.Name)
	fe.optionalAssetURL("avatar_url", p.AvatarURL)
	fe.optionalAssetURL("resume_url", p.ResumeURL)
	return fe
}
