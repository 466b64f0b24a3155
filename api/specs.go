package api

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-site-backend/database"
	"github.com/rpupo63/portfolio-site-backend/forms"
	"github.com/rpupo63/portfolio-site-backend/models"
	"github.com/rpupo63/portfolio-site-backend/storage"
)

var (
	imageTypes    = []string{"image/"}
	documentTypes = []string{"application/pdf", "image/"}
	mediaTypes    = []string{"image/", "video/"}
)

func profileSpec(repo *database.ProfileRepo) forms.Spec[models.Profile] {
	return forms.Spec[models.Profile]{
		Entity:    "profile",
		Normalize: (*models.Profile).Normalize,
		Validate:  (*models.Profile).Validate,
		Accept:    map[string][]string{"avatar": imageTypes, "resume": documentTypes},
		Attach: func(p *models.Profile, a forms.Attachment, url string) {
			switch a.Field {
			case "avatar":
				p.AvatarURL = &url
			case "resume":
				p.ResumeURL = &url
			}
		},
		Update: func(ctx context.Context, _ uuid.UUID, p *models.Profile) error {
			return repo.Save(ctx, p)
		},
	}
}

var profileFiles = map[string]storage.Bucket{"avatar": storage.Avatars, "resume": storage.CVDocs}

func projectSpec(repo *database.ProjectRepo) forms.Spec[models.Project] {
	return forms.Spec[models.Project]{
		Entity:    "project",
		Normalize: (*models.Project).Normalize,
		Validate:  (*models.Project).Validate,
		Create:    repo.Create,
		Update:    repo.Update,
	}
}

func skillSpec(repo *database.SkillRepo) forms.Spec[models.Skill] {
	return forms.Spec[models.Skill]{
		Entity:    "skill",
		Normalize: (*models.Skill).Normalize,
		Validate:  (*models.Skill).Validate,
		Create:    repo.Create,
		Update:    repo.Update,
	}
}

func experienceSpec(repo *database.ExperienceRepo) forms.Spec[models.Experience] {
	return forms.Spec[models.Experience]{
		Entity:    "experience",
		Normalize: (*models.Experience).Normalize,
		Validate:  (*models.Experience).Validate,
		Create:    repo.Create,
		Update:    repo.Update,
	}
}

// certificateSpec stores an uploaded proof file's URL; without a file the
// typed proof_url, if any, is kept.
func certificateSpec(repo *database.CertificateRepo) forms.Spec[models.Certificate] {
	return forms.Spec[models.Certificate]{
		Entity:    "certificate",
		Normalize: (*models.Certificate).Normalize,
		Validate:  (*models.Certificate).Validate,
		Accept:    map[string][]string{"proof": documentTypes},
		Attach: func(c *models.Certificate, _ forms.Attachment, url string) {
			c.ProofURL = &url
		},
		Create: repo.Create,
		Update: repo.Update,
	}
}

var certificateFiles = map[string]storage.Bucket{"proof": storage.CertProofs}

func contactMethodSpec(repo *database.ContactMethodRepo) forms.Spec[models.ContactMethod] {
	return forms.Spec[models.ContactMethod]{
		Entity:    "contact method",
		Normalize: (*models.ContactMethod).Normalize,
		Validate:  (*models.ContactMethod).Validate,
		Create:    repo.Create,
		Update:    repo.Update,
	}
}

func messageSpec(repo *database.MessageRepo) forms.Spec[models.Message] {
	return forms.Spec[models.Message]{
		Entity:    "message",
		Normalize: (*models.Message).Normalize,
		Validate:  (*models.Message).Validate,
		Create:    repo.Create,
	}
}

// mediaBatch is one multipart upload of project media files.
type mediaBatch struct {
	ProjectID uuid.UUID             `json:"-"`
	Caption   string                `json:"caption"`
	Files     int                   `json:"-"`
	StartAt   int                   `json:"-"`
	Items     []models.ProjectMedia `json:"-"`
}

func mediaSpec(repo *database.ProjectMediaRepo) forms.Spec[mediaBatch] {
	return forms.Spec[mediaBatch]{
		Entity: "project media",
		Validate: func(b *mediaBatch) models.FieldErrors {
			fe := models.FieldErrors{}
			if b.Files == 0 {
				fe["media"] = "at least one file is required"
			}
			return fe
		},
		Accept: map[string][]string{"media": mediaTypes},
		Attach: func(b *mediaBatch, a forms.Attachment, url string) {
			item := models.ProjectMedia{
				ProjectID: b.ProjectID,
				URL:       url,
				Type:      models.MediaKindFor(a.ContentType),
				SortOrder: b.StartAt + a.Index,
			}
			if b.Caption != "" {
				caption := b.Caption
				item.Caption = &caption
			}
			b.Items = append(b.Items, item)
		},
		Create: func(ctx context.Context, b *mediaBatch) error {
			return repo.CreateBatch(ctx, b.ProjectID, b.Items)
		},
	}
}

// mediaPatch edits one carousel item; omitted fields keep their value.
type mediaPatch struct {
	Caption   *string `json:"caption"`
	SortOrder *int    `json:"sort_order"`
}

func (p mediaPatch) apply(m *models.ProjectMedia) {
	if p.Caption != nil {
		m.Caption = p.Caption
	}
	if p.SortOrder != nil {
		m.SortOrder = *p.SortOrder
	}
}

func mediaItemSpec(repo *database.ProjectMediaRepo) forms.Spec[models.ProjectMedia] {
	return forms.Spec[models.ProjectMedia]{
		Entity:    "project media",
		Normalize: (*models.ProjectMedia).Normalize,
		Validate:  (*models.ProjectMedia).Validate,
		Update:    repo.Update,
	}
}
