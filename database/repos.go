package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-site-backend/events"
	"github.com/rpupo63/portfolio-site-backend/metrics"
	"github.com/rpupo63/portfolio-site-backend/models"
)

func observeSince(op, table string, start time.Time) {
	metrics.RecordDBQueryDuration(op, table, time.Since(start))
}

// SkillRepo stores skills, listed by sort order unless asked otherwise.
type SkillRepo struct {
	crud[models.Skill, *models.Skill]
}

// NewSkillRepo returns a SkillRepo over the shared connection.
func NewSkillRepo(s shared) *SkillRepo {
	return &SkillRepo{crud[models.Skill, *models.Skill]{
		shared: s, entity: events.Skill, label: "skill", orders: []OrderKey{OrderSort, OrderCreated},
	}}
}

func (r *SkillRepo) List(ctx context.Context, order OrderKey) ([]models.Skill, error) {
	return r.list(ctx, order)
}

func (r *SkillRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Skill, error) {
	return r.findByID(ctx, id)
}

func (r *SkillRepo) Create(ctx context.Context, skill *models.Skill) error {
	return r.create(ctx, skill)
}

func (r *SkillRepo) Update(ctx context.Context, id uuid.UUID, skill *models.Skill) error {
	return r.update(ctx, id, skill)
}

func (r *SkillRepo) Delete(ctx context.Context, id uuid.UUID) error { return r.delete(ctx, id) }

func (r *SkillRepo) Count(ctx context.Context) (int64, error) { return r.count(ctx) }

// ExperienceRepo stores education, work and award entries.
type ExperienceRepo struct {
	crud[models.Experience, *models.Experience]
}

// NewExperienceRepo returns an ExperienceRepo over the shared connection.
func NewExperienceRepo(s shared) *ExperienceRepo {
	return &ExperienceRepo{crud[models.Experience, *models.Experience]{
		shared: s, entity: events.Experience, label: "experience", orders: []OrderKey{OrderSort, OrderCreated},
	}}
}

func (r *ExperienceRepo) List(ctx context.Context, order OrderKey) ([]models.Experience, error) {
	return r.list(ctx, order)
}

func (r *ExperienceRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Experience, error) {
	return r.findByID(ctx, id)
}

func (r *ExperienceRepo) Create(ctx context.Context, experience *models.Experience) error {
	return r.create(ctx, experience)
}

func (r *ExperienceRepo) Update(ctx context.Context, id uuid.UUID, experience *models.Experience) error {
	return r.update(ctx, id, experience)
}

func (r *ExperienceRepo) Delete(ctx context.Context, id uuid.UUID) error { return r.delete(ctx, id) }

func (r *ExperienceRepo) Count(ctx context.Context) (int64, error) { return r.count(ctx) }

// CertificateRepo stores certificates, newest first.
type CertificateRepo struct {
	crud[models.Certificate, *models.Certificate]
}

// NewCertificateRepo returns a CertificateRepo over the shared connection.
func NewCertificateRepo(s shared) *CertificateRepo {
	return &CertificateRepo{crud[models.Certificate, *models.Certificate]{
		shared: s, entity: events.Certificate, label: "certificate", orders: []OrderKey{OrderCreated},
	}}
}

func (r *CertificateRepo) List(ctx context.Context, order OrderKey) ([]models.Certificate, error) {
	return r.list(ctx, order)
}

func (r *CertificateRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Certificate, error) {
	return r.findByID(ctx, id)
}

func (r *CertificateRepo) Create(ctx context.Context, certificate *models.Certificate) error {
	return r.create(ctx, certificate)
}

func (r *CertificateRepo) Update(ctx context.Context, id uuid.UUID, certificate *models.Certificate) error {
	return r.update(ctx, id, certificate)
}

func (r *CertificateRepo) Delete(ctx context.Context, id uuid.UUID) error { return r.delete(ctx, id) }

func (r *CertificateRepo) Count(ctx context.Context) (int64, error) { return r.count(ctx) }

// ContactMethodRepo stores the links shown in the contact section.
type ContactMethodRepo struct {
	crud[models.ContactMethod, *models.ContactMethod]
}

// NewContactMethodRepo returns a ContactMethodRepo over the shared connection.
func NewContactMethodRepo(s shared) *ContactMethodRepo {
	return &ContactMethodRepo{crud[models.ContactMethod, *models.ContactMethod]{
		shared: s, entity: events.ContactMethod, label: "contact method", orders: []OrderKey{OrderSort, OrderCreated},
	}}
}

func (r *ContactMethodRepo) List(ctx context.Context, order OrderKey) ([]models.ContactMethod, error) {
	return r.list(ctx, order)
}

func (r *ContactMethodRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.ContactMethod, error) {
	return r.findByID(ctx, id)
}

// Create stores the method with its URL normalized for the platform.
func (r *ContactMethodRepo) Create(ctx context.Context, method *models.ContactMethod) error {
	return r.create(ctx, method)
}

func (r *ContactMethodRepo) Update(ctx context.Context, id uuid.UUID, method *models.ContactMethod) error {
	return r.update(ctx, id, method)
}

func (r *ContactMethodRepo) Delete(ctx context.Context, id uuid.UUID) error { return r.delete(ctx, id) }

// MessageRepo stores contact form submissions. Messages are never edited.
type MessageRepo struct {
	crud[models.Message, *models.Message]
}

// NewMessageRepo returns a MessageRepo over the shared connection.
func NewMessageRepo(s shared) *MessageRepo {
	return &MessageRepo{crud[models.Message, *models.Message]{
		shared: s, entity: events.Message, label: "message", orders: []OrderKey{OrderCreated},
	}}
}

func (r *MessageRepo) List(ctx context.Context, order OrderKey) ([]models.Message, error) {
	return r.list(ctx, order)
}

func (r *MessageRepo) Create(ctx context.Context, message *models.Message) error {
	return r.create(ctx, message)
}

func (r *MessageRepo) Delete(ctx context.Context, id uuid.UUID) error { return r.delete(ctx, id) }

func (r *MessageRepo) Count(ctx context.Context) (int64, error) { return r.count(ctx) }
