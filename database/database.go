package database

import (
	"context"
	"time"

	"github.com/rpupo63/portfolio-site-backend/cache"
	"github.com/rpupo63/portfolio-site-backend/errs"
	"github.com/rpupo63/portfolio-site-backend/events"
	"github.com/rpupo63/portfolio-site-backend/models"
	"gorm.io/gorm"
)

type Database struct {
	db                *gorm.DB
	profileRepo       *ProfileRepo
	projectRepo       *ProjectRepo
	projectMediaRepo  *ProjectMediaRepo
	skillRepo         *SkillRepo
	experienceRepo    *ExperienceRepo
	certificateRepo   *CertificateRepo
	contactMethodRepo *ContactMethodRepo
	messageRepo       *MessageRepo
}

type Option func(*shared)

// WithCache serves List calls through c.
func WithCache(c *cache.Cache) Option {
	return func(s *shared) { s.cache = c }
}

// WithEvents publishes every committed write to bus.
func WithEvents(bus *events.Bus) Option {
	return func(s *shared) { s.bus = bus }
}

// WithTimeout bounds every repository call.
func WithTimeout(d time.Duration) Option {
	return func(s *shared) { s.timeout = d }
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB, opts ...Option) Database {
	s := shared{db: db}
	for _, opt := range opts {
		opt(&s)
	}

	return Database{
		db:                db,
		profileRepo:       NewProfileRepo(s),
		projectRepo:       NewProjectRepo(s),
		projectMediaRepo:  NewProjectMediaRepo(s),
		skillRepo:         NewSkillRepo(s),
		experienceRepo:    NewExperienceRepo(s),
		certificateRepo:   NewCertificateRepo(s),
		contactMethodRepo: NewContactMethodRepo(s),
		messageRepo:       NewMessageRepo(s),
	}
}

// Accessor methods for each repository

func (d Database) ProfileRepo() *ProfileRepo { return d.profileRepo }
func (d Database) ProjectRepo() *ProjectRepo { return d.projectRepo }
func (d Database) ProjectMediaRepo() *ProjectMediaRepo { return d.projectMediaRepo }
func (d Database) SkillRepo() *SkillRepo { return d.skillRepo }
func (d Database) ExperienceRepo() *ExperienceRepo { return d.experienceRepo }
func (d Database) CertificateRepo() *CertificateRepo { return d.certificateRepo }
func (d Database) ContactMethodRepo() *ContactMethodRepo { return d.contactMethodRepo }
func (d Database) MessageRepo() *MessageRepo { return d.messageRepo }

func (d Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Migrate creates or updates every table.
func (d Database) Migrate() error {
	err := d.db.AutoMigrate(
		&models.Profile{},
		&models.Project{},
		&models.ProjectMedia{},
		&models.Skill{},
		&models.Experience{},
		&models.Certificate{},
		&models.ContactMethod{},
		&models.Message{},
	)
	if err != nil {
		return errs.NewDatabaseError("migrate", "database", err)
	}
	return nil
}

// Counts backs the admin dashboard.
type Counts struct {
	Projects     int64 `json:"projects"`
	Skills       int64 `json:"skills"`
	Experience   int64 `json:"experience"`
	Certificates int64 `json:"certificates"`
	Messages     int64 `json:"messages"`
}

func (d Database) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	var err error
	if c.Projects, err = d.projectRepo.Count(ctx); err != nil {
		return c, err
	}
	if c.Skills, err = d.skillRepo.Count(ctx); err != nil {
		return c, err
	}
	if c.Experience, err = d.experienceRepo.Count(ctx); err != nil {
		return c, err
	}
	if c.Certificates, err = d.certificateRepo.Count(ctx); err != nil {
		return c, err
	}
	if c.Messages, err = d.messageRepo.Count(ctx); err != nil {
		return c, err
	}
	return c, nil
}
