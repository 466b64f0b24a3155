package database

import (
	"context"
	"errors"
	"time"

	"github.com/rpupo63/portfolio-site-backend/cache"
	"github.com/rpupo63/portfolio-site-backend/errs"
	"github.com/rpupo63/portfolio-site-backend/events"
	"github.com/rpupo63/portfolio-site-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileRepo manages the single profile row. Extra rows are ignored.
type ProfileRepo struct {
	shared
}

// NewProfileRepo returns a ProfileRepo over the shared connection.
func NewProfileRepo(s shared) *ProfileRepo {
	return &ProfileRepo{s}
}

// Get returns the first profile row or a not-found error.
func (r *ProfileRepo) Get(ctx context.Context) (*models.Profile, error) {
	p, err := cache.Load(ctx, r.cache, events.Profile, "first", func(ctx context.Context) (models.Profile, error) {
		ctx, cancel := r.withTimeout(ctx)
		defer cancel()

		var p models.Profile
		if err := r.db.WithContext(ctx).Order("created_at ASC").First(&p).Error; err != nil {
			return p, errs.NewDatabaseError("find", "profile", err)
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Save updates the first profile row, or inserts one when none exists.
func (r *ProfileRepo) Save(ctx context.Context, profile *models.Profile) error {
	if err := prepare[models.Profile](profile); err != nil {
		return err
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	start := time.Now()

	op := events.Updated
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Profile
		err := tx.Order("created_at ASC").First(&current).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			op = events.Created
			return tx.Create(profile).Error
		}
		if err != nil {
			return err
		}

		profile.ID = current.ID
		profile.CreatedAt = current.CreatedAt
		return tx.Model(&models.Profile{}).
			Where("id = ?", current.ID).
			Select("*").
			Omit("id", "created_at", clause.Associations).
			Updates(profile).Error
	})
	observeSince("save", "profile", start)
	if err != nil {
		return errs.NewDatabaseError("save", "profile", err)
	}

	r.publish(events.Profile, op, profile.ID)
	return nil
}
