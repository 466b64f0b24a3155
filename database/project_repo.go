package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-site-backend/cache"
	"github.com/rpupo63/portfolio-site-backend/errs"
	"github.com/rpupo63/portfolio-site-backend/events"
	"github.com/rpupo63/portfolio-site-backend/models"
	"gorm.io/gorm"
)

// ProjectRepo stores projects; reads preload their media in carousel order.
type ProjectRepo struct {
	crud[models.Project, *models.Project]
}

// NewProjectRepo returns a ProjectRepo over the shared connection.
func NewProjectRepo(s shared) *ProjectRepo {
	return &ProjectRepo{crud[models.Project, *models.Project]{
		shared: s,
		entity: events.Project,
		label:  "project",
		orders: []OrderKey{OrderCreated},
		scope: func(db *gorm.DB) *gorm.DB {
			return db.Preload("Media", func(db *gorm.DB) *gorm.DB {
				return db.Order(OrderSort.clause())
			})
		},
	}}
}

// List returns projects with their media, newest first unless order says otherwise.
func (r *ProjectRepo) List(ctx context.Context, order OrderKey) ([]models.Project, error) {
	return r.list(ctx, order)
}

func (r *ProjectRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return r.findByID(ctx, id)
}

func (r *ProjectRepo) Create(ctx context.Context, project *models.Project) error {
	return r.create(ctx, project)
}

func (r *ProjectRepo) Update(ctx context.Context, id uuid.UUID, project *models.Project) error {
	return r.update(ctx, id, project)
}

// Delete removes the project and its media in one transaction.
func (r *ProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	defer r.observe("delete", time.Now())

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectMedia{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Project{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.NewNotFound("project")
		}
		return nil
	})
	if err != nil {
		return errs.NewDatabaseError("delete", "project", err)
	}

	r.publish(events.ProjectMedia, events.Deleted, id)
	r.publish(events.Project, events.Deleted, id)
	return nil
}

func (r *ProjectRepo) Count(ctx context.Context) (int64, error) {
	return r.count(ctx)
}

// ProjectMediaRepo stores the images and videos attached to projects.
type ProjectMediaRepo struct {
	crud[models.ProjectMedia, *models.ProjectMedia]
}

// NewProjectMediaRepo returns a ProjectMediaRepo over the shared connection.
func NewProjectMediaRepo(s shared) *ProjectMediaRepo {
	return &ProjectMediaRepo{crud[models.ProjectMedia, *models.ProjectMedia]{
		shared: s,
		entity: events.ProjectMedia,
		label:  "project media",
		orders: []OrderKey{OrderSort, OrderCreated},
	}}
}

func (r *ProjectMediaRepo) List(ctx context.Context, order OrderKey) ([]models.ProjectMedia, error) {
	return r.list(ctx, order)
}

// ListForProject returns one project's carousel in display order.
func (r *ProjectMediaRepo) ListForProject(ctx context.Context, projectID uuid.UUID) ([]models.ProjectMedia, error) {
	return cache.Load(ctx, r.cache, r.entity, "project:"+projectID.String(), func(ctx context.Context) ([]models.ProjectMedia, error) {
		ctx, cancel := r.withTimeout(ctx)
		defer cancel()
		defer r.observe("list", time.Now())

		media := []models.ProjectMedia{}
		err := r.db.WithContext(ctx).
			Where("project_id = ?", projectID).
			Order(OrderSort.clause()).
			Find(&media).Error
		if err != nil {
			return nil, errs.NewDatabaseError("list", "project media", err)
		}
		return media, nil
	})
}

func (r *ProjectMediaRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.ProjectMedia, error) {
	return r.findByID(ctx, id)
}

// Create attaches media to an existing project. The project's cached lists
// are invalidated too, since they embed media.
func (r *ProjectMediaRepo) Create(ctx context.Context, media *models.ProjectMedia) error {
	if err := prepare[models.ProjectMedia](media); err != nil {
		return err
	}
	if err := r.requireProject(ctx, media.ProjectID); err != nil {
		return err
	}
	if err := r.create(ctx, media); err != nil {
		return err
	}
	r.publish(events.Project, events.Updated, media.ProjectID)
	return nil
}

// CreateBatch stores every item of one upload in a single transaction, so
// either the whole batch is attached or none of it is.
func (r *ProjectMediaRepo) CreateBatch(ctx context.Context, projectID uuid.UUID, items []models.ProjectMedia) error {
	for i := range items {
		items[i].ID = uuid.Nil
		items[i].ProjectID = projectID
		if err := prepare[models.ProjectMedia](&items[i]); err != nil {
			return err
		}
	}
	if err := r.requireProject(ctx, projectID); err != nil {
		return err
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	defer r.observe("create", time.Now())

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range items {
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errs.NewDatabaseError("create", "project media", err)
	}

	r.publish(events.ProjectMedia, events.Created, projectID)
	r.publish(events.Project, events.Updated, projectID)
	return nil
}

// Update changes a media item's caption, kind, URL or position. The owning
// project cannot change.
func (r *ProjectMediaRepo) Update(ctx context.Context, id uuid.UUID, media *models.ProjectMedia) error {
	current, err := r.findByID(ctx, id)
	if err != nil {
		return err
	}
	media.ProjectID = current.ProjectID
	if err := r.update(ctx, id, media); err != nil {
		return err
	}
	r.publish(events.Project, events.Updated, media.ProjectID)
	return nil
}

func (r *ProjectMediaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	media, err := r.findByID(ctx, id)
	if err != nil {
		return err
	}
	if err := r.delete(ctx, id); err != nil {
		return err
	}
	r.publish(events.Project, events.Updated, media.ProjectID)
	return nil
}

func (r *ProjectMediaRepo) requireProject(ctx context.Context, projectID uuid.UUID) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Project{}).Where("id = ?", projectID).Count(&n).Error; err != nil {
		return errs.NewDatabaseError("find", "project", err)
	}
	if n == 0 {
		return errs.NewNotFound("project")
	}
	return nil
}
