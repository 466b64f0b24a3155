package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-site-backend/cache"
	"github.com/rpupo63/portfolio-site-backend/errs"
	"github.com/rpupo63/portfolio-site-backend/events"
	"github.com/rpupo63/portfolio-site-backend/metrics"
	"github.com/rpupo63/portfolio-site-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderKey selects a list ordering.
type OrderKey string

const (
	// OrderCreated lists newest first.
	OrderCreated OrderKey = "created"
	// OrderSort lists by sort_order, ties broken by insertion time.
	OrderSort OrderKey = "sort"
)

func (o OrderKey) clause() string {
	if o == OrderSort {
		return "sort_order ASC, created_at ASC"
	}
	return "created_at DESC"
}

// ParseOrderKey maps a query parameter to an OrderKey; "" yields def.
func ParseOrderKey(raw string, def OrderKey) (OrderKey, error) {
	switch OrderKey(raw) {
	case "":
		return def, nil
	case OrderCreated, OrderSort:
		return OrderKey(raw), nil
	}
	return "", errs.NewInvalidFieldError("order", fmt.Sprintf("unknown order %q, expected created or sort", raw))
}

// row is implemented by every model pointer a repository stores.
type row[T any] interface {
	*T
	models.Keyed
	Normalize()
	Validate() models.FieldErrors
}

// shared holds what every repository needs besides its table.
type shared struct {
	db      *gorm.DB
	cache   *cache.Cache
	bus     *events.Bus
	timeout time.Duration
}

func (s shared) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s shared) publish(entity events.Entity, op events.Op, id uuid.UUID) {
	s.bus.Publish(events.EntityChanged{Entity: entity, Op: op, ID: id})
}

// crud implements the list/find/create/update/delete contract for one table.
type crud[T any, PT row[T]] struct {
	shared
	entity events.Entity
	label  string
	orders []OrderKey // first is the default
	scope  func(*gorm.DB) *gorm.DB
}

func (c crud[T, PT]) defaultOrder() OrderKey { return c.orders[0] }

func (c crud[T, PT]) query(ctx context.Context) *gorm.DB {
	q := c.db.WithContext(ctx)
	if c.scope != nil {
		q = c.scope(q)
	}
	return q
}

func (c crud[T, PT]) observe(op string, start time.Time) {
	metrics.RecordDBQueryDuration(op, string(c.entity), time.Since(start))
}

func (c crud[T, PT]) list(ctx context.Context, order OrderKey) ([]T, error) {
	if order == "" {
		order = c.defaultOrder()
	}
	supported := false
	for _, o := range c.orders {
		supported = supported || o == order
	}
	if !supported {
		return nil, errs.NewInvalidFieldError("order", fmt.Sprintf("%s cannot be ordered by %s", c.entity, order))
	}

	return cache.Load(ctx, c.cache, c.entity, string(order), func(ctx context.Context) ([]T, error) {
		ctx, cancel := c.withTimeout(ctx)
		defer cancel()
		defer c.observe("list", time.Now())

		rows := []T{}
		if err := c.query(ctx).Order(order.clause()).Find(&rows).Error; err != nil {
			return nil, errs.NewDatabaseError("list", string(c.entity), err)
		}
		return rows, nil
	})
}

func (c crud[T, PT]) findByID(ctx context.Context, id uuid.UUID) (*T, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	defer c.observe("find", time.Now())

	var r T
	if err := c.query(ctx).Where("id = ?", id).First(&r).Error; err != nil {
		return nil, errs.NewDatabaseError("find", c.label, err)
	}
	return &r, nil
}

func (c crud[T, PT]) count(ctx context.Context) (int64, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	var n int64
	if err := c.db.WithContext(ctx).Model(new(T)).Count(&n).Error; err != nil {
		return 0, errs.NewDatabaseError("count", string(c.entity), err)
	}
	return n, nil
}

func prepare[T any, PT row[T]](r PT) error {
	r.Normalize()
	return r.Validate().Err()
}

// create inserts r under a fresh id; a client-supplied id is ignored.
func (c crud[T, PT]) create(ctx context.Context, r PT) error {
	r.SetKey(uuid.Nil)
	if err := prepare[T](r); err != nil {
		return err
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	defer c.observe("create", time.Now())

	if err := c.db.WithContext(ctx).Omit(clause.Associations).Create(r).Error; err != nil {
		return errs.NewDatabaseError("create", c.label, err)
	}
	c.publish(c.entity, events.Created, r.Key())
	return nil
}

// update overwrites every column except id and created_at.
func (c crud[T, PT]) update(ctx context.Context, id uuid.UUID, r PT) error {
	r.SetKey(id)
	if err := prepare[T](r); err != nil {
		return err
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	defer c.observe("update", time.Now())

	res := c.db.WithContext(ctx).
		Model(new(T)).
		Where("id = ?", id).
		Select("*").
		Omit("id", "created_at", clause.Associations).
		Updates(r)
	if res.Error != nil {
		return errs.NewDatabaseError("update", c.label, res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound(c.label)
	}
	c.publish(c.entity, events.Updated, id)
	return nil
}

func (c crud[T, PT]) delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	defer c.observe("delete", time.Now())

	res := c.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return errs.NewDatabaseError("delete", c.label, res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound(c.label)
	}
	c.publish(c.entity, events.Deleted, id)
	return nil
}
