// Package forms runs admin and contact form submissions: validate, upload
// attachments, write, then report exactly one notice.
package forms

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-site-backend/errs"
	"github.com/rpupo63/portfolio-site-backend/metrics"
	"github.com/rpupo63/portfolio-site-backend/models"
	"github.com/rpupo63/portfolio-site-backend/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	// ErrInFlight is returned without a notice when a submission for the same
	// form is already running.
	ErrInFlight = errors.New("submission already in progress")
	ErrClosed   = errors.New("form is closed")
)

type Mode int

const (
	Create Mode = iota
	Edit
)

func (m Mode) String() string {
	if m == Edit {
		return "edit"
	}
	return "create"
}

// Attachment is a file chosen in a form field.
type Attachment struct {
	Field       string
	Index       int
	Bucket      storage.Bucket
	Key         string // generated from Field when empty
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Spec configures a Controller for one entity type.
type Spec[T any] struct {
	// Entity is the singular label used in notices, e.g. "skill".
	Entity    string
	Normalize func(*T)
	Validate  func(*T) models.FieldErrors
	// Accept maps an attachment field to its allowed content type prefixes.
	Accept map[string][]string
	// Attach stores an uploaded file's public URL on the draft.
	Attach func(draft *T, a Attachment, url string)
	Create func(ctx context.Context, draft *T) error
	Update func(ctx context.Context, id uuid.UUID, draft *T) error
}

// Controller holds one form's draft and submits it.
type Controller[T any] struct {
	spec     Spec[T]
	mode     Mode
	id       uuid.UUID
	store    storage.Store
	notifier Notifier
	gate     *Gate
	gateKey  string
	timeout  time.Duration
	logger   zerolog.Logger

	mu       sync.Mutex
	draft    T
	inFlight bool
	closed   bool
}

type Option func(*options)

type options struct {
	gate    *Gate
	gateKey string
	timeout time.Duration
}

// WithGate shares the in-flight guard with other controllers under key.
func WithGate(g *Gate, key string) Option {
	return func(o *options) { o.gate, o.gateKey = g, key }
}

// WithTimeout bounds each attachment upload.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// NewCreate returns a controller with an empty draft.
func NewCreate[T any](spec Spec[T], store storage.Store, notifier Notifier, opts ...Option) *Controller[T] {
	var zero T
	return newController(spec, Create, uuid.Nil, zero, store, notifier, opts)
}

// NewEdit returns a controller whose draft starts as current.
func NewEdit[T any](spec Spec[T], id uuid.UUID, current T, store storage.Store, notifier Notifier, opts ...Option) *Controller[T] {
	return newController(spec, Edit, id, current, store, notifier, opts)
}

func newController[T any](spec Spec[T], mode Mode, id uuid.UUID, draft T, store storage.Store, notifier Notifier, opts []Option) *Controller[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if notifier == nil {
		notifier = NotifierFunc(func(Notice) {})
	}

	return &Controller[T]{
		spec:     spec,
		mode:     mode,
		id:       id,
		store:    store,
		notifier: notifier,
		gate:     o.gate,
		gateKey:  o.gateKey,
		timeout:  o.timeout,
		draft:    draft,
		logger: log.With().
			Str("form", spec.Entity).
			Str("mode", mode.String()).
			Logger(),
	}
}

func (c *Controller[T]) Mode() Mode { return c.mode }

func (c *Controller[T]) Draft() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// SetDraft replaces the draft with the admin's current input.
func (c *Controller[T]) SetDraft(draft T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = draft
}

func (c *Controller[T]) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Submit validates the draft, uploads attachments, and writes the result.
// Exactly one notice is emitted unless the call is rejected with ErrInFlight
// or ErrClosed. The draft is only changed on success.
func (c *Controller[T]) Submit(ctx context.Context, attachments ...Attachment) (T, error) {
	var zero T

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return zero, ErrClosed
	}
	if c.inFlight {
		c.mu.Unlock()
		return zero, ErrInFlight
	}
	c.inFlight = true
	work := c.draft
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.inFlight = false
		c.mu.Unlock()
	}()

	release, ok := c.gate.Acquire(c.gateKey)
	if !ok {
		return zero, ErrInFlight
	}
	defer release()

	if c.spec.Normalize != nil {
		c.spec.Normalize(&work)
	}
	if err := c.validate(&work, attachments); err != nil {
		c.fail(CategoryValidation, err)
		return zero, err
	}

	for _, a := range attachments {
		url, err := c.upload(ctx, a)
		if err != nil {
			c.fail(CategoryUpload, err)
			return zero, err
		}
		c.spec.Attach(&work, a, url)
	}

	var err error
	if c.mode == Edit {
		err = c.spec.Update(ctx, c.id, &work)
	} else {
		err = c.spec.Create(ctx, &work)
	}
	if err != nil {
		category := CategoryRemote
		if errs.IsValidationError(err) {
			category = CategoryValidation
		}
		c.fail(category, err)
		return zero, err
	}

	c.mu.Lock()
	if c.mode == Create {
		c.draft = zero
	} else {
		c.closed = true
	}
	c.mu.Unlock()

	verb := "created"
	if c.mode == Edit {
		verb = "updated"
	}
	metrics.RecordFormSubmission(c.spec.Entity, "success")
	c.notifier.Notify(SuccessNotice(fmt.Sprintf("%s %s", capitalize(c.spec.Entity), verb)))
	return work, nil
}

func (c *Controller[T]) validate(work *T, attachments []Attachment) error {
	fe := models.FieldErrors{}
	if c.spec.Validate != nil {
		if got := c.spec.Validate(work); got != nil {
			fe = got
		}
	}
	for _, a := range attachments {
		allowed, ok := c.spec.Accept[a.Field]
		if !ok {
			if c.spec.Accept != nil {
				fe[a.Field] = "does not accept files"
			}
			continue
		}
		if !hasAnyPrefix(strings.ToLower(a.ContentType), allowed) {
			fe[a.Field] = fmt.Sprintf("must be one of %s", strings.Join(allowed, ", "))
		}
	}
	return fe.Err()
}

func (c *Controller[T]) upload(ctx context.Context, a Attachment) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	key := a.Key
	if key == "" {
		key = storage.ObjectKey(a.Field, a.Filename, a.ContentType)
	}
	url, err := c.store.Put(ctx, storage.Object{
		Bucket:      a.Bucket,
		Key:         key,
		ContentType: a.ContentType,
		Size:        a.Size,
		Body:        a.Body,
	})
	if err != nil {
		if ctx.Err() != nil {
			err = errors.Join(err, ctx.Err())
		}
		return "", errs.NewUploadError(a.Field, err)
	}
	return url, nil
}

func (c *Controller[T]) fail(category Category, err error) {
	c.logger.Warn().Err(err).Str("category", string(category)).Msg("submission failed")
	metrics.RecordFormSubmission(c.spec.Entity, string(category))
	c.notifier.Notify(FailureNotice(category, err))
}

// Remove runs an admin delete under gate and reports one notice.
func Remove(ctx context.Context, gate *Gate, key, entity string, notifier Notifier, del func(context.Context) error) error {
	release, ok := gate.Acquire(key)
	if !ok {
		return ErrInFlight
	}
	defer release()

	if err := del(ctx); err != nil {
		log.Warn().Err(err).Str("form", entity).Msg("delete failed")
		metrics.RecordFormSubmission(entity, string(CategoryRemote))
		notifier.Notify(FailureNotice(CategoryRemote, err))
		return err
	}
	metrics.RecordFormSubmission(entity, "success")
	notifier.Notify(SuccessNotice(capitalize(entity) + " deleted"))
	return nil
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
