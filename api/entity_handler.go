package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-site-backend/database"
	"github.com/rpupo63/portfolio-site-backend/errs"
	"github.com/rpupo63/portfolio-site-backend/forms"
	"github.com/rpupo63/portfolio-site-backend/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// entityHandler serves the admin list/create/update/delete routes of one
// content type through a form controller.
type entityHandler[T any] struct {
	responder Responder
	logger    zerolog.Logger
	entity    string
	spec      forms.Spec[T]
	list      func(context.Context, database.OrderKey) ([]T, error)
	remove    func(context.Context, uuid.UUID) error
	files     map[string]storage.Bucket
	store     storage.Store
	gate      *forms.Gate
	timeout   time.Duration
}

func newEntityHandler[T any](
	spec forms.Spec[T],
	list func(context.Context, database.OrderKey) ([]T, error),
	remove func(context.Context, uuid.UUID) error,
	deps formDeps,
) entityHandler[T] {
	logger := log.With().Str("handlerName", spec.Entity+"Handler").Logger()
	return entityHandler[T]{
		responder: NewResponder(logger),
		logger:    logger,
		entity:    spec.Entity,
		spec:      spec,
		list:      list,
		remove:    remove,
		store:     deps.store,
		gate:      deps.gate,
		timeout:   deps.timeout,
	}
}

// withFiles accepts multipart uploads for the named fields.
func (h entityHandler[T]) withFiles(files map[string]storage.Bucket) entityHandler[T] {
	h.files = files
	return h
}

func (h entityHandler[T]) listAll() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, err := database.ParseOrderKey(r.URL.Query().Get("order"), "")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		rows, err := h.list(r.Context(), order)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, map[string]any{"data": rows, "total": len(rows)})
	}
}

func (h entityHandler[T]) create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.submit(w, r, uuid.Nil)
	}
}

func (h entityHandler[T]) update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.submit(w, r, id)
	}
}

func (h entityHandler[T]) submit(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var draft T
	attachments, cleanup, err := decodeRequest(w, r, &draft, h.files)
	defer cleanup()
	if err != nil {
		h.responder.WriteFailure(w, err, forms.FailureNotice(forms.CategoryValidation, err))
		return
	}

	mode := forms.Edit
	if id == uuid.Nil {
		mode = forms.Create
	}
	submitForm(w, r, h.responder, h.spec, mode, id, draft, attachments, formDeps{store: h.store, gate: h.gate, timeout: h.timeout})
}

func (h entityHandler[T]) delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		removeEntity(w, r, h.responder, h.gate, h.entity, id, h.remove)
	}
}

type formDeps struct {
	store   storage.Store
	gate    *forms.Gate
	timeout time.Duration
}

// submitForm runs one submission and writes its single notice.
func submitForm[T any](w http.ResponseWriter, r *http.Request, responder Responder, spec forms.Spec[T], mode forms.Mode, id uuid.UUID, draft T, attachments []forms.Attachment, deps formDeps) {
	notices := &forms.Recorder{}
	opts := []forms.Option{
		forms.WithGate(deps.gate, gateKey(r, spec.Entity, mode, id)),
		forms.WithTimeout(deps.timeout),
	}

	var c *forms.Controller[T]
	status := http.StatusOK
	if mode == forms.Create {
		c = forms.NewCreate(spec, deps.store, notices, opts...)
		c.SetDraft(draft)
		status = http.StatusCreated
	} else {
		c = forms.NewEdit(spec, id, draft, deps.store, notices, opts...)
	}

	saved, err := c.Submit(r.Context(), attachments...)
	if errors.Is(err, forms.ErrInFlight) {
		responder.WriteError(w, errs.NewConflictError("a submission for this form is already in progress"))
		return
	}

	notice, _ := notices.Last()
	if err != nil {
		responder.WriteFailure(w, err, notice)
		return
	}
	responder.WriteOutcome(w, status, saved, notice)
}

func removeEntity(w http.ResponseWriter, r *http.Request, responder Responder, gate *forms.Gate, entity string, id uuid.UUID, remove func(context.Context, uuid.UUID) error) {
	notices := &forms.Recorder{}
	err := forms.Remove(r.Context(), gate, entity+":"+id.String(), entity, notices, func(ctx context.Context) error {
		return remove(ctx, id)
	})
	if errors.Is(err, forms.ErrInFlight) {
		responder.WriteError(w, errs.NewConflictError("this item is already being deleted"))
		return
	}

	notice, _ := notices.Last()
	if err != nil {
		responder.WriteFailure(w, err, notice)
		return
	}
	responder.WriteOutcome(w, http.StatusOK, map[string]string{"id": id.String()}, notice)
}
