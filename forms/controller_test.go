package forms

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-site-backend/errs"
	"github.com/rpupo63/portfolio-site-backend/models"
	"github.com/rpupo63/portfolio-site-backend/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	puts []storage.Object
	err  error
}

func (f *fakeStore) Put(_ context.Context, obj storage.Object) (string, error) {
	f.puts = append(f.puts, obj)
	if f.err != nil {
		return "", f.err
	}
	return storage.PublicURL("https://cdn.example.com", obj.Bucket, obj.Key), nil
}

type fakeRepo struct {
	created []models.Certificate
	updated map[uuid.UUID]models.Certificate
	err     error
	block   chan struct{}
}

func (r *fakeRepo) create(_ context.Context, c *models.Certificate) error {
	if r.block != nil {
		<-r.block
	}
	if r.err != nil {
		return r.err
	}
	r.created = append(r.created, *c)
	return nil
}

func (r *fakeRepo) update(_ context.Context, id uuid.UUID, c *models.Certificate) error {
	if r.err != nil {
		return r.err
	}
	if r.updated == nil {
		r.updated = map[uuid.UUID]models.Certificate{}
	}
	r.updated[id] = *c
	return nil
}

func certificateSpec(repo *fakeRepo) Spec[models.Certificate] {
	return Spec[models.Certificate]{
		Entity:    "certificate",
		Normalize: (*models.Certificate).Normalize,
		Validate:  (*models.Certificate).Validate,
		Accept:    map[string][]string{"proof": {"image/", "application/pdf"}},
		Attach: func(c *models.Certificate, _ Attachment, url string) {
			c.ProofURL = &url
		},
		Create: repo.create,
		Update: repo.update,
	}
}

func proof() Attachment {
	return Attachment{
		Field: "proof", Bucket: storage.CertProofs, Filename: "proof.pdf",
		ContentType: "application/pdf", Size: 4, Body: strings.NewReader("%PDF"),
	}
}

func TestSubmitCreateClearsDraft(t *testing.T) {
	repo := &fakeRepo{}
	store := &fakeStore{}
	rec := &Recorder{}
	c := NewCreate(certificateSpec(repo), store, rec)
	c.SetDraft(models.Certificate{Name: "AWS SA", Issuer: "Amazon"})

	saved, err := c.Submit(context.Background(), proof())
	require.NoError(t, err)

	require.Len(t, repo.created, 1)
	require.NotNil(t, saved.ProofURL)
	assert.True(t, strings.HasPrefix(*saved.ProofURL, "https://cdn.example.com/cert-proofs/proof-"))
	assert.Equal(t, models.Certificate{}, c.Draft())
	assert.Equal(t, []Notice{{Level: LevelSuccess, Message: "Certificate created"}}, rec.Notices)
}

func TestSubmitWithoutProofLeavesURLNull(t *testing.T) {
	repo := &fakeRepo{}
	c := NewCreate(certificateSpec(repo), &fakeStore{}, &Recorder{})
	c.SetDraft(models.Certificate{Name: "AWS SA", Issuer: "Amazon"})

	_, err := c.Submit(context.Background())
	require.NoError(t, err)
	require.Len(t, repo.created, 1)
	assert.Nil(t, repo.created[0].ProofURL)
}

func TestSubmitEmptyRequiredFieldWritesNothing(t *testing.T) {
	repo := &fakeRepo{}
	store := &fakeStore{}
	rec := &Recorder{}
	c := NewCreate(certificateSpec(repo), store, rec)
	draft := models.Certificate{Name: "", Issuer: "Amazon"}
	c.SetDraft(draft)

	_, err := c.Submit(context.Background(), proof())
	assert.True(t, errs.IsValidationError(err))

	assert.Empty(t, repo.created)
	assert.Empty(t, store.puts, "nothing is uploaded before validation passes")
	assert.Equal(t, draft, c.Draft())
	require.Len(t, rec.Notices, 1)
	assert.Equal(t, CategoryValidation, rec.Notices[0].Category)
	assert.Equal(t, "name", rec.Notices[0].Field)
}

func TestSubmitRejectsUnacceptedContentType(t *testing.T) {
	repo := &fakeRepo{}
	rec := &Recorder{}
	c := NewCreate(certificateSpec(repo), &fakeStore{}, rec)
	c.SetDraft(models.Certificate{Name: "AWS SA", Issuer: "Amazon"})

	a := proof()
	a.ContentType = "application/zip"
	_, err := c.Submit(context.Background(), a)
	assert.True(t, errs.IsValidationError(err))
	assert.Equal(t, "proof", rec.Notices[0].Field)
	assert.Empty(t, repo.created)
}

func TestSubmitUploadFailureSkipsWrite(t *testing.T) {
	repo := &fakeRepo{}
	rec := &Recorder{}
	store := &fakeStore{err: errs.NewStorageUnavailableError("cert-proofs", errors.New("refused"))}
	c := NewCreate(certificateSpec(repo), store, rec)
	draft := models.Certificate{Name: "AWS SA", Issuer: "Amazon"}
	c.SetDraft(draft)

	_, err := c.Submit(context.Background(), proof())
	assert.True(t, errs.IsUploadError(err))

	assert.Empty(t, repo.created)
	assert.Equal(t, draft, c.Draft(), "draft keeps no partial URL")
	assert.Equal(t, []Notice{{
		Level: LevelError, Category: CategoryUpload, Message: "Uploading proof failed", Field: "proof",
	}}, rec.Notices)
}

func TestSubmitRemoteFailureKeepsDraft(t *testing.T) {
	repo := &fakeRepo{err: errs.NewDatabaseError("create", "certificate", errors.New("connection reset"))}
	rec := &Recorder{}
	c := NewCreate(certificateSpec(repo), &fakeStore{}, rec)
	draft := models.Certificate{Name: "AWS SA", Issuer: "Amazon"}
	c.SetDraft(draft)

	_, err := c.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, draft, c.Draft())
	require.Len(t, rec.Notices, 1)
	assert.Equal(t, CategoryRemote, rec.Notices[0].Category)
}

func TestSubmitEditClosesController(t *testing.T) {
	repo := &fakeRepo{}
	rec := &Recorder{}
	id := uuid.New()
	c := NewEdit(certificateSpec(repo), id, models.Certificate{ID: id, Name: "AWS SA", Issuer: "Amazon"}, &fakeStore{}, rec)

	_, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Contains(t, repo.updated, id)
	assert.True(t, c.Closed())

	_, err = c.Submit(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
	assert.Len(t, rec.Notices, 1)
}

func TestSubmitWhileInFlightIsNoop(t *testing.T) {
	repo := &fakeRepo{block: make(chan struct{})}
	rec := &Recorder{}
	c := NewCreate(certificateSpec(repo), &fakeStore{}, rec)
	c.SetDraft(models.Certificate{Name: "AWS SA", Issuer: "Amazon"})

	done := make(chan error)
	go func() {
		_, err := c.Submit(context.Background())
		done <- err
	}()

	// wait until the first submission holds the controller
	require.Eventually(t, func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.inFlight
	}, time.Second, time.Millisecond)

	_, err := c.Submit(context.Background())
	assert.ErrorIs(t, err, ErrInFlight)

	close(repo.block)
	require.NoError(t, <-done)
	assert.Len(t, repo.created, 1)
	assert.Len(t, rec.Notices, 1)
}

func TestGateBlocksSecondController(t *testing.T) {
	gate := NewGate()
	release, ok := gate.Acquire("certificates:abc")
	require.True(t, ok)

	repo := &fakeRepo{}
	rec := &Recorder{}
	c := NewCreate(certificateSpec(repo), &fakeStore{}, rec, WithGate(gate, "certificates:abc"))
	c.SetDraft(models.Certificate{Name: "AWS SA", Issuer: "Amazon"})

	_, err := c.Submit(context.Background())
	assert.ErrorIs(t, err, ErrInFlight)
	assert.Empty(t, rec.Notices)

	release()
	_, err = c.Submit(context.Background())
	assert.NoError(t, err)
}

func TestRemove(t *testing.T) {
	rec := &Recorder{}
	err := Remove(context.Background(), NewGate(), "skills:1", "skill", rec, func(context.Context) error {
		return errs.NewNotFound("skill")
	})
	assert.True(t, errs.IsNotFound(err))

	err = Remove(context.Background(), NewGate(), "skills:2", "skill", rec, func(context.Context) error { return nil })
	require.NoError(t, err)

	require.Len(t, rec.Notices, 2)
	assert.Equal(t, LevelError, rec.Notices[0].Level)
	assert.Equal(t, CategoryRemote, rec.Notices[0].Category)
	assert.Equal(t, Notice{Level: LevelSuccess, Message: "Skill deleted"}, rec.Notices[1])
}

func TestFailureNoticeSuggestsRetryOnTimeout(t *testing.T) {
	n := FailureNotice(CategoryRemote, errs.NewDatabaseError("create", "certificate", context.DeadlineExceeded))
	assert.True(t, strings.HasSuffix(n.Message, "Please try again."), n.Message)

	n = FailureNotice(CategoryRemote, errs.NewNotFound("certificate"))
	assert.NotContains(t, n.Message, "try again")
}
