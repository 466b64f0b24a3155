package api

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/form/v4"
	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-site-backend/errs"
	"github.com/rpupo63/portfolio-site-backend/forms"
	"github.com/rpupo63/portfolio-site-backend/models"
	"github.com/rpupo63/portfolio-site-backend/storage"
	"gorm.io/datatypes"
)

const (
	maxJSONBytes   = 1 << 20
	maxUploadBytes = 32 << 20
)

// formDecoder reads multipart text fields by their JSON names. Tag lists
// arrive as one comma separated field.
var formDecoder = newFormDecoder()

func newFormDecoder() *form.Decoder {
	d := form.NewDecoder()
	d.SetTagName("json")
	d.RegisterCustomTypeFunc(func(vals []string) (any, error) {
		if len(vals) == 0 {
			return datatypes.JSONSlice[string]{}, nil
		}
		return datatypes.JSONSlice[string](models.SplitTags(strings.Join(vals, ","))), nil
	}, datatypes.JSONSlice[string]{})
	return d
}

// decodeRequest fills dst from a JSON body or a multipart form. For
// multipart, text fields are decoded into dst's JSON-named fields and files
// named in fileFields become attachments. Callers must call the returned
// cleanup.
func decodeRequest(w http.ResponseWriter, r *http.Request, dst any, fileFields map[string]storage.Bucket) ([]forms.Attachment, func(), error) {
	noop := func() {}
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType != "multipart/form-data" {
		r.Body = http.MaxBytesReader(w, r.Body, maxJSONBytes)
		if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				return nil, noop, errs.NewMaxBodySizeExceededError(maxJSONBytes)
			}
			return nil, noop, errs.NewInvalidJSONError(err)
		}
		return nil, noop, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, noop, errs.NewMalformedPayloadError("multipart form", err)
	}
	cleanup := func() { _ = r.MultipartForm.RemoveAll() }

	if err := formDecoder.Decode(dst, url.Values(r.MultipartForm.Value)); err != nil {
		cleanup()
		var decodeErrs form.DecodeErrors
		if errors.As(err, &decodeErrs) {
			fields := make(map[string]string, len(decodeErrs))
			for name := range decodeErrs {
				fields[name] = "has the wrong type"
			}
			return nil, noop, errs.NewValidationError(fields)
		}
		return nil, noop, errs.NewMalformedPayloadError("multipart form", err)
	}

	var attachments []forms.Attachment
	for field, bucket := range fileFields {
		for i, fh := range r.MultipartForm.File[field] {
			f, err := fh.Open()
			if err != nil {
				cleanup()
				return nil, noop, errs.NewMalformedPayloadError(field, err)
			}
			prev := cleanup
			cleanup = func() { f.Close(); prev() }

			attachments = append(attachments, forms.Attachment{
				Field:       field,
				Index:       i,
				Bucket:      bucket,
				Filename:    fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Size:        fh.Size,
				Body:        f,
			})
		}
	}
	return attachments, cleanup, nil
}

func idParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return uuid.Nil, errs.NewMissingRequiredFieldError(name)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errs.NewInvalidFieldError(name, "must be a UUID")
	}
	return id, nil
}

// gateKey scopes the in-flight guard: edits by row, creates by the client's
// Idempotency-Key header. Creates without the header are not gated.
func gateKey(r *http.Request, entity string, mode forms.Mode, id uuid.UUID) string {
	if mode == forms.Edit {
		return entity + ":" + id.String()
	}
	if key := strings.TrimSpace(r.Header.Get("Idempotency-Key")); key != "" {
		return entity + ":new:" + key
	}
	return ""
}
