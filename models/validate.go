package models

import (
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-site-backend/errs"
)

// FieldErrors maps a JSON field name to the reason it failed validation.
type FieldErrors map[string]string

// Err returns nil when no field failed.
func (f FieldErrors) Err() error {
	if len(f) == 0 {
		return nil
	}
	return errs.NewValidationError(f)
}

func (f FieldErrors) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		f[field] = "is required"
	}
}

func (f FieldErrors) optionalURL(field string, value *string) {
	if value == nil || *value == "" {
		return
	}
	if !IsWebURL(*value) {
		f[field] = "must be a valid http(s) URL"
	}
}

func (f FieldErrors) nonNegative(field string, value int) {
	if value < 0 {
		f[field] = "must not be negative"
	}
}

// optionalAssetURL accepts what a Store hands back for an upload: an absolute
// http(s) URL or a path on this server such as /uploads/avatars/a.png.
func (f FieldErrors) optionalAssetURL(field string, value *string) {
	if value == nil || *value == "" {
		return
	}
	if !IsAssetURL(*value) {
		f[field] = "must be a valid http(s) URL or a path starting with /"
	}
}

// IsAssetURL reports whether raw is a web URL or a root-relative path.
func IsAssetURL(raw string) bool {
	if IsWebURL(raw) {
		return true
	}
	if !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") {
		return false
	}
	u, err := url.Parse(raw)
	return err == nil && u.Scheme == "" && u.Host == ""
}

// IsWebURL reports whether raw is an absolute http or https URL with a host.
func IsWebURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// NullIfEmpty turns "" into a NULL column value.
func NullIfEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// Keyed is implemented by every stored model.
type Keyed interface {
	Key() uuid.UUID
	SetKey(uuid.UUID)
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
