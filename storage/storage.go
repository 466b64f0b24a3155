// Package storage uploads attachment files and returns their public URLs.
package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/xid"
)

// Bucket groups objects by attachment kind.
type Bucket string

const (
	Avatars      Bucket = "avatars"
	CVDocs       Bucket = "cv-docs"
	CertProofs   Bucket = "cert-proofs"
	ProjectMedia Bucket = "project-media"
)

// Object is one file to upload.
type Object struct {
	Bucket      Bucket
	Key         string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Store persists objects. Put returns the object's public URL.
type Store interface {
	Put(ctx context.Context, obj Object) (publicURL string, err error)
}

// ObjectKey names a single attachment: <prefix>-<xid><ext>.
func ObjectKey(prefix, filename, contentType string) string {
	return fmt.Sprintf("%s-%s%s", prefix, xid.New().String(), extension(filename, contentType))
}

// MediaKey names the i-th file of a project media batch.
func MediaKey(projectID uuid.UUID, i int, filename, contentType string) string {
	return fmt.Sprintf("%s/%s-%d%s", projectID, xid.New().String(), i, extension(filename, contentType))
}

func extension(filename, contentType string) string {
	if ext := strings.ToLower(path.Ext(filename)); ext != "" {
		return ext
	}
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}

// PublicURL joins base, bucket and key.
func PublicURL(base string, bucket Bucket, key string) string {
	return strings.TrimRight(base, "/") + "/" + string(bucket) + "/" + key
}
