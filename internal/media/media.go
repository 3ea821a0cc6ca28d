// Package media stores business-card images on a remote or local host and hands back their URL
package media

import (
	"context"
	"mime"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Card image form fields
const (
	FieldCardFront = "cardFront"
	FieldCardBack  = "cardBack"
)

// CardFields lists the only file fields accepted on person routes
var CardFields = []string{FieldCardFront, FieldCardBack}

// Attachment is one uploaded file, fully read into memory
type Attachment struct {
	Field       string // form field (cardFront, cardBack)
	Filename    string // client file name
	ContentType string
	Data        []byte
}

// Size returns the attachment length in bytes
func (a *Attachment) Size() int64 {
	if a == nil {
		return 0
	}
	return int64(len(a.Data))
}

// Attachments are the optional card images of one request
type Attachments struct {
	Front *Attachment
	Back  *Attachment
}

// Empty reports whether no image was sent
func (a Attachments) Empty() bool {
	return a.Front == nil && a.Back == nil
}

// Object is what a Store receives
type Object struct {
	Key         string // folder/name.ext, unique per upload
	ContentType string
	Data        []byte
}

// Store uploads objects and returns the URL clients can fetch them from
type Store interface {
	Name() string
	Upload(ctx context.Context, obj Object) (string, error)
}

// ObjectKey builds "<folder>/<uuid><ext>". The extension comes from the file name,
// then from the content type, then defaults to .jpg.
func ObjectKey(folder, filename, contentType string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
			ext = exts[0]
		}
	}
	if ext == "" {
		ext = ".jpg"
	}

	name := uuid.NewString() + ext
	folder = strings.Trim(folder, "/")
	if folder == "" {
		return name
	}
	return path.Join(folder, name)
}
