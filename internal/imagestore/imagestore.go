// Package imagestore keeps captured meal photos, on local disk or in S3.
// Images are addressed by an opaque ref (uuid plus the sniffed extension).
package imagestore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("image not found")
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrInvalidRef      = errors.New("invalid image ref")
)

// Store saves and serves meal images.
type Store interface {
	// Put stores data and returns its ref and sniffed content type.
	Put(ctx context.Context, data []byte) (ref, contentType string, err error)
	Get(ctx context.Context, ref string) (data []byte, contentType string, err error)
	Delete(ctx context.Context, ref string) error
}

// Sniff detects the content type of data and rejects anything but images.
func Sniff(data []byte) (*mimetype.MIME, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty upload: %w", ErrUnsupportedType)
	}
	m := mimetype.Detect(data)
	if !strings.HasPrefix(m.String(), "image/") {
		return nil, fmt.Errorf("%s: %w", m.String(), ErrUnsupportedType)
	}
	return m, nil
}

// newRef returns a fresh ref with the detected extension, e.g. "3f0c...e1.jpg".
func newRef(m *mimetype.MIME) string {
	return uuid.NewString() + m.Extension()
}

// validRef rejects refs that could escape the image namespace.
func validRef(ref string) error {
	if ref == "" || strings.ContainsAny(ref, `/\`) || strings.Contains(ref, "..") {
		return fmt.Errorf("%q: %w", ref, ErrInvalidRef)
	}
	return nil
}

// contentTypeOf sniffs stored bytes for serving.
func contentTypeOf(data []byte) string {
	return mimetype.Detect(data).String()
}
