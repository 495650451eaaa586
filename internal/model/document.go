package model

import (
	"context"
	"io"
)

// DocumentStorage stores the justification documents absences reference by
// relative path.
type DocumentStorage interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
