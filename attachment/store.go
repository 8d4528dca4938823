package attachment

import (
	"context"
	"io"

	"keepsakes/enum"
)

// ObjectStore is the remote media store holding attachment bytes.
type ObjectStore interface {
	Upload(ctx context.Context, content io.Reader, filename, folder string) (string, error)
	Delete(ctx context.Context, key string, resourceType enum.ResourceType) error
}
