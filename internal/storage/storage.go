package storage

import (
	"context"
	"time"
)

// ObjectStore is the object-storage collaborator consumed by the domain
// services. Presigning never uploads bytes itself; clients PUT directly
// against the returned URL. Remove is best-effort cleanup.
type ObjectStore interface {
	PresignUpload(ctx context.Context, objectName string, ttl time.Duration) (string, error)
	PresignDownload(ctx context.Context, objectName string, ttl time.Duration) (string, error)
	Remove(ctx context.Context, objectNames []string) error
}
