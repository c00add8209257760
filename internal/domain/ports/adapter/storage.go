package adapter

import (
	"context"
	"io"
)

// UploadResult is what object storage hands back for a stored attachment.
type UploadResult struct {
	SignedURL  string
	ObjectPath string
}

// StorageAdapter is the port for attachment object storage. Objects land at
// startups/{startupID}/responses/{questionID}/{filename}.
type StorageAdapter interface {
	Upload(ctx context.Context, objectPath string, body io.Reader, size int64) (UploadResult, error)
}
