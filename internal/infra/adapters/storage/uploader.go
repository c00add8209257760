// File: internal/infra/adapters/storage/uploader.go
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"minerva-beacon/internal/domain"
	"minerva-beacon/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.StorageAdapter = (*Uploader)(nil)

// Uploader streams attachment bodies to the platform's upload gateway, which
// writes the object and answers with the signed URL and final object path.
type Uploader struct {
	baseURL string
	auth    adapter.AuthAdapter
	client  *http.Client
	log     *zerolog.Logger
}

func NewUploader(baseURL string, auth adapter.AuthAdapter, timeout time.Duration, logger *zerolog.Logger) *Uploader {
	return &Uploader{
		baseURL: baseURL,
		auth:    auth,
		client:  &http.Client{Timeout: timeout},
		log:     logger,
	}
}

func (u *Uploader) Upload(ctx context.Context, objectPath string, body io.Reader, size int64) (adapter.UploadResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut,
		u.baseURL+"/upload/"+url.PathEscape(objectPath), body)
	if err != nil {
		return adapter.UploadResult{}, err
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	if size > 0 {
		req.ContentLength = size
	}
	token, err := u.auth.Token(ctx)
	if err != nil {
		return adapter.UploadResult{}, fmt.Errorf("auth token: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := u.client.Do(req)
	if err != nil {
		return adapter.UploadResult{}, fmt.Errorf("upload: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return adapter.UploadResult{}, fmt.Errorf("upload http %d: %w", resp.StatusCode, domain.ErrUploadRejected)
	}

	var payload struct {
		SignedURL string `json:"signed_url"`
		GCSPath   string `json:"gcs_path"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return adapter.UploadResult{}, fmt.Errorf("upload decode: %w", err)
	}
	u.log.Debug().Str("object", payload.GCSPath).Msg("attachment stored")
	return adapter.UploadResult{SignedURL: payload.SignedURL, ObjectPath: payload.GCSPath}, nil
}
