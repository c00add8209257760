//go:build !integration

// File: internal/infra/adapters/storage/uploader_test.go
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"minerva-beacon/internal/domain"
)

type staticAuth struct{}

func (staticAuth) Token(ctx context.Context) (string, error)  { return "tkn-123", nil }
func (staticAuth) UserID(ctx context.Context) (string, error) { return "user-1", nil }

func testUploader(url string) *Uploader {
	l := zerolog.Nop()
	return NewUploader(url, staticAuth{}, 5*time.Second, &l)
}

func TestUpload(t *testing.T) {
	const objectPath = "startups/st1/responses/q1/cap table.pdf"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method: %s", r.Method)
		}
		// The object path travels escaped as a single path segment.
		if got := r.URL.EscapedPath(); !strings.HasPrefix(got, "/upload/startups%2Fst1%2Fresponses%2Fq1%2F") {
			t.Errorf("path: %s", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tkn-123" {
			t.Errorf("authorization: %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != "pdf bytes" {
			t.Errorf("body: %q", body)
		}
		json.NewEncoder(w).Encode(map[string]string{
			"signed_url": "https://storage.example/signed/abc",
			"gcs_path":   objectPath,
		})
	}))
	defer srv.Close()

	res, err := testUploader(srv.URL).Upload(context.Background(), objectPath, strings.NewReader("pdf bytes"), 9)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if res.ObjectPath != objectPath || res.SignedURL == "" {
		t.Fatalf("result: %+v", res)
	}
}

func TestUploadRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusRequestEntityTooLarge)
	}))
	defer srv.Close()

	_, err := testUploader(srv.URL).Upload(context.Background(), "startups/st1/responses/q1/big.bin", strings.NewReader("x"), 1)
	if !errors.Is(err, domain.ErrUploadRejected) {
		t.Fatalf("want ErrUploadRejected, got %v", err)
	}
}