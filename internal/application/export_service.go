package application

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	repo "github.com/oksasatya/hello-birthday/internal/domain/repository"
	"github.com/oksasatya/hello-birthday/pkg/validation"
)

// UploadFunc stores the content of r under objectPath and returns its URL.
type UploadFunc func(ctx context.Context, objectPath, contentType string, r *bytes.Reader) (string, error)

// ExportRecord is one line of a users snapshot.
type ExportRecord struct {
	Username    string    `json:"username"`
	DateOfBirth string    `json:"dateOfBirth"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Exporter writes a JSON-lines snapshot of every user to object storage.
type Exporter struct {
	Users  repo.Lister
	Upload UploadFunc
	Prefix string
	Now    func() time.Time
}

func NewExporter(users repo.Lister, upload UploadFunc, prefix string) *Exporter {
	return &Exporter{Users: users, Upload: upload, Prefix: prefix, Now: time.Now}
}

// ObjectPath is where a snapshot taken at t is written.
func (e *Exporter) ObjectPath(t time.Time) string {
	return path.Join(e.Prefix, "users-"+t.UTC().Format("20060102T150405Z")+".jsonl")
}

// Export uploads the snapshot and returns its URL and record count.
func (e *Exporter) Export(ctx context.Context) (string, int, error) {
	users, err := e.Users.List(ctx)
	if err != nil {
		return "", 0, fmt.Errorf("list users: %w", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, u := range users {
		if err := enc.Encode(ExportRecord{
			Username:    u.Username,
			DateOfBirth: u.DateOfBirth.Format(validation.DateLayout),
			CreatedAt:   u.CreatedAt,
			UpdatedAt:   u.UpdatedAt,
		}); err != nil {
			return "", 0, fmt.Errorf("encode %s: %w", u.Username, err)
		}
	}

	url, err := e.Upload(ctx, e.ObjectPath(e.Now()), "application/x-ndjson", bytes.NewReader(buf.Bytes()))
	if err != nil {
		return "", 0, fmt.Errorf("upload snapshot: %w", err)
	}
	return url, len(users), nil
}
