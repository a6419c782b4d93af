package application

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/hello-birthday/internal/infrastructure/memory"
)

func TestExportWritesJSONLines(t *testing.T) {
	ctx := context.Background()
	users := memory.NewUserRepository()
	_, err := users.Upsert(ctx, "bob", time.Date(1985, time.July, 4, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	_, err = users.Upsert(ctx, "alice", time.Date(2000, time.February, 29, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	var (
		gotPath string
		gotType string
		gotBody []byte
	)
	upload := func(ctx context.Context, objectPath, contentType string, r *bytes.Reader) (string, error) {
		gotPath, gotType = objectPath, contentType
		b, err := io.ReadAll(r)
		gotBody = b
		return "https://storage.googleapis.com/bucket/" + objectPath, err
	}

	exp := NewExporter(users, upload, "exports")
	exp.Now = func() time.Time { return time.Date(2024, time.June, 15, 8, 30, 0, 0, time.UTC) }

	url, n, err := exp.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "exports/users-20240615T083000Z.jsonl", gotPath)
	assert.Equal(t, "https://storage.googleapis.com/bucket/exports/users-20240615T083000Z.jsonl", url)
	assert.Equal(t, "application/x-ndjson", gotType)

	var records []ExportRecord
	sc := bufio.NewScanner(bytes.NewReader(gotBody))
	for sc.Scan() {
		var rec ExportRecord
		require.NoError(t, json.Unmarshal(sc.Bytes(), &rec))
		records = append(records, rec)
	}
	require.Len(t, records, 2)
	assert.Equal(t, "alice", records[0].Username)
	assert.Equal(t, "2000-02-29", records[0].DateOfBirth)
	assert.Equal(t, "bob", records[1].Username)
	assert.Equal(t, "1985-07-04", records[1].DateOfBirth)
}

func TestExportUploadFailure(t *testing.T) {
	upload := func(context.Context, string, string, *bytes.Reader) (string, error) {
		return "", errors.New("permission denied")
	}
	_, _, err := NewExporter(memory.NewUserRepository(), upload, "").Export(context.Background())
	assert.ErrorContains(t, err, "upload snapshot")
}
