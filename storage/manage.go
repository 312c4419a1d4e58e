// Package storage keeps off-site copies of exported files and database
// snapshots in a Backblaze B2 bucket.
package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/kurin/blazer/b2"
)

const (
	exportsPrefix = "exports"
	backupsPrefix = "backups"
)

type Archive struct {
	bucket *b2.Bucket
}

// Open connects to B2 and resolves the bucket once at startup.
func Open(ctx context.Context, keyID, appKey, bucketName string) (*Archive, error) {
	client, err := b2.NewClient(ctx, keyID, appKey)
	if err != nil {
		return nil, fmt.Errorf("b2 client: %w", err)
	}
	bucket, err := client.Bucket(ctx, bucketName)
	if err != nil {
		return nil, fmt.Errorf("b2 bucket %s: %w", bucketName, err)
	}
	return &Archive{bucket: bucket}, nil
}

// ExportKey is the object name of an exported file: exports/{courseId}/{filename}.
func ExportKey(courseId, filename string) string {
	return path.Join(exportsPrefix, courseId, filename)
}

func BackupKey(filename string) string {
	return path.Join(backupsPrefix, filename)
}

// ContentType guesses the stored content type from the key extension.
func ContentType(key string) string {
	switch strings.ToLower(path.Ext(key)) {
	case ".csv":
		return "text/csv; charset=utf-8"
	case ".json":
		return "application/json"
	case ".db":
		return "application/octet-stream"
	}
	if t := mime.TypeByExtension(path.Ext(key)); t != "" {
		return t
	}
	return "application/octet-stream"
}

// UploadFile writes r under key and returns the URL of the object.
func (a *Archive) UploadFile(ctx context.Context, key string, r io.Reader) (string, error) {
	obj := a.bucket.Object(key)
	w := obj.NewWriter(ctx, b2.WithAttrsOption(&b2.Attrs{ContentType: ContentType(key)}))

	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return obj.URL(), nil
}
