package uploads

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/oguzsenturk/vitalshop-backend/pkg/config"
	pkgerrors "github.com/oguzsenturk/vitalshop-backend/pkg/errors"
)

// Kind scopes which content types an upload slot accepts.
type Kind string

const (
	// KindImage covers catalog/banner/slide imagery.
	KindImage Kind = "image"
	// KindReceipt covers bank transfer receipts, which may be a photo
	// or a PDF export from the customer's banking app.
	KindReceipt Kind = "receipt"
)

var allowedMimeByKind = map[Kind][]string{
	KindImage:   {"image/jpeg", "image/png", "image/webp"},
	KindReceipt: {"image/jpeg", "image/png", "image/webp", "application/pdf"},
}

var extensionByMime = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

// View describes a stored upload.
type View struct {
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// Service stores uploaded files on local disk under per-kind folders.
type Service interface {
	Store(ctx context.Context, kind Kind, reader io.Reader) (*View, error)
}

type service struct {
	dir      string
	maxBytes int64
}

// NewService builds the upload service, ensuring the target directory exists.
func NewService(cfg config.UploadConfig) (Service, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("upload dir required")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}
	maxBytes := int64(cfg.MaxUploadMB) * 1024 * 1024
	if maxBytes <= 0 {
		maxBytes = 5 * 1024 * 1024
	}
	return &service{dir: cfg.Dir, maxBytes: maxBytes}, nil
}

func (s *service) Store(ctx context.Context, kind Kind, reader io.Reader) (*View, error) {
	allowed, ok := allowedMimeByKind[kind]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown upload kind %q", kind))
	}

	// read one byte past the cap to detect oversized payloads
	data, err := io.ReadAll(io.LimitReader(reader, s.maxBytes+1))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpload, err, "reading upload")
	}
	if int64(len(data)) > s.maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeUpload,
			fmt.Sprintf("file exceeds %d MB limit", s.maxBytes/(1024*1024)))
	}
	if len(data) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUpload, "empty file")
	}

	detected := mimetype.Detect(data)
	contentType := normalizeMime(detected.String())
	if !contains(allowed, contentType) {
		return nil, pkgerrors.New(pkgerrors.CodeUpload,
			fmt.Sprintf("unsupported content type %s", contentType)).
			WithDetails(map[string]any{"allowed": allowed})
	}

	subdir := filepath.Join(s.dir, string(kind))
	if err := os.MkdirAll(subdir, 0o755); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating upload subdir")
	}

	name := uuid.NewString() + extensionByMime[contentType]
	path := filepath.Join(subdir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "writing upload")
	}

	return &View{
		URL:         "/uploads/" + string(kind) + "/" + name,
		ContentType: contentType,
		Size:        int64(len(data)),
	}, nil
}

func normalizeMime(value string) string {
	if idx := strings.Index(value, ";"); idx >= 0 {
		value = value[:idx]
	}
	return strings.TrimSpace(value)
}

func contains(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
