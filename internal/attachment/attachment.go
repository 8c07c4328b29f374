// Package attachment turns user-selected image files into inline photo
// records. Files are read concurrently on a bounded worker pool; a file that
// cannot be read is logged and dropped rather than failing the batch.
package attachment

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/vbonduro/sitelog/internal/domain"
	"github.com/vbonduro/sitelog/internal/metrics"
)

const DefaultMaxBytes = 10 * 1024 * 1024 // 10 MB

var (
	ErrTooLarge    = errors.New("file too large")
	ErrUnsupported = errors.New("unsupported image format")
)

// Source is one file selected for attachment.
type Source interface {
	Name() string
	Open() (io.ReadCloser, error)
}

type pathSource string

// FromPath attaches a file on the local filesystem.
func FromPath(path string) Source { return pathSource(path) }

func (p pathSource) Name() string                 { return filepath.Base(string(p)) }
func (p pathSource) Open() (io.ReadCloser, error) { return os.Open(string(p)) }

type uploadSource struct{ fh *multipart.FileHeader }

// FromUpload attaches a file from a multipart form.
func FromUpload(fh *multipart.FileHeader) Source { return uploadSource{fh: fh} }

func (u uploadSource) Name() string                 { return u.fh.Filename }
func (u uploadSource) Open() (io.ReadCloser, error) { return u.fh.Open() }

// allowedImageTypes is the set of MIME types accepted for attachments.
// net/http.DetectContentType handles JPEG, PNG, and GIF via magic-byte
// sniffing. WebP is detected separately because the WHATWG sniffing
// algorithm, and so the stdlib, has no WebP signature.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

func isWebP(data []byte) bool {
	return len(data) >= 12 &&
		string(data[0:4]) == "RIFF" &&
		string(data[8:12]) == "WEBP"
}

// DetectImageMIME returns the sniffed MIME type and true if data is an
// accepted image format.
func DetectImageMIME(data []byte) (string, bool) {
	if isWebP(data) {
		return "image/webp", true
	}
	mime := http.DetectContentType(data)
	if allowedImageTypes[mime] {
		return mime, true
	}
	return "", false
}

// Read converts one file into a photo record with a base64 data URL.
func Read(src Source, maxBytes int64, now time.Time) (domain.Photo, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	rc, err := src.Open()
	if err != nil {
		return domain.Photo{}, fmt.Errorf("failed to open %s: %w", src.Name(), err)
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(io.LimitReader(rc, maxBytes+1))
	if err != nil {
		return domain.Photo{}, fmt.Errorf("failed to read %s: %w", src.Name(), err)
	}
	if int64(len(data)) > maxBytes {
		return domain.Photo{}, fmt.Errorf("%s: %w", src.Name(), ErrTooLarge)
	}
	mime, ok := DetectImageMIME(data)
	if !ok {
		return domain.Photo{}, fmt.Errorf("%s: %w", src.Name(), ErrUnsupported)
	}

	return domain.Photo{
		ID:        domain.NewID(),
		Name:      src.Name(),
		Type:      mime,
		Size:      int64(len(data)),
		DataURL:   "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data),
		CreatedAt: now,
	}, nil
}

// Reader reads batches of files on a shared worker pool.
type Reader struct {
	pool     *ants.Pool
	maxBytes int64
	logger   *slog.Logger
}

func NewReader(workers int, maxBytes int64, logger *slog.Logger) (*Reader, error) {
	if workers <= 0 {
		workers = 4
	}
	pool, err := ants.NewPool(workers, ants.WithPanicHandler(func(v any) {
		logger.Error("attachment worker panic", "panic", v)
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to create attachment pool: %w", err)
	}
	return &Reader{pool: pool, maxBytes: maxBytes, logger: logger}, nil
}

// ReadAll reads every file and returns the photos that succeeded, in input
// order. It never returns an error.
func (r *Reader) ReadAll(ctx context.Context, files []Source) []domain.Photo {
	results := make([]*domain.Photo, len(files))
	now := time.Now().UTC()

	var wg sync.WaitGroup
	for i, src := range files {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		task := func() {
			defer wg.Done()
			photo, err := Read(src, r.maxBytes, now)
			metrics.AttachmentsTotal.WithLabelValues(metrics.Status(err)).Inc()
			if err != nil {
				r.logger.Warn("dropping attachment", "name", src.Name(), "error", err)
				return
			}
			results[i] = &photo
		}
		if err := r.pool.Submit(task); err != nil {
			wg.Done()
			r.logger.Warn("dropping attachment", "name", src.Name(), "error", err)
		}
	}
	wg.Wait()

	photos := make([]domain.Photo, 0, len(files))
	for _, p := range results {
		if p != nil {
			photos = append(photos, *p)
		}
	}
	return photos
}

func (r *Reader) Close() {
	_ = r.pool.ReleaseTimeout(3 * time.Second)
}
