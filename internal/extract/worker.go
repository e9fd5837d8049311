// Package extract turns an uploaded CV document into normalized plain text.
// The pipeline is validate, sniff, scan, extract, normalize; the temporary
// artifact is released on every exit path.
package extract

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

// MaxUploadSize caps uploads at 5 MiB.
const MaxUploadSize = 5 * 1024 * 1024

const (
	mimePDF  = "application/pdf"
	mimeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Upload is one inbound document as delivered by a channel adapter.
type Upload struct {
	Name  string
	Data  []byte
	Email string
}

// Scanner is the antivirus collaborator. Scan reports whether the payload is
// clean; a non-nil error means the scanner itself is unavailable.
type Scanner interface {
	Scan(ctx context.Context, data []byte) (clean bool, signature string, err error)
}

type Worker struct {
	scanner Scanner
	logger  *zap.Logger
}

// NewWorker builds the extraction worker. scanner may be nil; scanning is
// best-effort and never a hard dependency.
func NewWorker(scanner Scanner, logger *zap.Logger) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{scanner: scanner, logger: logger}
}

// Extract runs the full pipeline and returns the normalized CV text.
func (w *Worker) Extract(ctx context.Context, upload Upload) (string, error) {
	if len(upload.Data) == 0 {
		return "", ErrEmptyUpload
	}
	if len(upload.Data) > MaxUploadSize {
		return "", ErrFileTooLarge
	}

	mtype := mimetype.Detect(upload.Data)
	if !mtype.Is(mimePDF) && !mtype.Is(mimeDocx) {
		return "", &UnsupportedTypeError{Detected: mtype.String()}
	}

	if w.scanner != nil {
		clean, signature, err := w.scanner.Scan(ctx, upload.Data)
		switch {
		case err != nil:
			w.logger.Warn("virus scanner unavailable, proceeding without scan",
				zap.String("file", upload.Name), zap.Error(err))
		case !clean:
			return "", &MalwareError{Signature: signature}
		}
	}

	tmp, err := os.CreateTemp("", "cv-*"+safeExt(upload.Name, mtype.Extension()))
	if err != nil {
		return "", err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(upload.Data); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}

	var text string
	if mtype.Is(mimePDF) {
		text, err = extractPDF(tmpPath)
	} else {
		text, err = extractDocx(tmpPath)
	}
	if err != nil {
		return "", err
	}

	text = Normalize(text)
	if text == "" {
		return "", ErrNoTextExtracted
	}
	return text, nil
}

// Normalize trims the text and collapses internal whitespace runs to single
// spaces.
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func safeExt(name, fallback string) string {
	ext := filepath.Ext(name)
	if ext == "" {
		return fallback
	}
	return ext
}
