// Package document extracts text from uploaded clinical documents so it can
// feed the evidence summary.
package document

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Extractor pulls plain text out of PDF bytes. Extraction never fails the
// analysis: unreadable documents degrade to a bracketed placeholder so the
// reasoning backend still sees that a document was attached.
type Extractor struct {
	logger *slog.Logger
}

func NewExtractor(logger *slog.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Text extracts the plain text of one PDF document. name is the uploaded
// filename, used only for logging and the failure placeholder.
func (e *Extractor) Text(ctx context.Context, name string, data []byte) string {
	text, err := extractPDF(data)
	if err != nil {
		if e.logger != nil {
			e.logger.WarnContext(ctx, "pdf extraction failed",
				"document", name,
				"error", err,
			)
		}
		return fmt.Sprintf("[document %q could not be parsed]", name)
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Sprintf("[document %q contained no extractable text]", name)
	}
	return text
}

func extractPDF(data []byte) (text string, err error) {
	// The pdf package panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract text: %w", err)
	}

	var sb strings.Builder
	if _, err := io.Copy(&sb, plain); err != nil {
		return "", fmt.Errorf("read text: %w", err)
	}
	return sb.String(), nil
}
