package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/sync/errgroup"
)

// pageConcurrency bounds parallel page decoding for large documents.
const pageConcurrency = 4

// ExtractUpperWinds decodes a PDF document and parses its upper-winds block.
// Page text is assembled in page order, with text fragments on a page joined
// by single spaces and pages joined by newlines. The function holds no state
// between invocations.
func ExtractUpperWinds(ctx context.Context, document []byte) ([]WindLevelRecord, error) {
	text, err := DocumentText(ctx, document)
	if err != nil {
		return nil, err
	}
	return ParseUpperWinds(text)
}

// DocumentText extracts the full plain text of a PDF document, preserving
// page order.
func DocumentText(ctx context.Context, document []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(document), int64(len(document)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadableDocument, err)
	}

	total := reader.NumPage()
	pages := make([]string, total)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(pageConcurrency)

	for i := 1; i <= total; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			page := reader.Page(i)
			if page.V.IsNull() {
				return nil
			}

			text, err := pageText(page)
			if err != nil {
				return fmt.Errorf("page %d: %w", i, err)
			}
			pages[i-1] = text
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, page := range pages {
		sb.WriteString(page)
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

func pageText(page pdf.Page) (text string, err error) {
	// the pdf library panics on malformed content streams
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrUnreadableDocument, r)
		}
	}()

	content := page.Content()
	fragments := make([]string, 0, len(content.Text))
	for _, t := range content.Text {
		fragments = append(fragments, t.S)
	}
	return strings.Join(fragments, " "), nil
}
