package parser

import (
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"

	"alfredoptarigan/resume-parser/internal/logger"
)

func readPDFPages(ctx context.Context, filePath string) (pages []string, err error) {
	// The reader panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	f, r, err := pdf.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	totalPage := r.NumPage()
	pages = make([]string, 0, totalPage)

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := r.Page(pageIndex)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			logger.Ctx(ctx).Debug().Err(err).Int("page", pageIndex).Msg("page yielded no text")
			text = ""
		}
		pages = append(pages, text)
	}

	return pages, nil
}
