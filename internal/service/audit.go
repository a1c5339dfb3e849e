package service

import (
	"context"

	"github.com/listenupapp/libreria/internal/domain"
	"github.com/listenupapp/libreria/internal/media/covers"
)

// CoverAudit compares a book's declared cover with the file on disk.
type CoverAudit struct {
	BookID   string       `json:"book_id"`
	Title    string       `json:"title"`
	Declared domain.Cover `json:"declared"`
	Actual   *covers.Info `json:"actual,omitempty"`
	Mismatch bool         `json:"mismatch"`
	Error    string       `json:"error,omitempty"`
}

// CoverAuditReport is the result of AuditCovers.
type CoverAuditReport struct {
	Checked    int          `json:"checked"`
	Mismatched int          `json:"mismatched"`
	Failed     int          `json:"failed"`
	Missing    int          `json:"missing"`
	Entries    []CoverAudit `json:"entries"`
}

// AuditCovers probes every attached cover and reports declared dimensions
// that disagree with the image. Books without a cover are only counted.
func (s *CatalogService) AuditCovers(ctx context.Context) (*CoverAuditReport, error) {
	s.mu.RLock()
	books := newBookViews(s.catalog.Books())
	s.mu.RUnlock()

	report := &CoverAuditReport{Entries: []CoverAudit{}}
	for _, b := range books {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if b.Cover == nil {
			report.Missing++
			continue
		}

		entry := CoverAudit{BookID: b.ID, Title: b.Title, Declared: *b.Cover}
		report.Checked++

		if s.opts.Covers == nil {
			entry.Error = "cover resolver not configured"
			report.Failed++
			report.Entries = append(report.Entries, entry)
			continue
		}

		info, err := s.opts.Covers.Probe(b.Cover.Path)
		if err != nil {
			entry.Error = err.Error()
			report.Failed++
			s.logger.Warn("failed to probe cover", "title", b.Title, "path", b.Cover.Path, "error", err)
		} else {
			entry.Actual = &info
			entry.Mismatch = info.Width != b.Cover.Width || info.Height != b.Cover.Height
			if entry.Mismatch {
				report.Mismatched++
			}
		}
		report.Entries = append(report.Entries, entry)
	}

	return report, nil
}
