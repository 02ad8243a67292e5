package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"userhub/internal/repository"
)

const exportBatchSize = 500

var exportHeader = []string{"ID", "Name", "Email", "Created At"}

// UserExportService streams the full active user table as CSV.
type UserExportService interface {
	ExportCSV(ctx context.Context, w io.Writer) error
}

type userExportService struct {
	repo repository.UserRepository
}

// NewUserExportService builds a UserExportService.
func NewUserExportService(repo repository.UserRepository) UserExportService {
	return &userExportService{repo: repo}
}

// ExportCSV walks the table in fixed-size pages and writes each batch to
// w before fetching the next, so memory stays bounded by the batch size.
// The header goes out only after the first page loads, which keeps a
// failed export from emitting a partial file for the common first-query
// failure.
func (s *userExportService) ExportCSV(ctx context.Context, w io.Writer) error {
	cw := csv.NewWriter(w)

	for page := 1; ; page++ {
		result, err := s.repo.FindAllPaginated(ctx, repository.PaginationParams{
			Page:  page,
			Limit: exportBatchSize,
		})
		if err != nil {
			return fmt.Errorf("export page %d: %w", page, err)
		}

		if page == 1 {
			if err := cw.Write(exportHeader); err != nil {
				return fmt.Errorf("export header: %w", err)
			}
		}

		for _, u := range result.Data {
			row := []string{
				u.ID.String(),
				u.Name,
				u.Email,
				u.CreatedAt.Format(time.RFC3339),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("export page %d: %w", page, err)
			}
		}

		cw.Flush()
		if err := cw.Error(); err != nil {
			return fmt.Errorf("export page %d: %w", page, err)
		}

		if page >= result.Pagination.TotalPages {
			return nil
		}
	}
}
