package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"userhub/internal/model"
	"userhub/internal/repository"
)

func makeUsers(n int) []model.User {
	users := make([]model.User, n)
	for i := range users {
		users[i] = model.User{
			ID:        uuid.New(),
			Name:      "User",
			Email:     "user@example.com",
			CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		}
	}
	return users
}

func pageResult(page, total int, data []model.User) *repository.PaginatedResult {
	totalPages := (total + exportBatchSize - 1) / exportBatchSize
	if totalPages < 1 {
		totalPages = 1
	}
	return &repository.PaginatedResult{
		Data: data,
		Pagination: repository.Pagination{
			Page:       page,
			Limit:      exportBatchSize,
			Total:      int64(total),
			TotalPages: totalPages,
		},
	}
}

func TestExportCSV_BatchesAndHeader(t *testing.T) {
	mockRepo := new(MockUserRepository)
	total := 1200
	mockRepo.On("FindAllPaginated", mock.Anything, repository.PaginationParams{Page: 1, Limit: exportBatchSize}).
		Return(pageResult(1, total, makeUsers(500)), nil).Once()
	mockRepo.On("FindAllPaginated", mock.Anything, repository.PaginationParams{Page: 2, Limit: exportBatchSize}).
		Return(pageResult(2, total, makeUsers(500)), nil).Once()
	mockRepo.On("FindAllPaginated", mock.Anything, repository.PaginationParams{Page: 3, Limit: exportBatchSize}).
		Return(pageResult(3, total, makeUsers(200)), nil).Once()

	var buf bytes.Buffer
	svc := NewUserExportService(mockRepo)
	err := svc.ExportCSV(context.Background(), &buf)

	assert.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 1201)
	assert.Equal(t, "ID,Name,Email,Created At", lines[0])
	assert.Contains(t, lines[1], "2024-03-01T12:00:00Z")
	assert.Equal(t, 1, strings.Count(buf.String(), "ID,Name,Email,Created At"))

	mockRepo.AssertExpectations(t)
}

func TestExportCSV_EmptyTable(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindAllPaginated", mock.Anything, repository.PaginationParams{Page: 1, Limit: exportBatchSize}).
		Return(pageResult(1, 0, nil), nil).Once()

	var buf bytes.Buffer
	svc := NewUserExportService(mockRepo)
	err := svc.ExportCSV(context.Background(), &buf)

	assert.NoError(t, err)
	assert.Equal(t, "ID,Name,Email,Created At\n", buf.String())
	mockRepo.AssertExpectations(t)
}

func TestExportCSV_AbortsOnFetchError(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindAllPaginated", mock.Anything, repository.PaginationParams{Page: 1, Limit: exportBatchSize}).
		Return(pageResult(1, 600, makeUsers(500)), nil).Once()
	mockRepo.On("FindAllPaginated", mock.Anything, repository.PaginationParams{Page: 2, Limit: exportBatchSize}).
		Return(nil, errors.New("connection reset")).Once()

	var buf bytes.Buffer
	svc := NewUserExportService(mockRepo)
	err := svc.ExportCSV(context.Background(), &buf)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "export page 2")
	// The first batch was already flushed before the failure.
	assert.Equal(t, 501, strings.Count(buf.String(), "\n"))
	mockRepo.AssertExpectations(t)
}
