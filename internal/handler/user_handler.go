package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"userhub/internal/errors"
	"userhub/internal/model"
	"userhub/internal/repository"
	"userhub/internal/service"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// CreateUserRequest is the create payload.
type CreateUserRequest struct {
	Name  string `json:"name" validate:"required,min=2"`
	Email string `json:"email" validate:"required,email"`
}

// UpdateUserRequest is the partial update payload. Absent fields keep
// their stored values.
type UpdateUserRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=2"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
}

// ListUsersResponse wraps one page of users.
type ListUsersResponse struct {
	Success    bool                  `json:"success"`
	Data       []model.User          `json:"data"`
	Pagination repository.Pagination `json:"pagination"`
}

// CreateUserResponse confirms a creation.
type CreateUserResponse struct {
	OK   bool       `json:"ok"`
	User model.User `json:"user"`
}

// UserResponse wraps a single user.
type UserResponse struct {
	Success bool       `json:"success"`
	Data    model.User `json:"data"`
}

// MessageResponse wraps a status message.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// UserHandler bundles the user HTTP handlers.
type UserHandler struct {
	svc       service.UserService
	exportSvc service.UserExportService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService, exportSvc service.UserExportService) *UserHandler {
	return &UserHandler{svc: svc, exportSvc: exportSvc}
}

// ListUsers godoc
// @Summary List users
// @Description Paginated user listing with optional name search
// @Tags users
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size (max 100)" default(10)
// @Param search query string false "Case-insensitive name substring"
// @Success 200 {object} ListUsersResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	page := defaultPage
	limit := defaultLimit
	if v := c.QueryParam("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			page = n
		}
	}
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	if page < 1 || limit < 1 || limit > maxLimit {
		return httpError(errors.ErrInvalidPagination)
	}

	result, err := h.svc.GetUsersPaginated(c.Request().Context(), repository.PaginationParams{
		Page:   page,
		Limit:  limit,
		Search: c.QueryParam("search"),
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, ListUsersResponse{
		Success:    true,
		Data:       result.Data,
		Pagination: result.Pagination,
	})
}

// CreateUser godoc
// @Summary Create user
// @Tags users
// @Accept json
// @Produce json
// @Param user body CreateUserRequest true "User payload"
// @Success 201 {object} CreateUserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users [post]
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest,
			errors.NewErrorResponse(errors.CodeValidationFailed, "invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest,
			errors.NewErrorResponse(errors.CodeValidationFailed, err.Error()))
	}

	user, err := h.svc.Create(c.Request().Context(), req.Name, req.Email)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, CreateUserResponse{OK: true, User: *user})
}

// GetUser godoc
// @Summary Get user by id
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} UserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := parseUserID(c)
	if err != nil {
		return err
	}

	user, err := h.svc.GetByID(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, UserResponse{Success: true, Data: *user})
}

// UpdateUser godoc
// @Summary Update user
// @Description Partial update; absent fields are left unchanged
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param user body UpdateUserRequest true "Fields to update"
// @Success 200 {object} UserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	id, err := parseUserID(c)
	if err != nil {
		return err
	}

	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest,
			errors.NewErrorResponse(errors.CodeValidationFailed, "invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest,
			errors.NewErrorResponse(errors.CodeValidationFailed, err.Error()))
	}

	user, err := h.svc.Update(c.Request().Context(), id, service.UserUpdate{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, UserResponse{Success: true, Data: *user})
}

// DeleteUser godoc
// @Summary Delete user
// @Description Soft delete; the user stops appearing in reads but keeps its email reserved
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, err := parseUserID(c)
	if err != nil {
		return err
	}

	if err := h.svc.SoftDelete(c.Request().Context(), id); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "user deleted"})
}

// ExportUsers godoc
// @Summary Export users as CSV
// @Description Streams all active users in creation-time order
// @Tags users
// @Produce text/csv
// @Success 200 {string} string "CSV payload"
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/export [get]
func (h *UserHandler) ExportUsers(c echo.Context) error {
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	res.Header().Set(echo.HeaderContentDisposition,
		`attachment; filename="users_`+strconv.FormatInt(time.Now().UnixMilli(), 10)+`.csv"`)
	res.Header().Set("Cache-Control", "public, max-age=300")
	res.WriteHeader(http.StatusOK)

	return h.exportSvc.ExportCSV(c.Request().Context(), res)
}

func parseUserID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest,
			errors.NewErrorResponse(errors.CodeValidationFailed, "invalid user ID"))
	}
	return id, nil
}

func httpError(err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}
