package router

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	apperrors "userhub/internal/errors"
	"userhub/internal/handler"
)

// Register wires routes and middleware.
func Register(e *echo.Echo, log *zap.Logger, userHandler *handler.UserHandler) {
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(100)))

	e.Validator = &CustomValidator{validator: validator.New()}
	e.HTTPErrorHandler = errorHandler(log)

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api/v1")

	api.GET("/users", userHandler.ListUsers)
	api.POST("/users", userHandler.CreateUser)
	// Registered before /users/:id so "export" is not parsed as an id.
	api.GET("/users/export", userHandler.ExportUsers)
	api.GET("/users/:id", userHandler.GetUser)
	api.PUT("/users/:id", userHandler.UpdateUser)
	api.PATCH("/users/:id", userHandler.UpdateUser)
	api.DELETE("/users/:id", userHandler.DeleteUser)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// errorHandler renders every failure as the standard envelope. Handlers
// attach an ErrorResponse to their echo.HTTPError; anything else gets a
// code derived from the status.
func errorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		resp := apperrors.NewErrorResponse(apperrors.CodeInternalError, "internal server error")

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			status = httpErr.Code
			switch m := httpErr.Message.(type) {
			case apperrors.ErrorResponse:
				resp = m
			case string:
				resp = apperrors.NewErrorResponse(codeForStatus(status), m)
			default:
				resp = apperrors.NewErrorResponse(codeForStatus(status), http.StatusText(status))
			}
		}

		if status >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.Int("status", status),
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Error(err),
			)
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, resp)
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return apperrors.CodeValidationFailed
	case http.StatusNotFound:
		return apperrors.CodeNotFound
	case http.StatusMethodNotAllowed:
		return apperrors.CodeMethodNotAllowed
	default:
		return apperrors.CodeInternalError
	}
}
