package utils

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "academy-admin/pkg/errors"
)

type HttpResponse struct {
	Status  bool                   `json:"status"`
	Body    interface{}            `json:"body,omitempty"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`

	TotalCount *uint64 `json:"total_count,omitempty"`
	Skip       *uint64 `json:"skip,omitempty"`
	Limit      *uint64 `json:"limit,omitempty"`
}

// SuccessResponse writes the uniform success envelope. An optional total
// count is attached for paginated lists.
func SuccessResponse(ctx echo.Context, body interface{}, message string, code int, total ...uint64) error {
	response := &HttpResponse{
		Status:  true,
		Body:    body,
		Message: message,
	}
	if len(total) > 0 {
		response.TotalCount = &total[0]
	}
	return ctx.JSON(code, response)
}

// ListResponse writes the success envelope for a paginated list, echoing
// the effective window alongside the total count.
func ListResponse(ctx echo.Context, body interface{}, message string, code int, total uint64, params ListParams) error {
	skip, limit := params.Skip, params.Limit
	return ctx.JSON(code, &HttpResponse{
		Status:     true,
		Body:       body,
		Message:    message,
		TotalCount: &total,
		Skip:       &skip,
		Limit:      &limit,
	})
}

// ErrorResponse maps an error to its HTTP status and writes the uniform
// error envelope. Validation failures are reported per field with 422.
func ErrorResponse(ctx echo.Context, err error, logger *zap.Logger) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := make(map[string]interface{}, len(validationErrs))
		for _, fe := range validationErrs {
			details[fe.Namespace()] = fieldMessage(fe)
		}
		return ctx.JSON(http.StatusUnprocessableEntity, &HttpResponse{
			Status:  false,
			Message: "validation failed",
			Details: details,
		})
	}

	code := apperrors.StatusCode(err)
	message := apperrors.UserMessage(err)

	var details map[string]interface{}
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		details = httpErr.Details
	}

	if code >= http.StatusInternalServerError && logger != nil {
		logger.Error("request failed", zap.Error(err))
	}

	return ctx.JSON(code, &HttpResponse{
		Status:  false,
		Message: message,
		Details: details,
	})
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "is too short"
	case "max":
		return "is too long"
	case "datetime":
		return "must use the YYYY-MM-DD format"
	default:
		return "is invalid"
	}
}
