package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	apierrors "agriconsole/internal/errors"
	api "agriconsole/pkg/contracts/api/v1"
	"agriconsole/pkg/contracts/domain"
)

// Validator validates dashboard requests using struct tags
type Validator struct {
	validator *validator.Validate
	logger    *slog.Logger
}

// NewValidator creates a validator with the dashboard's custom rules
func NewValidator(logger *slog.Logger) *Validator {
	v := validator.New()

	// Register custom validators
	_ = v.RegisterValidation("daterange_after", isDateOnOrAfter)

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{
		validator: v,
		logger:    logger.With(slog.String("component", "validator")),
	}
}

// ValidateStruct validates a struct and returns validation errors
func (m *Validator) ValidateStruct(v interface{}) error {
	err := m.validator.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return apierrors.InvalidRequestWithError(err)
	}

	validationErrors := make([]apierrors.ValidationError, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		validationErrors = append(validationErrors, apierrors.ValidationError{
			Field:   fe.Field(),
			Message: formatValidationError(fe),
		})
	}
	return apierrors.NewValidationErrors(validationErrors)
}

// DashboardQuery binds and validates the shared filter from the query string
func (m *Validator) DashboardQuery(r *http.Request) (api.DashboardQuery, domain.Filter, error) {
	values := r.URL.Query()
	q := api.DashboardQuery{
		From: values.Get("from"),
		To:   values.Get("to"),
	}

	if raw := values.Get("distributorId"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return q, domain.Filter{}, apierrors.ErrValidation("distributorId", "distributorId must be a valid integer")
		}
		q.DistributorID = &id
	}

	if err := m.ValidateStruct(q); err != nil {
		m.logger.DebugContext(r.Context(), "Rejected dashboard query",
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("query", r.URL.RawQuery),
			slog.String("error", err.Error()))
		return q, domain.Filter{}, err
	}

	filter, err := q.Filter()
	if err != nil {
		return q, domain.Filter{}, apierrors.InvalidDateRange(q.From, q.To, err)
	}
	return q, filter, nil
}

// formatValidationError formats validation error messages
func formatValidationError(err validator.FieldError) string {
	field := err.Field()
	param := err.Param()

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	case "datetime":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field)
	case "daterange_after":
		return fmt.Sprintf("%s must not be before %s", field, strings.ToLower(param))
	default:
		return fmt.Sprintf("%s failed %s validation", field, err.Tag())
	}
}

// Custom validators

// isDateOnOrAfter checks that a YYYY-MM-DD field is not before the named
// sibling field. Unparseable values are left to the datetime rule.
func isDateOnOrAfter(fl validator.FieldLevel) bool {
	other, _, _, ok := fl.GetStructFieldOKAdvanced2(fl.Parent(), fl.Param())
	if !ok {
		return false
	}
	to, err := time.Parse(domain.DateLayout, fl.Field().String())
	if err != nil {
		return true
	}
	from, err := time.Parse(domain.DateLayout, other.String())
	if err != nil {
		return true
	}
	return !to.Before(from)
}
