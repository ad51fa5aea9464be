package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	businessdomain "github.com/smallbiznis/gstbilling/internal/business/domain"
	customerdomain "github.com/smallbiznis/gstbilling/internal/customer/domain"
	dashboarddomain "github.com/smallbiznis/gstbilling/internal/dashboard/domain"
	invoicedomain "github.com/smallbiznis/gstbilling/internal/invoice/domain"
	"github.com/smallbiznis/gstbilling/internal/invoice/lock"
	productdomain "github.com/smallbiznis/gstbilling/internal/product/domain"
	referencedomain "github.com/smallbiznis/gstbilling/internal/reference/domain"
	"github.com/smallbiznis/gstbilling/internal/tax"
	"github.com/smallbiznis/gstbilling/pkg/db"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrConflict       = errors.New("conflict")
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

// bindError turns a binding failure into a field-level validation error when
// the validator produced one, and a generic invalid request otherwise.
func bindError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return invalidRequestError()
	}

	out := &ValidationErrors{}
	for _, fe := range fieldErrs {
		field := toSnake(fe.Field())
		out.Errors = append(out.Errors, ValidationError{
			Field:   field,
			Code:    "invalid_" + field,
			Message: fmt.Sprintf("failed %s validation", fe.Tag()),
		})
	}
	return out
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	var lineErr *tax.LineError
	if errors.As(err, &lineErr) {
		code := validationErrorCode(lineErr.Err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   fmt.Sprintf("lines[%d].%s", lineErr.Index, validationErrorField(code)),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	switch {
	case errors.Is(err, ErrConflict),
		errors.Is(err, lock.ErrLockTimeout),
		db.IsDuplicateKeyErr(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

// classifyErrorForLog reports the response type and code for request logs.
func classifyErrorForLog(err error) (string, string) {
	_, payload := mapError(err)
	if len(payload.Errors) > 0 {
		return payload.Type, payload.Errors[0].Code
	}
	return payload.Type, payload.Type
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, referencedomain.ErrInvalidGSTIN),
		errors.Is(err, referencedomain.ErrUnknownState):
		return true
	case isTaxValidationError(err),
		isBusinessValidationError(err),
		isCustomerValidationError(err),
		isProductValidationError(err),
		isInvoiceValidationError(err),
		isDashboardValidationError(err):
		return true
	default:
		return false
	}
}

func isTaxValidationError(err error) bool {
	switch {
	case errors.Is(err, tax.ErrInvalidQuantity),
		errors.Is(err, tax.ErrInvalidRate),
		errors.Is(err, tax.ErrInvalidDiscount),
		errors.Is(err, tax.ErrInvalidTaxRate),
		errors.Is(err, tax.ErrInvalidRateMode),
		errors.Is(err, tax.ErrInvalidRegime),
		errors.Is(err, tax.ErrLineIndex):
		return true
	default:
		return false
	}
}

func isBusinessValidationError(err error) bool {
	switch {
	case errors.Is(err, businessdomain.ErrInvalidLegalName),
		errors.Is(err, businessdomain.ErrInvalidGSTIN),
		errors.Is(err, businessdomain.ErrInvalidPAN),
		errors.Is(err, businessdomain.ErrInvalidStateCode),
		errors.Is(err, businessdomain.ErrInvalidEmail),
		errors.Is(err, businessdomain.ErrInvalidImport):
		return true
	default:
		return false
	}
}

func isCustomerValidationError(err error) bool {
	switch {
	case errors.Is(err, customerdomain.ErrInvalidName),
		errors.Is(err, customerdomain.ErrInvalidEmail),
		errors.Is(err, customerdomain.ErrInvalidGSTIN),
		errors.Is(err, customerdomain.ErrInvalidStateCode),
		errors.Is(err, customerdomain.ErrInvalidID):
		return true
	default:
		return false
	}
}

func isProductValidationError(err error) bool {
	switch {
	case errors.Is(err, productdomain.ErrInvalidName),
		errors.Is(err, productdomain.ErrInvalidID),
		errors.Is(err, productdomain.ErrInvalidRate),
		errors.Is(err, productdomain.ErrInvalidGSTPercent):
		return true
	default:
		return false
	}
}

func isInvoiceValidationError(err error) bool {
	switch {
	case errors.Is(err, invoicedomain.ErrInvalidID),
		errors.Is(err, invoicedomain.ErrInvalidCustomer),
		errors.Is(err, invoicedomain.ErrInvalidProduct),
		errors.Is(err, invoicedomain.ErrInvalidLines),
		errors.Is(err, invoicedomain.ErrInvalidProductName),
		errors.Is(err, invoicedomain.ErrInvalidPaymentStatus),
		errors.Is(err, invoicedomain.ErrInvalidPaidAmount):
		return true
	default:
		return false
	}
}

func isDashboardValidationError(err error) bool {
	return errors.Is(err, dashboarddomain.ErrInvalidRange) ||
		errors.Is(err, dashboarddomain.ErrInvalidDate)
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, businessdomain.ErrNotFound),
		errors.Is(err, customerdomain.ErrNotFound),
		errors.Is(err, productdomain.ErrNotFound),
		errors.Is(err, invoicedomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	default:
		return err.Error()
	}
}

func validationErrorField(code string) string {
	if code == "invalid_request" {
		return "request"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	default:
		return "invalid value"
	}
}

func toSnake(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
