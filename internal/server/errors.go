package server

import (
	"errors"
	"net/http"
	"strings"

	alertdomain "github.com/carelinkhq/carelink/internal/alert/domain"
	appointmentdomain "github.com/carelinkhq/carelink/internal/appointment/domain"
	assistdomain "github.com/carelinkhq/carelink/internal/assist/domain"
	auditdomain "github.com/carelinkhq/carelink/internal/audit/domain"
	chatdomain "github.com/carelinkhq/carelink/internal/chat/domain"
	claimdomain "github.com/carelinkhq/carelink/internal/claim/domain"
	doctordomain "github.com/carelinkhq/carelink/internal/doctor/domain"
	emergencydomain "github.com/carelinkhq/carelink/internal/emergency/domain"
	frauddomain "github.com/carelinkhq/carelink/internal/fraud/domain"
	pharmacydomain "github.com/carelinkhq/carelink/internal/pharmacy/domain"
	prescriptiondomain "github.com/carelinkhq/carelink/internal/prescription/domain"
	"github.com/gin-gonic/gin"
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
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
	ErrInternal           = errors.New("internal_error")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrTooManyRequests    = errors.New("too_many_requests")
	ErrServiceUnavailable = errors.New("service_unavailable")
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
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, ErrForbidden),
		errors.Is(err, chatdomain.ErrNotParticipant):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: conflictMessage(err),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ErrTooManyRequests):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "too_many_requests",
			Message: "too many requests",
		}
	case errors.Is(err, ErrServiceUnavailable),
		errors.Is(err, assistdomain.ErrUnavailable):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: "service unavailable",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
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
	case errors.Is(err, ErrInvalidRequest):
		return true
	case isAlertValidationError(err),
		isEmergencyValidationError(err),
		isFraudValidationError(err),
		isAppointmentValidationError(err),
		isPharmacyValidationError(err),
		isPrescriptionValidationError(err),
		isClaimValidationError(err),
		isChatValidationError(err),
		isDoctorValidationError(err),
		isAuditValidationError(err),
		errors.Is(err, assistdomain.ErrInvalidInput):
		return true
	default:
		return false
	}
}

func isAlertValidationError(err error) bool {
	switch {
	case errors.Is(err, alertdomain.ErrInvalidSubject),
		errors.Is(err, alertdomain.ErrInvalidKind),
		errors.Is(err, alertdomain.ErrInvalidPayload),
		errors.Is(err, alertdomain.ErrInvalidCoordinates),
		errors.Is(err, alertdomain.ErrInvalidReference),
		errors.Is(err, alertdomain.ErrInvalidScore),
		errors.Is(err, alertdomain.ErrInvalidConfidence),
		errors.Is(err, alertdomain.ErrInvalidID):
		return true
	default:
		return false
	}
}

func isEmergencyValidationError(err error) bool {
	switch {
	case errors.Is(err, emergencydomain.ErrInvalidUser),
		errors.Is(err, emergencydomain.ErrInvalidName),
		errors.Is(err, emergencydomain.ErrInvalidPhone),
		errors.Is(err, emergencydomain.ErrInvalidID):
		return true
	default:
		return false
	}
}

func isFraudValidationError(err error) bool {
	switch {
	case errors.Is(err, frauddomain.ErrInvalidAnalysisType),
		errors.Is(err, frauddomain.ErrInvalidClaim),
		errors.Is(err, frauddomain.ErrInvalidPrescription):
		return true
	default:
		return false
	}
}

func isAppointmentValidationError(err error) bool {
	switch {
	case errors.Is(err, appointmentdomain.ErrInvalidPatient),
		errors.Is(err, appointmentdomain.ErrInvalidDoctor),
		errors.Is(err, appointmentdomain.ErrInvalidStart),
		errors.Is(err, appointmentdomain.ErrInvalidDuration),
		errors.Is(err, appointmentdomain.ErrInvalidID):
		return true
	default:
		return false
	}
}

func isPharmacyValidationError(err error) bool {
	switch {
	case errors.Is(err, pharmacydomain.ErrInvalidUser),
		errors.Is(err, pharmacydomain.ErrInvalidName),
		errors.Is(err, pharmacydomain.ErrInvalidPrice),
		errors.Is(err, pharmacydomain.ErrInvalidQuantity),
		errors.Is(err, pharmacydomain.ErrInvalidID),
		errors.Is(err, pharmacydomain.ErrEmptyCart):
		return true
	default:
		return false
	}
}

func isPrescriptionValidationError(err error) bool {
	switch {
	case errors.Is(err, prescriptiondomain.ErrInvalidPatient),
		errors.Is(err, prescriptiondomain.ErrInvalidDoctor),
		errors.Is(err, prescriptiondomain.ErrInvalidMedication),
		errors.Is(err, prescriptiondomain.ErrInvalidQuantity),
		errors.Is(err, prescriptiondomain.ErrInvalidID):
		return true
	default:
		return false
	}
}

func isClaimValidationError(err error) bool {
	switch {
	case errors.Is(err, claimdomain.ErrInvalidPatient),
		errors.Is(err, claimdomain.ErrInvalidAmount),
		errors.Is(err, claimdomain.ErrInvalidDate):
		return true
	default:
		return false
	}
}

func isChatValidationError(err error) bool {
	switch {
	case errors.Is(err, chatdomain.ErrInvalidUser),
		errors.Is(err, chatdomain.ErrInvalidDoctor),
		errors.Is(err, chatdomain.ErrInvalidBody):
		return true
	default:
		return false
	}
}

func isDoctorValidationError(err error) bool {
	switch {
	case errors.Is(err, doctordomain.ErrInvalidName),
		errors.Is(err, doctordomain.ErrInvalidSpecialty):
		return true
	default:
		return false
	}
}

func isAuditValidationError(err error) bool {
	switch {
	case errors.Is(err, auditdomain.ErrInvalidAction),
		errors.Is(err, auditdomain.ErrInvalidTimeRange),
		errors.Is(err, auditdomain.ErrInvalidPageToken):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, ErrConflict),
		errors.Is(err, alertdomain.ErrInvalidTransition),
		errors.Is(err, appointmentdomain.ErrInvalidTransition),
		errors.Is(err, appointmentdomain.ErrSlotTaken),
		errors.Is(err, pharmacydomain.ErrInvalidTransition),
		errors.Is(err, pharmacydomain.ErrMedicineTaken),
		errors.Is(err, prescriptiondomain.ErrInvalidTransition),
		errors.Is(err, doctordomain.ErrSlugTaken):
		return true
	default:
		return false
	}
}

func conflictMessage(err error) string {
	switch {
	case errors.Is(err, alertdomain.ErrInvalidTransition),
		errors.Is(err, appointmentdomain.ErrInvalidTransition),
		errors.Is(err, pharmacydomain.ErrInvalidTransition),
		errors.Is(err, prescriptiondomain.ErrInvalidTransition):
		return "invalid transition"
	case errors.Is(err, appointmentdomain.ErrSlotTaken):
		return "slot taken"
	default:
		return "conflict"
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, alertdomain.ErrNotFound),
		errors.Is(err, emergencydomain.ErrNotFound),
		errors.Is(err, doctordomain.ErrNotFound),
		errors.Is(err, appointmentdomain.ErrNotFound),
		errors.Is(err, pharmacydomain.ErrNotFound),
		errors.Is(err, prescriptiondomain.ErrNotFound),
		errors.Is(err, claimdomain.ErrNotFound),
		errors.Is(err, chatdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	if errors.Is(err, ErrInvalidRequest) {
		return "invalid_request"
	}
	return err.Error()
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
