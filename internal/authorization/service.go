package authorization

import (
	"context"
	"errors"
)

const (
	RolePatient  = "patient"
	RoleOperator = "operator"
	RoleReviewer = "reviewer"
	RoleAdmin    = "admin"
)

const (
	ObjectSOSAlert    = "sos_alert"
	ObjectFraudAlert  = "fraud_alert"
	ObjectDoctor      = "doctor"
	ObjectMedicine    = "medicine"
	ObjectOrder       = "order"
	ObjectAuditLog    = "audit_log"
	ObjectAppointment = "appointment"
)

const (
	ActionView       = "view"
	ActionTransition = "transition"
	ActionCreate     = "create"
	ActionComplete   = "complete"
)

// Service answers "may this role do this action on this object". Identity
// and role arrive from the upstream auth proxy as trusted headers; this
// layer only enforces capability.
type Service interface {
	Authorize(ctx context.Context, userID, role, object, action string) error
}

var (
	ErrInvalidActor = errors.New("invalid_actor")
	ErrInvalidRole  = errors.New("invalid_role")
	ErrForbidden    = errors.New("forbidden")
)

// ValidRole reports whether the role header carries a known role.
func ValidRole(role string) bool {
	switch role {
	case RolePatient, RoleOperator, RoleReviewer, RoleAdmin:
		return true
	default:
		return false
	}
}
