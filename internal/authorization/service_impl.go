package authorization

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	auditdomain "github.com/carelinkhq/carelink/internal/audit/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed model.conf
var modelText string

type Params struct {
	fx.In

	Log      *zap.Logger
	Enforcer *casbin.SyncedEnforcer
	AuditSvc auditdomain.Service `optional:"true"`
}

type ServiceImpl struct {
	log      *zap.Logger
	enforcer *casbin.SyncedEnforcer
	auditSvc auditdomain.Service
}

func NewEnforcer(db *gorm.DB) (*casbin.SyncedEnforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}
	enforcer.EnableAutoSave(true)
	enforcer.EnableAutoBuildRoleLinks(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}
	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	enforcer.BuildRoleLinks()
	return enforcer, nil
}

func NewService(p Params) Service {
	return &ServiceImpl{
		log:      p.Log.Named("authorization.service"),
		enforcer: p.Enforcer,
		auditSvc: p.AuditSvc,
	}
}

func (s *ServiceImpl) Authorize(ctx context.Context, userID, role, object, action string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ErrInvalidActor
	}
	role = strings.ToLower(strings.TrimSpace(role))
	if !ValidRole(role) {
		return ErrInvalidRole
	}
	object = strings.TrimSpace(object)
	action = strings.TrimSpace(action)
	if object == "" || action == "" {
		return ErrForbidden
	}

	subject := fmt.Sprintf("user:%s", userID)
	roleName := fmt.Sprintf("role:%s", role)
	if err := s.ensureGrouping(subject, roleName); err != nil {
		return err
	}

	allowed, err := s.enforcer.Enforce(subject, object, action)
	if err != nil {
		return err
	}
	if !allowed {
		s.auditDenied(ctx, userID, role, object, action)
		return ErrForbidden
	}
	return nil
}

// ensureGrouping keeps the subject bound to exactly the role the trusted
// header carries; a role change upstream replaces the old binding.
func (s *ServiceImpl) ensureGrouping(subject, roleName string) error {
	existing, err := s.enforcer.GetFilteredGroupingPolicy(0, subject)
	if err != nil {
		return err
	}
	for _, rule := range existing {
		if len(rule) < 2 || rule[1] == roleName {
			continue
		}
		params := make([]interface{}, 0, len(rule))
		for _, value := range rule {
			params = append(params, value)
		}
		_, _ = s.enforcer.RemoveGroupingPolicy(params...)
	}

	has, err := s.enforcer.HasGroupingPolicy(subject, roleName)
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	_, err = s.enforcer.AddGroupingPolicy(subject, roleName)
	return err
}

func (s *ServiceImpl) auditDenied(ctx context.Context, userID, role, object, action string) {
	if s.auditSvc == nil {
		return
	}
	_ = s.auditSvc.Record(ctx, userID, "authorization.denied", "authorization", object, map[string]any{
		"role":   role,
		"action": action,
	})
}

func seedPolicies(enforcer *casbin.SyncedEnforcer) error {
	policies := [][]string{
		// Operators run the SOS dashboard.
		{"role:operator", ObjectSOSAlert, ActionView},
		{"role:operator", ObjectSOSAlert, ActionTransition},

		// Reviewers run the fraud dashboard.
		{"role:reviewer", ObjectFraudAlert, ActionView},
		{"role:reviewer", ObjectFraudAlert, ActionTransition},

		// Admins get both dashboards plus catalog and ops surfaces.
		{"role:admin", ObjectSOSAlert, ActionView},
		{"role:admin", ObjectSOSAlert, ActionTransition},
		{"role:admin", ObjectFraudAlert, ActionView},
		{"role:admin", ObjectFraudAlert, ActionTransition},
		{"role:admin", ObjectDoctor, ActionCreate},
		{"role:admin", ObjectMedicine, ActionCreate},
		{"role:admin", ObjectOrder, ActionTransition},
		{"role:admin", ObjectAuditLog, ActionView},
		{"role:admin", ObjectAppointment, ActionComplete},
	}

	for _, policy := range policies {
		if _, err := enforcer.AddPolicy(policy); err != nil {
			return err
		}
	}
	return nil
}
