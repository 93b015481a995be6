package server

import (
	"strings"
	"time"

	"github.com/carelinkhq/carelink/internal/authorization"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	HeaderUserID    = "X-User-ID"
	HeaderUserRole  = "X-User-Role"
	HeaderRequestID = "X-Request-ID"

	contextUserIDKey   = "user_id"
	contextUserRoleKey = "user_role"
	contextRequestID   = "request_id"
)

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(contextRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	log = log.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetString(contextRequestID)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
			log.Warn("request failed", fields...)
			return
		}
		log.Info("request", fields...)
	}
}

// IdentityRequired trusts the upstream auth proxy: it terminates the
// session and forwards identity as headers. Requests without them never
// reach service code.
func (s *Server) IdentityRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(HeaderUserID))
		if userID == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		role := strings.ToLower(strings.TrimSpace(c.GetHeader(HeaderUserRole)))
		if role == "" {
			role = authorization.RolePatient
		}
		if !authorization.ValidRole(role) {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		c.Set(contextUserIDKey, userID)
		c.Set(contextUserRoleKey, role)
		c.Next()
	}
}

func (s *Server) authorizeAction(object, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.authorize(c, object, action); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}

func (s *Server) authorize(c *gin.Context, object, action string) error {
	err := s.authzSvc.Authorize(
		c.Request.Context(),
		c.GetString(contextUserIDKey),
		c.GetString(contextUserRoleKey),
		object,
		action,
	)
	if err != nil {
		switch err {
		case authorization.ErrForbidden:
			return ErrForbidden
		case authorization.ErrInvalidActor, authorization.ErrInvalidRole:
			return ErrUnauthorized
		default:
			return err
		}
	}
	return nil
}

func (s *Server) SOSRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.sosLimiter.Enabled() {
			c.Next()
			return
		}

		allowed, err := s.sosLimiter.Allow(c.Request.Context(), c.GetString(contextUserIDKey))
		if err != nil {
			// A broken limiter must not block emergencies.
			s.log.Warn("sos rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !allowed {
			AbortWithError(c, ErrTooManyRequests)
			return
		}
		c.Next()
	}
}

func (s *Server) currentUser(c *gin.Context) string {
	return c.GetString(contextUserIDKey)
}
