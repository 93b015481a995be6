package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/carelinkhq/carelink/internal/alert"
	alertdomain "github.com/carelinkhq/carelink/internal/alert/domain"
	"github.com/carelinkhq/carelink/internal/alert/liveevents"
	"github.com/carelinkhq/carelink/internal/appointment"
	appointmentdomain "github.com/carelinkhq/carelink/internal/appointment/domain"
	"github.com/carelinkhq/carelink/internal/assist"
	assistdomain "github.com/carelinkhq/carelink/internal/assist/domain"
	"github.com/carelinkhq/carelink/internal/audit"
	auditdomain "github.com/carelinkhq/carelink/internal/audit/domain"
	"github.com/carelinkhq/carelink/internal/authorization"
	"github.com/carelinkhq/carelink/internal/chat"
	chatdomain "github.com/carelinkhq/carelink/internal/chat/domain"
	chatliveevents "github.com/carelinkhq/carelink/internal/chat/liveevents"
	"github.com/carelinkhq/carelink/internal/claim"
	claimdomain "github.com/carelinkhq/carelink/internal/claim/domain"
	"github.com/carelinkhq/carelink/internal/config"
	"github.com/carelinkhq/carelink/internal/doctor"
	doctordomain "github.com/carelinkhq/carelink/internal/doctor/domain"
	"github.com/carelinkhq/carelink/internal/emergency"
	emergencydomain "github.com/carelinkhq/carelink/internal/emergency/domain"
	"github.com/carelinkhq/carelink/internal/fraud"
	frauddomain "github.com/carelinkhq/carelink/internal/fraud/domain"
	"github.com/carelinkhq/carelink/internal/pharmacy"
	pharmacydomain "github.com/carelinkhq/carelink/internal/pharmacy/domain"
	"github.com/carelinkhq/carelink/internal/prescription"
	prescriptiondomain "github.com/carelinkhq/carelink/internal/prescription/domain"
	"github.com/carelinkhq/carelink/internal/providers/email"
	"github.com/carelinkhq/carelink/internal/providers/llm"
	"github.com/carelinkhq/carelink/internal/ratelimit"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	authorization.Module,
	audit.Module,
	alert.Module,
	fraud.Module,
	emergency.Module,
	assist.Module,
	doctor.Module,
	appointment.Module,
	pharmacy.Module,
	prescription.Module,
	claim.Module,
	chat.Module,
	email.Module,
	llm.Module,
	ratelimit.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(log))
	r.Use(MetricsMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger) *gin.Engine {
	return NewEngine(log)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	db              *gorm.DB
	log             *zap.Logger
	genID           *snowflake.Node
	authzSvc        authorization.Service
	auditSvc        auditdomain.Service
	alertSvc        alertdomain.Service
	liveAlertEvents *liveevents.Hub
	fraudSvc        frauddomain.Service
	emergencySvc    emergencydomain.Service
	assistSvc       assistdomain.Service
	doctorSvc       doctordomain.Service
	appointmentSvc  appointmentdomain.Service
	pharmacySvc     pharmacydomain.Service
	prescriptionSvc prescriptiondomain.Service
	claimSvc        claimdomain.Service
	chatSvc         chatdomain.Service
	liveChatEvents  *chatliveevents.Hub
	sosLimiter      *ratelimit.SOSLimiter
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	DB              *gorm.DB
	Log             *zap.Logger
	GenID           *snowflake.Node
	AuthzSvc        authorization.Service
	AuditSvc        auditdomain.Service
	AlertSvc        alertdomain.Service
	LiveAlertEvents *liveevents.Hub            `optional:"true"`
	FraudSvc        frauddomain.Service
	EmergencySvc    emergencydomain.Service
	AssistSvc       assistdomain.Service
	DoctorSvc       doctordomain.Service
	AppointmentSvc  appointmentdomain.Service
	PharmacySvc     pharmacydomain.Service
	PrescriptionSvc prescriptiondomain.Service
	ClaimSvc        claimdomain.Service
	ChatSvc         chatdomain.Service
	LiveChatEvents  *chatliveevents.Hub        `optional:"true"`
	SOSLimiter      *ratelimit.SOSLimiter      `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		db:              p.DB,
		log:             p.Log.Named("server"),
		genID:           p.GenID,
		authzSvc:        p.AuthzSvc,
		auditSvc:        p.AuditSvc,
		alertSvc:        p.AlertSvc,
		liveAlertEvents: p.LiveAlertEvents,
		fraudSvc:        p.FraudSvc,
		emergencySvc:    p.EmergencySvc,
		assistSvc:       p.AssistSvc,
		doctorSvc:       p.DoctorSvc,
		appointmentSvc:  p.AppointmentSvc,
		pharmacySvc:     p.PharmacySvc,
		prescriptionSvc: p.PrescriptionSvc,
		claimSvc:        p.ClaimSvc,
		chatSvc:         p.ChatSvc,
		liveChatEvents:  p.LiveChatEvents,
		sosLimiter:      p.SOSLimiter,
	}

	svc.registerAPIRoutes()
	svc.registerAdminRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api", s.IdentityRequired())

	// -------- Emergency --------
	api.POST("/sos", s.SOSRateLimit(), s.TriggerSOS)
	api.GET("/emergency-contacts", s.ListEmergencyContacts)
	api.POST("/emergency-contacts", s.AddEmergencyContact)
	api.DELETE("/emergency-contacts/:id", s.RemoveEmergencyContact)

	// -------- Doctors --------
	api.GET("/doctors", s.ListDoctors)
	api.GET("/doctors/:slug", s.GetDoctorBySlug)

	// -------- Appointments --------
	api.GET("/appointments", s.ListAppointments)
	api.POST("/appointments", s.BookAppointment)
	api.POST("/appointments/:id/cancel", s.CancelAppointment)
	api.POST("/appointments/:id/complete",
		s.authorizeAction(authorization.ObjectAppointment, authorization.ActionComplete),
		s.CompleteAppointment)

	// -------- Pharmacy --------
	api.GET("/medicines", s.ListMedicines)
	api.GET("/medicines/:id", s.GetMedicine)
	api.GET("/cart", s.GetCart)
	api.POST("/cart", s.AddToCart)
	api.PUT("/cart/:medicineId", s.SetCartQuantity)
	api.DELETE("/cart", s.ClearCart)
	api.POST("/checkout", s.Checkout)
	api.GET("/orders", s.ListOrders)
	api.GET("/orders/:id", s.GetOrder)

	// -------- Prescriptions --------
	api.GET("/prescriptions", s.ListPrescriptions)
	api.POST("/prescriptions", s.CreatePrescription)
	api.GET("/prescriptions/:id", s.GetPrescription)
	api.POST("/prescriptions/:id/fraud-check", s.CheckPrescriptionFraud)

	// -------- Claims --------
	api.GET("/claims", s.ListClaims)
	api.POST("/claims", s.CreateClaim)
	api.GET("/claims/:id", s.GetClaim)
	api.POST("/claims/:id/fraud-check", s.CheckClaimFraud)

	// -------- Chat --------
	api.GET("/conversations", s.ListConversations)
	api.POST("/conversations", s.StartConversation)
	api.GET("/conversations/:id/messages", s.ListMessages)
	api.POST("/conversations/:id/messages", s.SendMessage)
	api.GET("/conversations/:id/live", s.StreamConversation)

	// -------- Assist --------
	api.POST("/assist/symptom-check", s.SymptomCheck)
	api.POST("/assist/read-prescription", s.ReadPrescription)
	api.POST("/assist/summarize-record", s.SummarizeRecord)
	api.POST("/assist/predict-risks", s.PredictRisks)
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/admin", s.IdentityRequired())

	// -------- Alert dashboards --------
	// Authorization is per kind (operator for sos, reviewer for fraud),
	// so the guard runs inside the handlers.
	admin.GET("/alerts/:kind", s.ListAlerts)
	admin.GET("/alerts/:kind/live", s.StreamAlerts)
	admin.GET("/alerts/:kind/:id", s.GetAlert)
	admin.POST("/alerts/:kind/:id/transition", s.TransitionAlert)

	// -------- Catalog management --------
	admin.POST("/doctors",
		s.authorizeAction(authorization.ObjectDoctor, authorization.ActionCreate),
		s.CreateDoctor)
	admin.POST("/medicines",
		s.authorizeAction(authorization.ObjectMedicine, authorization.ActionCreate),
		s.CreateMedicine)
	admin.POST("/orders/:id/transition",
		s.authorizeAction(authorization.ObjectOrder, authorization.ActionTransition),
		s.TransitionOrder)

	// -------- Audit --------
	admin.GET("/audit-logs",
		s.authorizeAction(authorization.ObjectAuditLog, authorization.ActionView),
		s.ListAuditLogs)
}
