package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	alertdomain "github.com/carelinkhq/carelink/internal/alert/domain"
	alertliveevents "github.com/carelinkhq/carelink/internal/alert/liveevents"
	alertrepo "github.com/carelinkhq/carelink/internal/alert/repository"
	alertservice "github.com/carelinkhq/carelink/internal/alert/service"
	appointmentdomain "github.com/carelinkhq/carelink/internal/appointment/domain"
	appointmentrepo "github.com/carelinkhq/carelink/internal/appointment/repository"
	appointmentservice "github.com/carelinkhq/carelink/internal/appointment/service"
	assistservice "github.com/carelinkhq/carelink/internal/assist/service"
	auditdomain "github.com/carelinkhq/carelink/internal/audit/domain"
	auditrepo "github.com/carelinkhq/carelink/internal/audit/repository"
	auditservice "github.com/carelinkhq/carelink/internal/audit/service"
	"github.com/carelinkhq/carelink/internal/authorization"
	chatdomain "github.com/carelinkhq/carelink/internal/chat/domain"
	chatliveevents "github.com/carelinkhq/carelink/internal/chat/liveevents"
	chatrepo "github.com/carelinkhq/carelink/internal/chat/repository"
	chatservice "github.com/carelinkhq/carelink/internal/chat/service"
	claimdomain "github.com/carelinkhq/carelink/internal/claim/domain"
	claimrepo "github.com/carelinkhq/carelink/internal/claim/repository"
	claimservice "github.com/carelinkhq/carelink/internal/claim/service"
	"github.com/carelinkhq/carelink/internal/clock"
	"github.com/carelinkhq/carelink/internal/config"
	doctordomain "github.com/carelinkhq/carelink/internal/doctor/domain"
	doctorrepo "github.com/carelinkhq/carelink/internal/doctor/repository"
	doctorservice "github.com/carelinkhq/carelink/internal/doctor/service"
	emergencydomain "github.com/carelinkhq/carelink/internal/emergency/domain"
	emergencyrepo "github.com/carelinkhq/carelink/internal/emergency/repository"
	emergencyservice "github.com/carelinkhq/carelink/internal/emergency/service"
	frauddomain "github.com/carelinkhq/carelink/internal/fraud/domain"
	fraudservice "github.com/carelinkhq/carelink/internal/fraud/service"
	pharmacydomain "github.com/carelinkhq/carelink/internal/pharmacy/domain"
	pharmacyrepo "github.com/carelinkhq/carelink/internal/pharmacy/repository"
	pharmacyservice "github.com/carelinkhq/carelink/internal/pharmacy/service"
	prescriptiondomain "github.com/carelinkhq/carelink/internal/prescription/domain"
	prescriptionrepo "github.com/carelinkhq/carelink/internal/prescription/repository"
	prescriptionservice "github.com/carelinkhq/carelink/internal/prescription/service"
	"github.com/carelinkhq/carelink/internal/providers/email"
	"github.com/carelinkhq/carelink/internal/providers/llm"
	"github.com/carelinkhq/carelink/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type stubScorer struct {
	result frauddomain.ScoreResult
	err    error
}

func (s *stubScorer) Score(ctx context.Context, req frauddomain.AnalyzeRequest) (frauddomain.ScoreResult, error) {
	return s.result, s.err
}

type testServer struct {
	engine *gin.Engine
	clock  *clock.FakeClock
	scorer *stubScorer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:memdb_server_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&alertdomain.Alert{},
		&auditdomain.AuditLog{},
		&emergencydomain.EmergencyContact{},
		&doctordomain.Doctor{},
		&appointmentdomain.Appointment{},
		&pharmacydomain.Medicine{},
		&pharmacydomain.CartItem{},
		&pharmacydomain.Order{},
		&pharmacydomain.OrderItem{},
		&prescriptiondomain.Prescription{},
		&claimdomain.InsuranceClaim{},
		&chatdomain.Conversation{},
		&chatdomain.Message{},
	))

	node, err := snowflake.NewNode(12)
	require.NoError(t, err)
	log := zap.NewNop()
	fake := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	enforcer, err := authorization.NewEnforcer(db)
	require.NoError(t, err)
	authzSvc := authorization.NewService(authorization.Params{Log: log, Enforcer: enforcer})

	auditSvc := auditservice.New(auditservice.Params{
		DB: db, Log: log, GenID: node, Clock: fake, Repo: auditrepo.Provide(),
	})

	alertHub := alertliveevents.NewHub()
	alertSvc := alertservice.New(alertservice.Params{
		DB: db, Log: log, GenID: node, Clock: fake,
		Repo: alertrepo.Provide(), Hub: alertHub, Audit: auditSvc,
	})

	scorer := &stubScorer{}
	fraudSvc := fraudservice.New(fraudservice.Params{Log: log, Scorer: scorer, AlertSvc: alertSvc})

	emergencySvc := emergencyservice.New(emergencyservice.Params{
		DB: db, Log: log, GenID: node, Clock: fake,
		Repo: emergencyrepo.Provide(), AlertSvc: alertSvc, Email: &email.NoOpProvider{},
	})

	assistSvc := assistservice.New(assistservice.Params{Log: log, Provider: &llm.NoOpProvider{}})

	doctorSvc := doctorservice.New(doctorservice.Params{
		DB: db, Log: log, GenID: node, Clock: fake, Repo: doctorrepo.Provide(),
	})
	appointmentSvc := appointmentservice.New(appointmentservice.Params{
		DB: db, Log: log, GenID: node, Clock: fake,
		Repo: appointmentrepo.Provide(), DoctorSvc: doctorSvc, Audit: auditSvc,
	})
	pharmacySvc := pharmacyservice.New(pharmacyservice.Params{
		DB: db, Log: log, GenID: node, Clock: fake,
		Repo: pharmacyrepo.Provide(), Audit: auditSvc,
	})
	prescriptionSvc := prescriptionservice.New(prescriptionservice.Params{
		DB: db, Log: log, GenID: node, Clock: fake,
		Repo: prescriptionrepo.Provide(), FraudSvc: fraudSvc,
	})
	claimSvc := claimservice.New(claimservice.Params{
		DB: db, Log: log, GenID: node, Clock: fake,
		Repo: claimrepo.Provide(), FraudSvc: fraudSvc,
	})

	chatHub := chatliveevents.NewHub()
	chatSvc := chatservice.New(chatservice.Params{
		DB: db, Log: log, GenID: node, Clock: fake,
		Repo: chatrepo.Provide(), Hub: chatHub, DoctorSvc: doctorSvc,
	})

	srv := server.NewServer(server.ServerParams{
		Gin:             server.NewEngine(log),
		Cfg:             config.Config{AppName: "carelink-test"},
		DB:              db,
		Log:             log,
		GenID:           node,
		AuthzSvc:        authzSvc,
		AuditSvc:        auditSvc,
		AlertSvc:        alertSvc,
		LiveAlertEvents: alertHub,
		FraudSvc:        fraudSvc,
		EmergencySvc:    emergencySvc,
		AssistSvc:       assistSvc,
		DoctorSvc:       doctorSvc,
		AppointmentSvc:  appointmentSvc,
		PharmacySvc:     pharmacySvc,
		PrescriptionSvc: prescriptionSvc,
		ClaimSvc:        claimSvc,
		ChatSvc:         chatSvc,
		LiveChatEvents:  chatHub,
	})

	return &testServer{engine: srv.Engine(), clock: fake, scorer: scorer}
}

func (ts *testServer) do(t *testing.T, method, path, userID, role string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(server.HeaderUserID, userID)
	}
	if role != "" {
		req.Header.Set(server.HeaderUserRole, role)
	}

	rec := httptest.NewRecorder()
	ts.engine.ServeHTTP(rec, req)
	return rec
}

func dataField(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Data
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/health", "", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIdentityRequired(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/doctors", "", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/doctors", "patient-1", "superuser", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/doctors", "patient-1", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTriggerSOSEndpoint(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/sos", "patient-1", "patient", map[string]any{
		"latitude": -6.2, "longitude": 106.8,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	data := dataField(t, rec)
	assert.Equal(t, "new", data["status"])
	assert.Equal(t, "sos", data["kind"])
	assert.Equal(t, "patient-1", data["subject_id"])
}

func TestTriggerSOSMissingCoordinates(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/sos", "patient-1", "patient", map[string]any{
		"latitude": -6.2,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Error struct {
			Type   string `json:"type"`
			Errors []struct {
				Field string `json:"field"`
				Code  string `json:"code"`
			} `json:"errors"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "validation_error", body.Error.Type)
	require.Len(t, body.Error.Errors, 1)
	assert.Equal(t, "invalid_coordinates", body.Error.Errors[0].Code)
}

func TestAlertDashboardAuthorization(t *testing.T) {
	ts := newTestServer(t)

	// Patients never see the dashboards.
	rec := ts.do(t, http.MethodGet, "/admin/alerts/sos", "patient-1", "patient", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Operators see sos but not fraud.
	rec = ts.do(t, http.MethodGet, "/admin/alerts/sos", "operator-1", "operator", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = ts.do(t, http.MethodGet, "/admin/alerts/fraud_claim", "operator-1", "operator", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Reviewers the other way around.
	rec = ts.do(t, http.MethodGet, "/admin/alerts/fraud_claim", "reviewer-1", "reviewer", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = ts.do(t, http.MethodGet, "/admin/alerts/sos", "reviewer-1", "reviewer", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(t, http.MethodGet, "/admin/alerts/bogus", "operator-1", "operator", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAlertTransitionEndpoint(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/sos", "patient-1", "patient", map[string]any{
		"latitude": 1.0, "longitude": 2.0,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	alertID := dataField(t, rec)["id"].(string)

	// The sos gate does not cover fraud kinds, and vice versa.
	rec = ts.do(t, http.MethodGet, "/admin/alerts/fraud_claim/"+alertID, "admin-1", "admin", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	path := "/admin/alerts/sos/" + alertID + "/transition"
	rec = ts.do(t, http.MethodPost, path, "operator-1", "operator", map[string]any{
		"status": "acknowledged", "reviewer_notes": "unit dispatched",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	data := dataField(t, rec)
	assert.Equal(t, "acknowledged", data["status"])
	assert.Equal(t, "unit dispatched", data["reviewer_notes"])

	// Replays of the same transition conflict.
	rec = ts.do(t, http.MethodPost, path, "operator-1", "operator", map[string]any{
		"status": "acknowledged",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.do(t, http.MethodPost, path, "patient-1", "patient", map[string]any{
		"status": "resolved",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminCatalogEndpoints(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/admin/doctors", "patient-1", "patient", map[string]any{
		"name": "Dr. Sari", "specialty": "Cardiology",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(t, http.MethodPost, "/admin/doctors", "admin-1", "admin", map[string]any{
		"name": "Dr. Sari", "specialty": "Cardiology",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	slug := dataField(t, rec)["slug"].(string)

	rec = ts.do(t, http.MethodGet, "/api/doctors/"+slug, "patient-1", "patient", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Duplicate names conflict on the slug.
	rec = ts.do(t, http.MethodPost, "/admin/doctors", "admin-1", "admin", map[string]any{
		"name": "Dr. Sari", "specialty": "Neurology",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAssistUnavailable(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/assist/symptom-check", "patient-1", "patient", map[string]any{
		"symptoms": "headache",
	})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestFraudCheckEndpointCreatesAlert(t *testing.T) {
	ts := newTestServer(t)
	ts.scorer.result = frauddomain.ScoreResult{
		IsSuspicious:   true,
		SuspicionScore: 0.95,
		Reasoning:      "unusually large claim",
		Confidence:     alertdomain.ConfidenceHigh,
	}

	rec := ts.do(t, http.MethodPost, "/api/claims", "patient-1", "patient", map[string]any{
		"amount_cents": 980000,
		"claim_date":   "2025-05-20T00:00:00Z",
		"description":  "surgery",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	claimID := dataField(t, rec)["id"].(string)

	rec = ts.do(t, http.MethodPost, "/api/claims/"+claimID+"/fraud-check", "patient-1", "patient", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data frauddomain.AnalyzeResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Data.Result.IsSuspicious)
	require.NotEmpty(t, body.Data.AlertID)

	// The created alert lands on the fraud dashboard.
	rec = ts.do(t, http.MethodGet, "/admin/alerts/fraud_claim/"+body.Data.AlertID, "reviewer-1", "reviewer", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Other patients cannot probe the claim.
	rec = ts.do(t, http.MethodPost, "/api/claims/"+claimID+"/fraud-check", "patient-2", "patient", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAuditLogEndpoint(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/sos", "patient-1", "patient", map[string]any{
		"latitude": 1.0, "longitude": 2.0,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	alertID := dataField(t, rec)["id"].(string)

	rec = ts.do(t, http.MethodPost, "/admin/alerts/sos/"+alertID+"/transition", "operator-1", "operator", map[string]any{
		"status": "resolved",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/admin/audit-logs?action=alert.transition", "operator-1", "operator", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(t, http.MethodGet, "/admin/audit-logs?action=alert.transition", "admin-1", "admin", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data auditdomain.ListAuditLogResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data.AuditLogs, 1)
	assert.Equal(t, "operator-1", body.Data.AuditLogs[0].ActorID)
	assert.Equal(t, alertID, body.Data.AuditLogs[0].TargetID)
}
