package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repeater-test-service/internal/app"
	"repeater-test-service/internal/domain"
	"repeater-test-service/internal/grading"
	"repeater-test-service/internal/infra/memory"
)

func newTestService(t *testing.T) *app.ExamService {
	t.Helper()
	catalog, err := domain.NewCatalog(
		[]string{"BOWMAN", "DONNER", "KREGG", "SLIDE"},
		[]string{"Penner Lake"},
	)
	require.NoError(t, err)

	keys := memory.NewSolutionKeys(domain.SolutionSet{
		"2200": {"BOWMAN": "A", "DONNER": "B", "KREGG": "C", "SLIDE": "D"},
	})
	scenarios := domain.ScenarioSolutionSet{
		"Penner Lake": {
			Required: []string{"BOWMAN"},
			Optional: []string{"DONNER"},
			Unlikely: []string{"SLIDE"},
		},
	}
	return app.NewExamService(catalog, grading.DefaultPolicy(), scenarios,
		keys, memory.NewRegistryStore(), app.Options{
			Audit:  memory.NewAuditLog(),
			Mailer: memory.NewMailer(),
		})
}

func postWebhook(t *testing.T, handler http.Handler, rawRequest string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"rawRequest": {rawRequest}}
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestWebhookGradesSubmission(t *testing.T) {
	service := newTestService(t)
	handler := NewWebhookHandler(service, nil)

	payload := map[string]string{
		"q1_participantId": "101",
		"q2_mapId":         "2200",
		"q3_partOne":       `[{"0":"A"},{"1":"B"},{"2":"C"},{"3":"D"}]`,
		"q4_partTwo":       `[["BOWMAN","DONNER"]]`,
	}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	rec := postWebhook(t, handler, string(raw))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp gradedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "101", resp.ParticipantID)
	assert.Equal(t, "2200", resp.InstanceID)
	assert.Equal(t, 100, resp.PartOnePercent)
	// Required hit plus one optional bonus over a 10 point scenario.
	assert.Equal(t, 110, resp.PartTwoPercent)

	reg, err := service.Registry(context.Background())
	require.NoError(t, err)
	rec2, ok := reg.Get("101")
	require.True(t, ok)
	require.NotNil(t, rec2.Report)
	assert.Equal(t, 100, rec2.Report.PartOnePercent)
}

func TestWebhookRejectsMissingParticipant(t *testing.T) {
	handler := NewWebhookHandler(newTestService(t), nil)

	raw, _ := json.Marshal(map[string]string{
		"q2_mapId":   "2200",
		"q3_partOne": `[{"0":"A"}]`,
		"q4_partTwo": `[["BOWMAN"]]`,
	})
	rec := postWebhook(t, handler, string(raw))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhookUnknownInstanceIs404(t *testing.T) {
	handler := NewWebhookHandler(newTestService(t), nil)

	raw, _ := json.Marshal(map[string]string{
		"q1_participantId": "101",
		"q2_mapId":         "9999",
		"q3_partOne":       `[{"0":"A"}]`,
		"q4_partTwo":       `[["BOWMAN"]]`,
	})
	rec := postWebhook(t, handler, string(raw))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWebhookRejectsNonJSONRawRequest(t *testing.T) {
	handler := NewWebhookHandler(newTestService(t), nil)
	rec := postWebhook(t, handler, "not json at all")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhookAcceptsBareFormPost(t *testing.T) {
	handler := NewWebhookHandler(newTestService(t), nil)

	form := url.Values{
		"participantId": {"101"},
		"mapId":         {"2200"},
		"partOne":       {`[{"0":"A"},{"1":"B"},{"2":"C"},{"3":"D"}]`},
		"partTwo":       {`[["BOWMAN"]]`},
	}
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestRequireAPIKey(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	guarded := RequireAPIKey("secret", next)

	req := httptest.NewRequest(http.MethodGet, "/registry", nil)
	rec := httptest.NewRecorder()
	guarded.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/registry", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	guarded.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/registry", nil)
	req.Header.Set("X-API-Key", "secret")
	rec = httptest.NewRecorder()
	guarded.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// An empty configured key disables the check.
	open := RequireAPIKey("", next)
	req = httptest.NewRequest(http.MethodGet, "/registry", nil)
	rec = httptest.NewRecorder()
	open.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRegistryHandlerReturnsSnapshot(t *testing.T) {
	service := newTestService(t)
	handler := NewWebhookHandler(service, nil)

	raw, _ := json.Marshal(map[string]string{
		"q1_participantId": "101",
		"q2_mapId":         "2200",
		"q3_partOne":       `[{"0":"A"}]`,
		"q4_partTwo":       `[["BOWMAN"]]`,
	})
	require.Equal(t, http.StatusOK, postWebhook(t, handler, string(raw)).Code)

	regHandler := NewRegistryHandler(service)
	request := httptest.NewRequest(http.MethodGet, "/registry", nil)
	rec := httptest.NewRecorder()
	regHandler.ServeHTTP(rec, request)
	require.Equal(t, http.StatusOK, rec.Code)

	var reg domain.Registry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reg))
	_, ok := reg.Participants["101"]
	assert.True(t, ok)
}
