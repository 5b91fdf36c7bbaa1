package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"repeater-test-service/internal/app"
	"repeater-test-service/internal/domain"
)

// WebhookHandler accepts form submissions posted by the hosted form provider.
// The provider wraps the answer payload in a single form field named
// rawRequest holding a JSON object; a plain form post without that field is
// treated as the payload itself.
type WebhookHandler struct {
	service *app.ExamService
	logger  *slog.Logger
}

func NewWebhookHandler(service *app.ExamService, logger *slog.Logger) *WebhookHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebhookHandler{service: service, logger: logger}
}

type gradedResponse struct {
	ParticipantID  string `json:"participantId"`
	InstanceID     string `json:"instanceId"`
	PartOnePercent int    `json:"partOnePercent"`
	PartTwoPercent int    `json:"partTwoPercent"`
}

func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form body", http.StatusBadRequest)
		return
	}

	fields, err := submissionFields(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.service.HandleSubmission(r.Context(), fields)
	if err != nil {
		h.logger.Warn("submission rejected", "error", err)
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(gradedResponse{
		ParticipantID:  result.ParticipantID,
		InstanceID:     result.InstanceID,
		PartOnePercent: result.PartOnePercent,
		PartTwoPercent: result.PartTwoPercent,
	})
}

// submissionFields flattens the posted form into the string field map the
// grading pipeline consumes. Values inside rawRequest that are themselves
// JSON documents stay as their raw JSON text.
func submissionFields(r *http.Request) (map[string]string, error) {
	raw := r.PostFormValue("rawRequest")
	if raw == "" {
		fields := make(map[string]string, len(r.PostForm))
		for name := range r.PostForm {
			fields[name] = r.PostForm.Get(name)
		}
		return fields, nil
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &wrapped); err != nil {
		return nil, errors.New("rawRequest is not a JSON object")
	}
	fields := make(map[string]string, len(wrapped))
	for name, value := range wrapped {
		var s string
		if err := json.Unmarshal(value, &s); err == nil {
			fields[name] = s
			continue
		}
		fields[name] = string(value)
	}
	return fields, nil
}

func statusFor(err error) int {
	var malformed *domain.MalformedResponseError
	var unsupported *domain.UnsupportedSchemaError
	var unknown *domain.UnknownInstanceError
	switch {
	case errors.As(err, &malformed), errors.As(err, &unsupported):
		return http.StatusBadRequest
	case errors.As(err, &unknown):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrRegistryConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
