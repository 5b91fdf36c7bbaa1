package http

import (
	"encoding/json"
	"net/http"

	"repeater-test-service/internal/app"
)

// RegistryHandler exposes the participant registry to admin tooling.
type RegistryHandler struct {
	service *app.ExamService
}

func NewRegistryHandler(service *app.ExamService) *RegistryHandler {
	return &RegistryHandler{service: service}
}

func (h *RegistryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	reg, err := h.service.Registry(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(reg)
}
