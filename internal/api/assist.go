package api

import (
	"fmt"
	"net/http"

	"github.com/honeycarbs/startsmart/internal/ai"
	"github.com/honeycarbs/startsmart/internal/domain"
)

type assistRequest struct {
	Job     *ai.Job        `json:"job"`
	Profile domain.Profile `json:"profile"`
}

func (h *Handler) decodeAssist(w http.ResponseWriter, r *http.Request) (assistRequest, bool) {
	var req assistRequest
	if h.assistant == nil {
		h.writeError(w, r, ai.ErrUnavailable)
		return req, false
	}
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return req, false
	}
	if req.Job == nil {
		h.writeError(w, r, fmt.Errorf("%w: missing job data", domain.ErrInvalidInput))
		return req, false
	}
	return req, true
}

func (h *Handler) generateCV(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeAssist(w, r)
	if !ok {
		return
	}

	cv, err := h.assistant.CV(r.Context(), *req.Job, req.Profile)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"cv": cv})
}

func (h *Handler) improveChances(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeAssist(w, r)
	if !ok {
		return
	}

	tips, err := h.assistant.Tips(r.Context(), *req.Job, req.Profile)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"tips": tips})
}

func (h *Handler) matchProfile(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeAssist(w, r)
	if !ok {
		return
	}

	est, err := h.assistant.Match(r.Context(), *req.Job, req.Profile)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, est)
}
