package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/honeycarbs/startsmart/internal/domain"
)

type favoriteJob struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Description string `json:"description"`
	RedirectURL string `json:"redirectUrl"`
}

type saveFavoriteRequest struct {
	Job *favoriteJob `json:"job"`
}

type successResponse struct {
	Success bool `json:"success"`
}

func (h *Handler) userID(r *http.Request) (string, error) {
	if h.favorites == nil {
		return "", errUnavailable
	}
	id := strings.TrimSpace(r.Header.Get(UserHeader))
	if id == "" {
		return "", errUnauthorized
	}
	return id, nil
}

func (h *Handler) listFavorites(w http.ResponseWriter, r *http.Request) {
	userID, err := h.userID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	favs, err := h.favorites.List(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, favs)
}

func (h *Handler) saveFavorite(w http.ResponseWriter, r *http.Request) {
	userID, err := h.userID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req saveFavoriteRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.Job == nil || strings.TrimSpace(req.Job.ID) == "" {
		h.writeError(w, r, fmt.Errorf("%w: job data required", domain.ErrInvalidInput))
		return
	}

	err = h.favorites.Save(r.Context(), domain.Favorite{
		UserID:      userID,
		JobID:       strings.TrimSpace(req.Job.ID),
		Title:       req.Job.Title,
		Company:     req.Job.Company,
		Location:    req.Job.Location,
		Description: req.Job.Description,
		RedirectURL: req.Job.RedirectURL,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (h *Handler) deleteFavorite(w http.ResponseWriter, r *http.Request) {
	userID, err := h.userID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.favorites.Delete(r.Context(), userID, r.PathValue("jobId")); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
