package api

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/honeycarbs/startsmart/internal/domain"
)

// sort orders accepted by GET /api/jobs
const (
	sortNewest = "newest"
	sortOldest = "oldest"
	sortMatch  = "match"
)

func (h *Handler) listJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	skills := queryList(r, "skills")

	if id := strings.TrimSpace(q.Get("id")); id != "" {
		h.lookup(w, r, id, skills)
		return
	}

	page := 1
	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			h.writeError(w, r, fmt.Errorf("%w: page must be a positive integer", domain.ErrInvalidInput))
			return
		}
		page = n
	}

	order := strings.ToLower(q.Get("sort"))
	switch order {
	case "", sortNewest, sortOldest, sortMatch:
	default:
		h.writeError(w, r, fmt.Errorf("%w: sort must be newest, oldest or match", domain.ErrInvalidInput))
		return
	}

	postings, err := h.jobs.Search(r.Context(), domain.SearchQuery{
		Country:  q.Get("country"),
		Text:     q.Get("what"),
		Location: q.Get("location"),
		Skills:   skills,
		Page:     page,
		ClientIP: clientIP(r),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	sortPostings(postings, order)
	writeJSON(w, http.StatusOK, postings)
}

func (h *Handler) getJob(w http.ResponseWriter, r *http.Request) {
	h.lookup(w, r, r.PathValue("id"), queryList(r, "skills"))
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request, id string, skills []string) {
	p, err := h.jobs.Lookup(r.Context(), id, skills)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type createJobResponse struct {
	ID string `json:"id"`
}

func (h *Handler) createJob(w http.ResponseWriter, r *http.Request) {
	var in domain.NewPosting
	if err := decodeBody(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}

	id, err := h.jobs.Publish(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createJobResponse{ID: id})
}

func (h *Handler) recommendations(w http.ResponseWriter, r *http.Request) {
	postings, err := h.jobs.Recommend(r.Context(), queryList(r, "skills"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, postings)
}

type geoIPResponse struct {
	CountryCode string `json:"country_code"`
}

func (h *Handler) geoIP(w http.ResponseWriter, r *http.Request) {
	if h.locator == nil {
		h.writeError(w, r, errUnavailable)
		return
	}

	code, err := h.locator.Locate(r.Context(), clientIP(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, geoIPResponse{CountryCode: code})
}

// sortPostings reorders in place for presentation. Postings without a date go last.
func sortPostings(postings []domain.Posting, order string) {
	switch order {
	case sortNewest, sortOldest:
		sort.SliceStable(postings, func(i, j int) bool {
			a, b := postings[i].PostedDate, postings[j].PostedDate
			if a == nil || b == nil {
				return a != nil && b == nil
			}
			if order == sortNewest {
				return a.After(*b)
			}
			return a.Before(*b)
		})
	case sortMatch:
		sort.SliceStable(postings, func(i, j int) bool {
			return postings[i].MatchPercentage > postings[j].MatchPercentage
		})
	}
}
