package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/newsroom-tools/bulletin/internal/models"
	"github.com/newsroom-tools/bulletin/internal/repositories"
)

// NewsletterHandler serves the newsletter content endpoints.
// Implements the Handler interface for registration with a Router.
type NewsletterHandler struct {
	repo   *repositories.NewsletterRepository
	logger *log.Logger
}

// NewNewsletterHandler creates a new [NewsletterHandler] over the given repository.
func NewNewsletterHandler(repo *repositories.NewsletterRepository, logger *log.Logger) *NewsletterHandler {
	return &NewsletterHandler{repo: repo, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *NewsletterHandler) Routes() []string {
	return []string{
		"GET /api/newsletter",
		"POST /api/newsletter",
		"POST /api/newsletter/comments",
		"GET /api/newsletter/periods",
		"GET /api/newsletter/feed",
	}
}

// ServeHTTP dispatches to the endpoint implementations by path and method.
func (h *NewsletterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/newsletter":
		if r.Method == http.MethodGet {
			h.getNewsletter(w, r)
		} else {
			h.saveNewsletter(w, r)
		}
	case "/api/newsletter/comments":
		h.addComment(w, r)
	case "/api/newsletter/periods":
		h.listPeriods(w, r)
	case "/api/newsletter/feed":
		h.feed(w, r)
	default:
		http.NotFound(w, r)
	}
}

// getNewsletter fetches one period's content, creating the period on
// first reference.
func (h *NewsletterHandler) getNewsletter(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	year := r.URL.Query().Get("year")

	if month == "" || year == "" {
		writeError(w, http.StatusBadRequest, "Month and year are required", nil)
		return
	}

	data, err := h.repo.Load(month, year)
	if err != nil {
		h.logger.Error("failed to fetch newsletter", "error", err, "request_id", RequestIDFromContext(r.Context()))
		writeError(w, http.StatusInternalServerError, "Failed to fetch newsletter data", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": data})
}

// saveNewsletter replaces one period's content wholesale.
func (h *NewsletterHandler) saveNewsletter(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Month string                 `json:"month"`
		Year  string                 `json:"year"`
		Data  *models.NewsletterData `json:"data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if body.Month == "" || body.Year == "" || body.Data == nil {
		writeError(w, http.StatusBadRequest, "Month, year, and data are required", nil)
		return
	}

	body.Data.Month = body.Month
	body.Data.Year = body.Year

	if err := h.repo.Save(body.Month, body.Year, body.Data); err != nil {
		h.logger.Error("failed to save newsletter", "error", err, "request_id", RequestIDFromContext(r.Context()))
		writeError(w, http.StatusInternalServerError, "Failed to save newsletter data", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Newsletter saved successfully",
	})
}

// addComment attaches an internal annotation to an entry.
func (h *NewsletterHandler) addComment(w http.ResponseWriter, r *http.Request) {
	var body struct {
		EntryID string `json:"entryId"`
		User    string `json:"user"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if body.EntryID == "" || body.User == "" || body.Content == "" {
		writeError(w, http.StatusBadRequest, "Entry ID, user, and content are required", nil)
		return
	}

	entryID, err := strconv.ParseInt(body.EntryID, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Entry ID must be numeric", err)
		return
	}

	comment, err := h.repo.AddComment(entryID, body.User, body.Content)
	if err != nil {
		h.logger.Error("failed to add comment", "error", err, "request_id", RequestIDFromContext(r.Context()))
		writeError(w, http.StatusInternalServerError, "Failed to add comment", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"comment": comment,
	})
}

// listPeriods lists periods by most recent activity. The limit is
// clamped to [1, 50] and defaults to 5.
func (h *NewsletterHandler) listPeriods(w http.ResponseWriter, r *http.Request) {
	limit := int64(5)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			limit = n
		}
	}
	limit = min(max(limit, 1), 50)

	offset := int64(0)
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			offset = max(n, 0)
		}
	}

	periods, err := h.repo.RecentPeriods(limit, offset)
	if err != nil {
		h.logger.Error("failed to list periods", "error", err, "request_id", RequestIDFromContext(r.Context()))
		writeError(w, http.StatusInternalServerError, "Failed to list newsletter periods", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": periods})
}

// feed returns every entry across all periods, newest first.
func (h *NewsletterHandler) feed(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.Feed()
	if err != nil {
		h.logger.Error("failed to build feed", "error", err, "request_id", RequestIDFromContext(r.Context()))
		writeError(w, http.StatusInternalServerError, "Failed to fetch all posts for feed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": items})
}
