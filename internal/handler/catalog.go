package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/sakif/luzplay/internal/apperror"
	"github.com/sakif/luzplay/internal/auth"
	"github.com/sakif/luzplay/internal/model"
	"github.com/sakif/luzplay/internal/service"
	"github.com/sakif/luzplay/internal/youtube"
)

// CatalogHandler serves the public, visitor-facing endpoints.
type CatalogHandler struct {
	svc    *service.CatalogService
	tokens *auth.TokenService // nil when the admin panel is disabled
	logger *slog.Logger
}

func NewCatalogHandler(svc *service.CatalogService, tokens *auth.TokenService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{svc: svc, tokens: tokens, logger: logger}
}

// HandleState returns the whole catalog state. isAdmin reflects the
// caller's own admin cookie, so visitors never see another browser's login.
//
// HTTP: GET /api/state
func (h *CatalogHandler) HandleState(w http.ResponseWriter, r *http.Request) {
	st := h.svc.State()
	st.IsAdmin = auth.IsAdmin(r, h.tokens)
	writeJSON(w, http.StatusOK, st)
}

// HandleHome returns the composed home page. ?q= searches for this request
// only; without it the term set by PUT /api/search applies.
//
// HTTP: GET /api/home?q=salmo
func (h *CatalogHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Home(r.URL.Query().Get("q")))
}

// HandleListVideos lists videos, optionally filtered.
//
// HTTP: GET /api/videos?q=salmo
func (h *CatalogHandler) HandleListVideos(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Videos(r.URL.Query().Get("q")))
}

// HTTP: GET /api/videos/{id}
func (h *CatalogHandler) HandleGetVideo(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.Video(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// HandleShareVideo returns the share text for a video card or short, with a
// WhatsApp link for browsers without the Web Share API.
//
// HTTP: GET /api/videos/{id}/share
func (h *CatalogHandler) HandleShareVideo(w http.ResponseWriter, r *http.Request) {
	link, err := h.svc.ShareVideo(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, link)
}

// HTTP: GET /api/shorts
func (h *CatalogHandler) HandleShorts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Shorts())
}

// HTTP: GET /api/categories
func (h *CatalogHandler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Categories())
}

type searchRequest struct {
	Term string `json:"term"`
}

// HandleSetSearch sets the search term that drives /api/home.
//
// HTTP: PUT /api/search
// REQUEST BODY: {"term": "oração"}
func (h *CatalogHandler) HandleSetSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	h.svc.SetSearchTerm(req.Term)
	writeJSON(w, http.StatusOK, req)
}

// HandleToggleFavorite adds or removes a favourite.
//
// HTTP: POST /api/favorites/{id}
// RESPONSE: {"videoId": "v1", "favorite": true}
func (h *CatalogHandler) HandleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	on, err := h.svc.ToggleFavorite(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"videoId": id, "favorite": on})
}

type darkModeRequest struct {
	Enabled *bool `json:"enabled"`
}

// HTTP: PUT /api/settings/dark-mode
// REQUEST BODY: {"enabled": false}
func (h *CatalogHandler) HandleSetDarkMode(w http.ResponseWriter, r *http.Request) {
	var req darkModeRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Enabled == nil {
		writeError(w, apperror.ValidationFailed("enabled", "enabled is required"))
		return
	}
	if err := h.svc.SetDarkMode(r.Context(), *req.Enabled); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"enabled": *req.Enabled})
}

// HandleActiveAd returns the ad to render in a slot.
//
// HTTP: GET /api/ads?position=sidebar
func (h *CatalogHandler) HandleActiveAd(w http.ResponseWriter, r *http.Request) {
	ad, err := h.svc.ActiveAd(model.AdPosition(r.URL.Query().Get("position")))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ad)
}

// HTTP: GET /api/pix
func (h *CatalogHandler) HandlePix(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Pix())
}

// HandleYouTube parses a link the way the player will.
//
// HTTP: GET /api/youtube?url=https://youtu.be/dQw4w9WgXcQ
func (h *CatalogHandler) HandleYouTube(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("url")
	if strings.TrimSpace(raw) == "" {
		writeError(w, apperror.ValidationFailed("url", "url is required"))
		return
	}
	writeJSON(w, http.StatusOK, youtube.Resolve(raw))
}

// HTTP: GET /api/verse
func (h *CatalogHandler) HandleVerse(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Verse())
}
