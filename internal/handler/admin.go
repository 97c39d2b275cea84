package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/luzplay/internal/model"
	"github.com/sakif/luzplay/internal/service"
)

// AdminHandler serves /api/admin. Every route sits behind RequireAdmin.
type AdminHandler struct {
	svc    *service.AdminService
	logger *slog.Logger
}

func NewAdminHandler(svc *service.AdminService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{svc: svc, logger: logger}
}

// HandleCreateVideo adds a video from the admin form.
//
// HTTP: POST /api/admin/videos
// REQUEST BODY: {"title": "...", "sourceUrl": "https://youtu.be/...", "orientation": "tall"}
func (h *AdminHandler) HandleCreateVideo(w http.ResponseWriter, r *http.Request) {
	var in service.VideoInput
	if err := readJSON(w, r, &in); err != nil {
		writeError(w, err)
		return
	}
	v, err := h.svc.CreateVideo(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

// HandleUpdateVideo applies a partial update. Fields left out are unchanged.
//
// HTTP: PATCH /api/admin/videos/{id}
func (h *AdminHandler) HandleUpdateVideo(w http.ResponseWriter, r *http.Request) {
	var patch model.VideoPatch
	if err := readJSON(w, r, &patch); err != nil {
		writeError(w, err)
		return
	}
	v, err := h.svc.UpdateVideo(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// HTTP: DELETE /api/admin/videos/{id}
func (h *AdminHandler) HandleDeleteVideo(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteVideo(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HTTP: POST /api/admin/categories
// REQUEST BODY: {"name": "Estudos Bíblicos", "slug": "estudos"}
func (h *AdminHandler) HandleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var in service.CategoryInput
	if err := readJSON(w, r, &in); err != nil {
		writeError(w, err)
		return
	}
	c, err := h.svc.CreateCategory(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// HandleDeleteCategory removes a category. Deleting the last one is a 422.
//
// HTTP: DELETE /api/admin/categories/{id}
func (h *AdminHandler) HandleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteCategory(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HTTP: POST /api/admin/ads
// REQUEST BODY: {"title": "...", "position": "top", "imageUrl": "...", "link": "..."}
//
//	or {"title": "...", "position": "footer", "htmlCode": "<div>...</div>"}
func (h *AdminHandler) HandleCreateAd(w http.ResponseWriter, r *http.Request) {
	var in service.AdInput
	if err := readJSON(w, r, &in); err != nil {
		writeError(w, err)
		return
	}
	ad, err := h.svc.CreateAd(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ad)
}

// HTTP: DELETE /api/admin/ads/{id}
func (h *AdminHandler) HandleDeleteAd(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteAd(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HTTP: POST /api/admin/ads/{id}/toggle
// RESPONSE: {"id": "ad1", "active": false}
func (h *AdminHandler) HandleToggleAd(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	active, err := h.svc.ToggleAd(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "active": active})
}

// HTTP: PUT /api/admin/pix
func (h *AdminHandler) HandleUpdatePix(w http.ResponseWriter, r *http.Request) {
	var p model.PixSettings
	if err := readJSON(w, r, &p); err != nil {
		writeError(w, err)
		return
	}
	saved, err := h.svc.UpdatePix(r.Context(), p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// HTTP: GET /api/admin/stats
func (h *AdminHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Stats())
}
