package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/luzplay/internal/apperror"
	"github.com/sakif/luzplay/internal/player"
)

// PlayerHandler drives playback sessions.
type PlayerHandler struct {
	players *player.Manager
	logger  *slog.Logger
}

func NewPlayerHandler(players *player.Manager, logger *slog.Logger) *PlayerHandler {
	return &PlayerHandler{players: players, logger: logger}
}

// HandlePlay opens a session and counts a view.
//
// HTTP: POST /api/play/{videoId}
// RESPONSE: 201 with the session; step is "pre" when a pre-roll ad runs first
func (h *PlayerHandler) HandlePlay(w http.ResponseWriter, r *http.Request) {
	s, err := h.players.Play(r.Context(), r.PathValue("videoId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, s)
}

// HTTP: GET /api/play/sessions/{sid}
func (h *PlayerHandler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	s, err := h.players.Get(r.PathValue("sid"))
	h.respond(w, s, err)
}

// HandleSkip leaves the pre-roll ad. Before the countdown ends it answers
// 422 with the seconds left in the message.
//
// HTTP: POST /api/play/sessions/{sid}/skip
func (h *PlayerHandler) HandleSkip(w http.ResponseWriter, r *http.Request) {
	s, err := h.players.Skip(r.PathValue("sid"))
	h.respond(w, s, err)
}

// HTTP: POST /api/play/sessions/{sid}/finish
func (h *PlayerHandler) HandleFinish(w http.ResponseWriter, r *http.Request) {
	s, err := h.players.Finish(r.PathValue("sid"))
	h.respond(w, s, err)
}

// HTTP: POST /api/play/sessions/{sid}/replay
func (h *PlayerHandler) HandleReplay(w http.ResponseWriter, r *http.Request) {
	s, err := h.players.Replay(r.PathValue("sid"))
	h.respond(w, s, err)
}

// HTTP: DELETE /api/play/sessions/{sid}
func (h *PlayerHandler) HandleEnd(w http.ResponseWriter, r *http.Request) {
	sid := r.PathValue("sid")
	if !h.players.End(sid) {
		writeError(w, apperror.NotFound("playback session", sid))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PlayerHandler) respond(w http.ResponseWriter, s player.Session, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}
