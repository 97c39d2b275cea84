package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/sakif/luzplay/internal/catalog"
	"github.com/sakif/luzplay/internal/handler"
	"github.com/sakif/luzplay/internal/persistence"
	"github.com/sakif/luzplay/internal/player"
	"github.com/sakif/luzplay/internal/repository/memory"
	"github.com/sakif/luzplay/internal/service"
)

// testAPI is the public and admin API over a seeded in-memory catalog. The
// admin routes are mounted without RequireAdmin; auth_test covers the gate.
type testAPI struct {
	router  *chi.Mux
	store   *catalog.Store
	players *player.Manager
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	adapter := persistence.New(memory.New(), persistence.DefaultPrefix, logger)
	store := catalog.Open(context.Background(), adapter, catalog.SeedDefaults(time.Now()), logger)
	players := player.NewManager(store, player.Config{Countdown: time.Hour}, logger)

	catalogHandler := handler.NewCatalogHandler(service.NewCatalogService(store, "https://luzplay.test", logger), nil, logger)
	adminHandler := handler.NewAdminHandler(service.NewAdminService(store, logger), logger)
	playerHandler := handler.NewPlayerHandler(players, logger)

	r := chi.NewRouter()
	r.Get("/api/state", catalogHandler.HandleState)
	r.Get("/api/home", catalogHandler.HandleHome)
	r.Get("/api/videos", catalogHandler.HandleListVideos)
	r.Get("/api/videos/{id}", catalogHandler.HandleGetVideo)
	r.Get("/api/videos/{id}/share", catalogHandler.HandleShareVideo)
	r.Get("/api/shorts", catalogHandler.HandleShorts)
	r.Get("/api/categories", catalogHandler.HandleCategories)
	r.Put("/api/search", catalogHandler.HandleSetSearch)
	r.Post("/api/favorites/{id}", catalogHandler.HandleToggleFavorite)
	r.Put("/api/settings/dark-mode", catalogHandler.HandleSetDarkMode)
	r.Get("/api/ads", catalogHandler.HandleActiveAd)
	r.Get("/api/pix", catalogHandler.HandlePix)
	r.Get("/api/youtube", catalogHandler.HandleYouTube)
	r.Get("/api/verse", catalogHandler.HandleVerse)

	r.Post("/api/admin/videos", adminHandler.HandleCreateVideo)
	r.Patch("/api/admin/videos/{id}", adminHandler.HandleUpdateVideo)
	r.Delete("/api/admin/videos/{id}", adminHandler.HandleDeleteVideo)
	r.Post("/api/admin/categories", adminHandler.HandleCreateCategory)
	r.Delete("/api/admin/categories/{id}", adminHandler.HandleDeleteCategory)
	r.Post("/api/admin/ads", adminHandler.HandleCreateAd)
	r.Delete("/api/admin/ads/{id}", adminHandler.HandleDeleteAd)
	r.Post("/api/admin/ads/{id}/toggle", adminHandler.HandleToggleAd)
	r.Put("/api/admin/pix", adminHandler.HandleUpdatePix)
	r.Get("/api/admin/stats", adminHandler.HandleStats)

	r.Post("/api/play/{videoId}", playerHandler.HandlePlay)
	r.Get("/api/play/sessions/{sid}", playerHandler.HandleGetSession)
	r.Post("/api/play/sessions/{sid}/skip", playerHandler.HandleSkip)
	r.Post("/api/play/sessions/{sid}/finish", playerHandler.HandleFinish)
	r.Post("/api/play/sessions/{sid}/replay", playerHandler.HandleReplay)
	r.Delete("/api/play/sessions/{sid}", playerHandler.HandleEnd)

	return &testAPI{router: r, store: store, players: players}
}

// do sends a request with an optional JSON body and returns the recorder.
func (a *testAPI) do(method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&out), rec.Body.String())
	return out
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorResponse {
	t.Helper()
	return decode[handler.ErrorResponse](t, rec)
}
