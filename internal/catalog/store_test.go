package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/luzplay/internal/apperror"
	"github.com/sakif/luzplay/internal/model"
	"github.com/sakif/luzplay/internal/persistence"
	"github.com/sakif/luzplay/internal/repository"
	"github.com/sakif/luzplay/internal/repository/memory"
	"github.com/sakif/luzplay/internal/repository/sqlite"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// flakyKV fails every Put while failPuts is set.
type flakyKV struct {
	*memory.Store
	failPuts atomic.Bool
}

func (f *flakyKV) Put(ctx context.Context, key string, value []byte) error {
	if f.failPuts.Load() {
		return errors.New("backend unavailable")
	}
	return f.Store.Put(ctx, key, value)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openStore(t *testing.T, kv repository.KeyValueStore) *Store {
	t.Helper()
	logger := discardLogger()
	adapter := persistence.New(kv, persistence.DefaultPrefix, logger)
	return Open(context.Background(), adapter, SeedDefaults(testNow), logger)
}

func newTestStore(t *testing.T) (*Store, *flakyKV) {
	t.Helper()
	kv := &flakyKV{Store: memory.New()}
	return openStore(t, kv), kv
}

func video(id string, o model.Orientation) model.Video {
	return model.Video{ID: id, Title: "Video " + id, Category: "oracoes", Orientation: o}
}

func TestOpen_SeedsOnFirstRun(t *testing.T) {
	s, kv := newTestStore(t)

	st := s.Snapshot()
	assert.Len(t, st.Categories, 5)
	assert.Len(t, st.Videos, 4)
	assert.Len(t, st.Ads, 2)
	assert.Empty(t, st.Favorites)
	assert.True(t, st.IsDarkMode)
	assert.False(t, st.IsAdmin)
	assert.Equal(t, "suachavepix@aqui.com", st.PixSettings.Key)
	assert.Equal(t, testNow.UnixMilli()-100000, st.Videos[0].CreatedAt)
	assert.Equal(t, 0, kv.Puts(), "loading must not write")
}

func TestOpen_EmptyCategoriesFallBackToDefaults(t *testing.T) {
	kv := memory.New()
	require.NoError(t, kv.Put(context.Background(), "luzplay_categories", []byte(`[]`)))

	s := openStore(t, kv)
	assert.Len(t, s.Categories(), 5)
}

func TestOpen_NullSlicesFallBackToDefaults(t *testing.T) {
	kv := memory.New()
	for _, sl := range PersistedSlices() {
		require.NoError(t, kv.Put(context.Background(), persistence.DefaultPrefix+string(sl), []byte(`null`)))
	}

	s := openStore(t, kv)
	d := SeedDefaults(testNow)
	assert.Equal(t, d.Pix, s.PixSettings())
	assert.True(t, s.IsDarkMode())
	assert.Len(t, s.Videos(), 4)
	assert.Len(t, s.Categories(), 5)
	assert.NotNil(t, s.Favorites())
}

func TestOpen_DropsDuplicatePersistedRecords(t *testing.T) {
	kv := memory.New()
	require.NoError(t, kv.Put(context.Background(), "luzplay_favorites", []byte(`["v1","v2","v1"]`)))

	s := openStore(t, kv)
	assert.Equal(t, []string{"v1", "v2"}, s.Favorites())
}

func TestEverySliceRoundTrips(t *testing.T) {
	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	ctx := context.Background()

	first := openStore(t, db)
	require.NoError(t, first.AddVideo(ctx, video("x1", model.OrientationTall)))
	require.NoError(t, first.AddCategory(ctx, model.Category{ID: "c9", Name: "Testemunhos", Slug: "testemunhos"}))
	require.NoError(t, first.AddAd(ctx, model.Ad{ID: "s1", Title: "Script", Position: model.PositionFooter,
		Active: true, Payload: model.Script{HTMLCode: "<div>oi</div>"}}))
	_, err = first.ToggleFavorite(ctx, "x1")
	require.NoError(t, err)
	require.NoError(t, first.UpdatePixSettings(ctx, model.PixSettings{Key: "chave", QRCodeImageURL: "qr", Active: false}))
	require.NoError(t, first.SetDarkMode(ctx, false))
	first.SetAdmin(true)
	first.SetSearchTerm("salmo")

	second := openStore(t, db)
	want := first.Snapshot()
	want.IsAdmin = false
	want.SearchTerm = ""
	assert.Equal(t, want, second.Snapshot())
}

func TestSessionFlagsAreNotPersisted(t *testing.T) {
	s, kv := newTestStore(t)

	s.SetAdmin(true)
	s.SetSearchTerm("fé")

	assert.True(t, s.IsAdmin())
	assert.Equal(t, "fé", s.SearchTerm())
	assert.Equal(t, 0, kv.Puts())
	assert.False(t, SliceAdmin.Persisted())
	assert.False(t, SliceSearchTerm.Persisted())
	for _, sl := range PersistedSlices() {
		assert.True(t, sl.Persisted(), sl)
	}
}

func TestReplayIsDeterministic(t *testing.T) {
	run := func() State {
		s, _ := newTestStore(t)
		ctx := context.Background()
		require.NoError(t, s.AddVideo(ctx, video("a", model.OrientationWide)))
		require.NoError(t, s.AddVideo(ctx, video("b", model.OrientationTall)))
		_, _, err := s.IncrementViews(ctx, "a")
		require.NoError(t, err)
		_, err = s.ToggleFavorite(ctx, "b")
		require.NoError(t, err)
		_, err = s.DeleteCategory(ctx, "3")
		require.NoError(t, err)
		_, _, err = s.ToggleAd(ctx, "ad1")
		require.NoError(t, err)
		_, err = s.DeleteVideo(ctx, "v2")
		require.NoError(t, err)
		return s.Snapshot()
	}

	assert.Equal(t, run(), run())
}

func TestAddVideo(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddVideo(ctx, video("new", model.OrientationWide)))
	assert.Equal(t, "new", s.Videos()[0].ID, "new videos go first")

	err := s.AddVideo(ctx, video("new", model.OrientationTall))
	assert.True(t, errors.Is(err, apperror.ErrConflict))

	err = s.AddVideo(ctx, model.Video{ID: "bad", Title: "x", Orientation: "16x9"})
	assert.True(t, errors.Is(err, apperror.ErrValidation))
	assert.Len(t, s.Videos(), 5)
}

func TestDeleteVideo(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.ToggleFavorite(ctx, "v3")
	require.NoError(t, err)

	found, err := s.DeleteVideo(ctx, "v3")
	require.NoError(t, err)
	assert.True(t, found)
	_, ok := s.Video("v3")
	assert.False(t, ok)
	assert.NotContains(t, s.Favorites(), "v3")

	found, err = s.DeleteVideo(ctx, "v3")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestUpdateVideo(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	before, _ := s.Video("v1")

	title := "Novo título"
	found, err := s.UpdateVideo(ctx, "v1", model.VideoPatch{Title: &title})
	require.NoError(t, err)
	assert.True(t, found)

	after, _ := s.Video("v1")
	assert.Equal(t, "Novo título", after.Title)
	assert.Equal(t, before.ID, after.ID)
	assert.Equal(t, before.ViewCount, after.ViewCount)
	assert.Equal(t, before.CreatedAt, after.CreatedAt)

	found, err = s.UpdateVideo(ctx, "nope", model.VideoPatch{Title: &title})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestIncrementViews_ByN(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	before, _ := s.Video("v2")

	const n = 7
	for i := 0; i < n; i++ {
		_, found, err := s.IncrementViews(ctx, "v2")
		require.NoError(t, err)
		require.True(t, found)
	}

	after, _ := s.Video("v2")
	assert.Equal(t, before.ViewCount+n, after.ViewCount)

	_, found, err := s.IncrementViews(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestAddCategory_RejectsDuplicates(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	err := s.AddCategory(ctx, model.Category{ID: "1", Name: "Outra", Slug: "outra"})
	assert.True(t, errors.Is(err, apperror.ErrConflict))

	err = s.AddCategory(ctx, model.Category{ID: "99", Name: "Louvor", Slug: "louvor"})
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "slug", appErr.Field)
	assert.Len(t, s.Categories(), 5)
}

func TestDeleteCategory_LastOneIsRejected(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"1", "2", "3", "4"} {
		found, err := s.DeleteCategory(ctx, id)
		require.NoError(t, err)
		require.True(t, found)
	}

	found, err := s.DeleteCategory(ctx, "5")
	assert.True(t, found)
	assert.True(t, errors.Is(err, apperror.ErrPrecondition))
	require.Len(t, s.Categories(), 1)
	assert.Equal(t, "autoajuda", s.Categories()[0].Slug)

	found, err = s.DeleteCategory(ctx, "1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDeleteCategory_KeepsVideos(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.DeleteCategory(context.Background(), "3")
	require.NoError(t, err)

	v, ok := s.Video("v3")
	require.True(t, ok)
	assert.Equal(t, "biblia", v.Category)
}

func TestToggleFavorite_IsAnInvolution(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	before := s.Favorites()

	on, err := s.ToggleFavorite(ctx, "v4")
	require.NoError(t, err)
	assert.True(t, on)
	assert.Equal(t, []string{"v4"}, s.Favorites())

	on, err = s.ToggleFavorite(ctx, "v4")
	require.NoError(t, err)
	assert.False(t, on)
	assert.Equal(t, before, s.Favorites())
}

func TestToggleFavorite_UnknownVideo(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.ToggleFavorite(context.Background(), "ghost")
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
	assert.Empty(t, s.Favorites())
}

func TestAds(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	script := model.Ad{ID: "s1", Title: "Script", Position: model.PositionPreRoll, Payload: model.Script{HTMLCode: "<i/>"}}
	require.NoError(t, s.AddAd(ctx, script))
	assert.Equal(t, "s1", s.Ads()[0].ID)

	assert.True(t, errors.Is(s.AddAd(ctx, script), apperror.ErrConflict))
	assert.True(t, errors.Is(s.AddAd(ctx, model.Ad{ID: "n", Title: "t", Position: model.PositionTop}), apperror.ErrValidation))

	active, found, err := s.ToggleAd(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, active)

	_, found, err = s.ToggleAd(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, found)

	found, err = s.DeleteAd(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Len(t, s.Ads(), 2)
}

func TestFailedSaveLeavesStateUnchanged(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()
	before := s.Snapshot()

	kv.failPuts.Store(true)

	title := "x"
	ops := map[string]func() error{
		"AddVideo":    func() error { return s.AddVideo(ctx, video("z", model.OrientationWide)) },
		"DeleteVideo": func() error { _, err := s.DeleteVideo(ctx, "v1"); return err },
		"UpdateVideo": func() error { _, err := s.UpdateVideo(ctx, "v1", model.VideoPatch{Title: &title}); return err },
		"Increment":   func() error { _, _, err := s.IncrementViews(ctx, "v1"); return err },
		"AddCategory": func() error {
			return s.AddCategory(ctx, model.Category{ID: "z", Name: "Z", Slug: "z"})
		},
		"DeleteCategory": func() error { _, err := s.DeleteCategory(ctx, "1"); return err },
		"ToggleFavorite": func() error { _, err := s.ToggleFavorite(ctx, "v1"); return err },
		"AddAd": func() error {
			return s.AddAd(ctx, model.Ad{ID: "z", Title: "Z", Position: model.PositionTop, Payload: model.Banner{ImageURL: "i"}})
		},
		"DeleteAd":    func() error { _, err := s.DeleteAd(ctx, "ad1"); return err },
		"ToggleAd":    func() error { _, _, err := s.ToggleAd(ctx, "ad1"); return err },
		"UpdatePix":   func() error { return s.UpdatePixSettings(ctx, model.PixSettings{Key: "k"}) },
		"SetDarkMode": func() error { return s.SetDarkMode(ctx, false) },
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, op())
			assert.Equal(t, before, s.Snapshot())
		})
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s, _ := newTestStore(t)

	st := s.Snapshot()
	st.Videos[0].Title = "mutated"
	st.Categories = st.Categories[:1]

	v, _ := s.Video(st.Videos[0].ID)
	assert.NotEqual(t, "mutated", v.Title)
	assert.Len(t, s.Categories(), 5)
}
