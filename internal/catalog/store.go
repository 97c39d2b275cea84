// Package catalog holds the authoritative LuzPlay state: videos, categories,
// ads, favourites, PIX settings and the session flags.
//
// HOW WRITES WORK:
// Every mutation of a persisted slice builds the next value of that slice on
// a copy, hands it to the persistence adapter, and only swaps it into the
// live state once the save succeeded. A failed save returns an error and the
// store looks exactly as it did before the call.
//
// Reads return copies. Callers can sort, filter or append to what they get
// without touching the store.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/sakif/luzplay/internal/apperror"
	"github.com/sakif/luzplay/internal/model"
	"github.com/sakif/luzplay/internal/persistence"
)

// State is a point-in-time copy of everything the store holds.
type State struct {
	Videos      []model.Video     `json:"videos"`
	Categories  []model.Category  `json:"categories"`
	Ads         []model.Ad        `json:"ads"`
	Favorites   []string          `json:"favorites"`
	PixSettings model.PixSettings `json:"pixSettings"`
	IsDarkMode  bool              `json:"isDarkMode"`
	IsAdmin     bool              `json:"isAdmin"`
	SearchTerm  string            `json:"searchTerm"`
}

func (st State) clone() State {
	out := st
	out.Videos = slices.Clone(st.Videos)
	out.Categories = slices.Clone(st.Categories)
	out.Ads = slices.Clone(st.Ads)
	out.Favorites = slices.Clone(st.Favorites)
	return out
}

// Store is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	state   State
	adapter *persistence.Adapter
	logger  *slog.Logger
}

// Open loads every persisted slice through adapter, falling back to defaults
// slice by slice. A persisted category list that is empty is treated like a
// missing one, since the store always holds at least one category.
func Open(ctx context.Context, adapter *persistence.Adapter, defaults Defaults, logger *slog.Logger) *Store {
	st := State{
		Videos:      persistence.Load(ctx, adapter, string(SliceVideos), defaults.Videos),
		Categories:  persistence.Load(ctx, adapter, string(SliceCategories), defaults.Categories),
		Ads:         persistence.Load(ctx, adapter, string(SliceAds), defaults.Ads),
		Favorites:   persistence.Load(ctx, adapter, string(SliceFavorites), defaults.Favorites),
		PixSettings: persistence.Load(ctx, adapter, string(SlicePix), defaults.Pix),
		IsDarkMode:  persistence.Load(ctx, adapter, string(SliceDarkMode), defaults.DarkMode),
	}

	if len(st.Categories) == 0 {
		logger.Warn("persisted category list is empty, using defaults",
			slog.String("key", adapter.Key(string(SliceCategories))),
		)
		st.Categories = defaults.Categories
	}

	st.Videos = dedupe(logger, SliceVideos, st.Videos, func(v model.Video) string { return v.ID })
	st.Categories = dedupe(logger, SliceCategories, st.Categories, func(c model.Category) string { return c.ID })
	st.Ads = dedupe(logger, SliceAds, st.Ads, func(a model.Ad) string { return a.ID })
	st.Favorites = dedupe(logger, SliceFavorites, st.Favorites, func(id string) string { return id })

	logger.Info("catalog loaded",
		slog.Int("videos", len(st.Videos)),
		slog.Int("categories", len(st.Categories)),
		slog.Int("ads", len(st.Ads)),
		slog.Int("favorites", len(st.Favorites)),
	)

	return &Store{
		state:   st.clone(),
		adapter: adapter,
		logger:  logger,
	}
}

// dedupe keeps the first record for every key. Hand-edited storage is the
// only way duplicates get in.
func dedupe[T any](logger *slog.Logger, slice Slice, in []T, key func(T) string) []T {
	seen := make(map[string]struct{}, len(in))
	out := make([]T, 0, len(in))
	for _, item := range in {
		k := key(item)
		if _, dup := seen[k]; dup {
			logger.Warn("dropping duplicate persisted record",
				slog.String("slice", string(slice)),
				slog.String("id", k),
			)
			continue
		}
		seen[k] = struct{}{}
		out = append(out, item)
	}
	return out
}

// save writes one slice if the policy says it is persisted.
func (s *Store) save(ctx context.Context, slice Slice, v any) error {
	if !slice.Persisted() {
		return nil
	}
	if err := s.adapter.Save(ctx, string(slice), v); err != nil {
		s.logger.Error("failed to persist slice",
			slog.String("slice", string(slice)),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("catalog: %w", err)
	}
	return nil
}

// === Reads ===

// Snapshot returns a copy of the whole state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

func (s *Store) Videos() []model.Video {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.state.Videos)
}

// Video looks a video up by id.
func (s *Store) Video(id string) (model.Video, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := indexVideo(s.state.Videos, id)
	if i < 0 {
		return model.Video{}, false
	}
	return s.state.Videos[i], true
}

func (s *Store) Categories() []model.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.state.Categories)
}

func (s *Store) Ads() []model.Ad {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.state.Ads)
}

func (s *Store) Favorites() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.state.Favorites)
}

func (s *Store) PixSettings() model.PixSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.PixSettings
}

func (s *Store) IsDarkMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsDarkMode
}

func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsAdmin
}

func (s *Store) SearchTerm() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.SearchTerm
}

// === Videos ===

// AddVideo puts v at the front of the catalog.
func (s *Store) AddVideo(ctx context.Context, v model.Video) error {
	if err := v.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if indexVideo(s.state.Videos, v.ID) >= 0 {
		return apperror.Conflict("video", "id", v.ID)
	}

	next := make([]model.Video, 0, len(s.state.Videos)+1)
	next = append(next, v)
	next = append(next, s.state.Videos...)

	if err := s.save(ctx, SliceVideos, next); err != nil {
		return err
	}
	s.state.Videos = next

	s.logger.Info("video added", slog.String("id", v.ID), slog.String("title", v.Title))
	return nil
}

// DeleteVideo removes a video and drops it from the favourites.
//
// The two slices are saved one after the other, videos first. If the
// favourites write fails the video is already gone and the error is
// returned; the stale favourite is harmless because FavoriteVideos skips
// ids that no longer resolve.
func (s *Store) DeleteVideo(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexVideo(s.state.Videos, id)
	if i < 0 {
		return false, nil
	}

	next := slices.Delete(slices.Clone(s.state.Videos), i, i+1)
	if err := s.save(ctx, SliceVideos, next); err != nil {
		return true, err
	}
	s.state.Videos = next
	s.logger.Info("video deleted", slog.String("id", id))

	if j := slices.Index(s.state.Favorites, id); j >= 0 {
		favs := slices.Delete(slices.Clone(s.state.Favorites), j, j+1)
		if err := s.save(ctx, SliceFavorites, favs); err != nil {
			return true, err
		}
		s.state.Favorites = favs
	}
	return true, nil
}

// UpdateVideo merges patch into the video with the given id.
func (s *Store) UpdateVideo(ctx context.Context, id string, patch model.VideoPatch) (bool, error) {
	if err := patch.Validate(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexVideo(s.state.Videos, id)
	if i < 0 {
		return false, nil
	}

	next := slices.Clone(s.state.Videos)
	next[i] = patch.Apply(next[i])

	if err := s.save(ctx, SliceVideos, next); err != nil {
		return true, err
	}
	s.state.Videos = next

	s.logger.Info("video updated", slog.String("id", id))
	return true, nil
}

// IncrementViews adds one view to a video and returns the new count.
func (s *Store) IncrementViews(ctx context.Context, id string) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexVideo(s.state.Videos, id)
	if i < 0 {
		return 0, false, nil
	}

	next := slices.Clone(s.state.Videos)
	next[i].ViewCount++

	if err := s.save(ctx, SliceVideos, next); err != nil {
		return s.state.Videos[i].ViewCount, true, err
	}
	s.state.Videos = next
	return next[i].ViewCount, true, nil
}

// === Categories ===

// AddCategory appends c. Ids and slugs are both unique.
func (s *Store) AddCategory(ctx context.Context, c model.Category) error {
	if err := c.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.state.Categories {
		if existing.ID == c.ID {
			return apperror.Conflict("category", "id", c.ID)
		}
		if existing.Slug == c.Slug {
			return apperror.Conflict("category", "slug", c.Slug)
		}
	}

	next := append(slices.Clone(s.state.Categories), c)
	if err := s.save(ctx, SliceCategories, next); err != nil {
		return err
	}
	s.state.Categories = next

	s.logger.Info("category added", slog.String("id", c.ID), slog.String("slug", c.Slug))
	return nil
}

// DeleteCategory removes a category. Videos keep their slug.
func (s *Store) DeleteCategory(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.state.Categories, func(c model.Category) bool { return c.ID == id })
	if i < 0 {
		return false, nil
	}
	if len(s.state.Categories) <= 1 {
		return true, apperror.PreconditionFailed("at least one category must remain")
	}

	next := slices.Delete(slices.Clone(s.state.Categories), i, i+1)
	if err := s.save(ctx, SliceCategories, next); err != nil {
		return true, err
	}
	s.state.Categories = next

	s.logger.Info("category deleted", slog.String("id", id))
	return true, nil
}

// === Favourites ===

// ToggleFavorite adds id to the favourites if it is missing and removes it
// otherwise. It reports whether id is a favourite afterwards.
func (s *Store) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var next []string
	var added bool
	if i := slices.Index(s.state.Favorites, id); i >= 0 {
		next = slices.Delete(slices.Clone(s.state.Favorites), i, i+1)
	} else {
		if indexVideo(s.state.Videos, id) < 0 {
			return false, apperror.NotFound("video", id)
		}
		next = append(slices.Clone(s.state.Favorites), id)
		added = true
	}

	if err := s.save(ctx, SliceFavorites, next); err != nil {
		return !added, err
	}
	s.state.Favorites = next
	return added, nil
}

// === Ads ===

// AddAd puts ad at the front of the ad list.
func (s *Store) AddAd(ctx context.Context, ad model.Ad) error {
	if err := ad.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if indexAd(s.state.Ads, ad.ID) >= 0 {
		return apperror.Conflict("ad", "id", ad.ID)
	}

	next := make([]model.Ad, 0, len(s.state.Ads)+1)
	next = append(next, ad)
	next = append(next, s.state.Ads...)

	if err := s.save(ctx, SliceAds, next); err != nil {
		return err
	}
	s.state.Ads = next

	s.logger.Info("ad added",
		slog.String("id", ad.ID),
		slog.String("position", string(ad.Position)),
		slog.String("kind", string(ad.Payload.Kind())),
	)
	return nil
}

func (s *Store) DeleteAd(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexAd(s.state.Ads, id)
	if i < 0 {
		return false, nil
	}

	next := slices.Delete(slices.Clone(s.state.Ads), i, i+1)
	if err := s.save(ctx, SliceAds, next); err != nil {
		return true, err
	}
	s.state.Ads = next

	s.logger.Info("ad deleted", slog.String("id", id))
	return true, nil
}

// ToggleAd flips an ad's active flag and returns the new value.
func (s *Store) ToggleAd(ctx context.Context, id string) (active, found bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexAd(s.state.Ads, id)
	if i < 0 {
		return false, false, nil
	}

	next := slices.Clone(s.state.Ads)
	next[i].Active = !next[i].Active

	if err := s.save(ctx, SliceAds, next); err != nil {
		return s.state.Ads[i].Active, true, err
	}
	s.state.Ads = next

	s.logger.Info("ad toggled", slog.String("id", id), slog.Bool("active", next[i].Active))
	return next[i].Active, true, nil
}

// === PIX and flags ===

// UpdatePixSettings replaces the PIX settings wholesale.
func (s *Store) UpdatePixSettings(ctx context.Context, p model.PixSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.save(ctx, SlicePix, p); err != nil {
		return err
	}
	s.state.PixSettings = p

	s.logger.Info("pix settings updated", slog.Bool("active", p.Active))
	return nil
}

func (s *Store) SetDarkMode(ctx context.Context, on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.save(ctx, SliceDarkMode, on); err != nil {
		return err
	}
	s.state.IsDarkMode = on
	return nil
}

// SetAdmin flips the session-only admin flag. It is never persisted.
func (s *Store) SetAdmin(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsAdmin = on
}

// SetSearchTerm replaces the session-only search term.
func (s *Store) SetSearchTerm(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SearchTerm = term
}

func indexVideo(videos []model.Video, id string) int {
	return slices.IndexFunc(videos, func(v model.Video) bool { return v.ID == id })
}

func indexAd(ads []model.Ad, id string) int {
	return slices.IndexFunc(ads, func(a model.Ad) bool { return a.ID == id })
}
