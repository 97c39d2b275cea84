// Package service holds the business rules between the HTTP handlers and the
// catalog store.
//
//	Handler (HTTP)     → parses requests, writes responses
//	Service (rules)    → fills in defaults, validates, logs business events
//	catalog.Store      → owns the state and persists it
//
// Services accept plain Go values, never *http.Request, so the same rules
// apply whether a call comes from a handler, a test or a future CLI.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/xid"

	"github.com/sakif/luzplay/internal/apperror"
	"github.com/sakif/luzplay/internal/catalog"
	"github.com/sakif/luzplay/internal/model"
	"github.com/sakif/luzplay/internal/youtube"
)

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 5000
	TopVideosInStats     = 5
)

// AdminService implements the admin dashboard: managing videos, categories,
// ads and the PIX panel, plus the stats header.
type AdminService struct {
	store  *catalog.Store
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

func NewAdminService(store *catalog.Store, logger *slog.Logger) *AdminService {
	return &AdminService{
		store:  store,
		logger: logger,
		now:    time.Now,
		newID:  func() string { return xid.New().String() },
	}
}

// VideoInput is the "new video" form.
type VideoInput struct {
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Category     string            `json:"category"`
	SourceURL    string            `json:"sourceUrl"`
	Orientation  model.Orientation `json:"orientation"`
	ThumbnailURL string            `json:"thumbnailUrl"`
}

// CreateVideo adds a video from the admin form.
//
// Defaults, in the order they are applied:
//   - orientation: wide
//   - category: the slug of the first category
//   - thumbnail: a placeholder image seeded by the new id
//
// Views start at zero and createdAt is now. A source URL that is not a
// recognisable YouTube link is accepted; the player shows a fallback link.
func (s *AdminService) CreateVideo(ctx context.Context, in VideoInput) (model.Video, error) {
	title := strings.TrimSpace(in.Title)
	source := strings.TrimSpace(in.SourceURL)

	if title == "" {
		return model.Video{}, apperror.ValidationFailed("title", "video title is required")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return model.Video{}, apperror.ValidationFailed("title",
			fmt.Sprintf("video title must be %d characters or less", MaxTitleLength))
	}
	if utf8.RuneCountInString(in.Description) > MaxDescriptionLength {
		return model.Video{}, apperror.ValidationFailed("description",
			fmt.Sprintf("description must be %d characters or less", MaxDescriptionLength))
	}
	if source == "" {
		return model.Video{}, apperror.ValidationFailed("sourceUrl", "video link is required")
	}

	orientation := in.Orientation
	if orientation == "" {
		orientation = model.OrientationWide
	}

	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = s.store.Categories()[0].Slug
	}

	id := s.newID()
	thumbnail := strings.TrimSpace(in.ThumbnailURL)
	if thumbnail == "" {
		thumbnail = "https://picsum.photos/seed/" + id + "/1280/720"
	}

	v := model.Video{
		ID:           id,
		Title:        title,
		Description:  strings.TrimSpace(in.Description),
		Category:     category,
		SourceURL:    source,
		Orientation:  orientation,
		ThumbnailURL: thumbnail,
		ViewCount:    0,
		CreatedAt:    s.now().UnixMilli(),
	}

	if _, ok := youtube.ExtractID(source); !ok {
		s.logger.Warn("video link is not a recognisable YouTube URL",
			slog.String("id", id),
			slog.String("sourceUrl", source),
		)
	}

	if err := s.store.AddVideo(ctx, v); err != nil {
		return model.Video{}, err
	}
	return v, nil
}

// UpdateVideo applies a partial update. A missing video is ErrNotFound.
func (s *AdminService) UpdateVideo(ctx context.Context, id string, patch model.VideoPatch) (model.Video, error) {
	if patch.Title != nil {
		trimmed := strings.TrimSpace(*patch.Title)
		patch.Title = &trimmed
	}

	found, err := s.store.UpdateVideo(ctx, id, patch)
	if err != nil {
		return model.Video{}, err
	}
	if !found {
		return model.Video{}, apperror.NotFound("video", id)
	}

	v, _ := s.store.Video(id)
	return v, nil
}

func (s *AdminService) DeleteVideo(ctx context.Context, id string) error {
	found, err := s.store.DeleteVideo(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return apperror.NotFound("video", id)
	}
	return nil
}

// CategoryInput is the "new category" form. Slug is optional and derived
// from Name when blank.
type CategoryInput struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (s *AdminService) CreateCategory(ctx context.Context, in CategoryInput) (model.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Category{}, apperror.ValidationFailed("name", "category name is required")
	}

	slug := in.Slug
	if strings.TrimSpace(slug) == "" {
		slug = name
	}

	c := model.Category{
		ID:   s.newID(),
		Name: name,
		Slug: model.NormalizeSlug(slug),
	}
	if err := s.store.AddCategory(ctx, c); err != nil {
		return model.Category{}, err
	}
	return c, nil
}

func (s *AdminService) DeleteCategory(ctx context.Context, id string) error {
	found, err := s.store.DeleteCategory(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return apperror.NotFound("category", id)
	}
	return nil
}

// AdInput is the "new ad" form. Exactly one of ImageURL or HTMLCode must be
// filled in. Active defaults to true.
type AdInput struct {
	Title    string           `json:"title"`
	Position model.AdPosition `json:"position"`
	ImageURL string           `json:"imageUrl"`
	Link     string           `json:"link"`
	HTMLCode string           `json:"htmlCode"`
	Active   *bool            `json:"active"`
}

func (s *AdminService) CreateAd(ctx context.Context, in AdInput) (model.Ad, error) {
	payload, err := model.NewAdPayload(strings.TrimSpace(in.ImageURL), strings.TrimSpace(in.Link), in.HTMLCode)
	if err != nil {
		return model.Ad{}, err
	}

	position := in.Position
	if position == "" {
		position = model.PositionTop
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}

	ad := model.Ad{
		ID:       s.newID(),
		Title:    strings.TrimSpace(in.Title),
		Position: position,
		Active:   active,
		Payload:  payload,
	}
	if err := s.store.AddAd(ctx, ad); err != nil {
		return model.Ad{}, err
	}
	return ad, nil
}

func (s *AdminService) DeleteAd(ctx context.Context, id string) error {
	found, err := s.store.DeleteAd(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return apperror.NotFound("ad", id)
	}
	return nil
}

// ToggleAd flips an ad on or off and returns the new state.
func (s *AdminService) ToggleAd(ctx context.Context, id string) (bool, error) {
	active, found, err := s.store.ToggleAd(ctx, id)
	if err != nil {
		return false, err
	}
	if !found {
		return false, apperror.NotFound("ad", id)
	}
	return active, nil
}

// UpdatePix replaces the PIX panel settings. An active panel needs a key.
func (s *AdminService) UpdatePix(ctx context.Context, p model.PixSettings) (model.PixSettings, error) {
	p.Key = strings.TrimSpace(p.Key)
	p.QRCodeImageURL = strings.TrimSpace(p.QRCodeImageURL)
	if p.Active && p.Key == "" {
		return model.PixSettings{}, apperror.ValidationFailed("key", "an active PIX panel needs a key")
	}
	if err := s.store.UpdatePixSettings(ctx, p); err != nil {
		return model.PixSettings{}, err
	}
	return p, nil
}

// VideoStat is a video with its formatted view count.
type VideoStat struct {
	Video          model.Video `json:"video"`
	ViewsFormatted string      `json:"viewsFormatted"`
}

// Stats is the dashboard header.
type Stats struct {
	Videos              int                     `json:"videos"`
	Shorts              int                     `json:"shorts"`
	Categories          int                     `json:"categories"`
	Ads                 int                     `json:"ads"`
	ActiveAds           int                     `json:"activeAds"`
	Favorites           int                     `json:"favorites"`
	TotalViews          int64                   `json:"totalViews"`
	TotalViewsFormatted string                  `json:"totalViewsFormatted"`
	PerCategory         []catalog.CategoryCount `json:"perCategory"`
	TopVideos           []VideoStat             `json:"topVideos"`
}

func (s *AdminService) Stats() Stats {
	st := s.store.Snapshot()

	activeAds := 0
	for _, a := range st.Ads {
		if a.Active {
			activeAds++
		}
	}

	total := catalog.TotalViews(st.Videos)

	byViews := slices.Clone(st.Videos)
	slices.SortStableFunc(byViews, func(a, b model.Video) int {
		switch {
		case a.ViewCount > b.ViewCount:
			return -1
		case a.ViewCount < b.ViewCount:
			return 1
		}
		return 0
	})
	top := make([]VideoStat, 0, TopVideosInStats)
	for _, v := range byViews[:min(TopVideosInStats, len(byViews))] {
		top = append(top, VideoStat{Video: v, ViewsFormatted: catalog.FormatViews(v.ViewCount)})
	}

	return Stats{
		Videos:              len(st.Videos),
		Shorts:              len(catalog.Shorts(st.Videos)),
		Categories:          len(st.Categories),
		Ads:                 len(st.Ads),
		ActiveAds:           activeAds,
		Favorites:           len(st.Favorites),
		TotalViews:          total,
		TotalViewsFormatted: catalog.FormatViews(total),
		PerCategory:         catalog.CountByCategory(st.Categories, st.Videos),
		TopVideos:           top,
	}
}
