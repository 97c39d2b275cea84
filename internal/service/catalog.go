package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/luzplay/internal/apperror"
	"github.com/sakif/luzplay/internal/catalog"
	"github.com/sakif/luzplay/internal/model"
	"github.com/sakif/luzplay/internal/share"
)

// CatalogService serves the visitor side: the home page, search, shorts,
// favourites and display settings.
type CatalogService struct {
	store     *catalog.Store
	logger    *slog.Logger
	publicURL string
	now       func() time.Time
}

// NewCatalogService creates a CatalogService. publicURL is the site origin
// used in share texts.
func NewCatalogService(store *catalog.Store, publicURL string, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		store:     store,
		logger:    logger,
		publicURL: publicURL,
		now:       time.Now,
	}
}

func (s *CatalogService) State() catalog.State {
	return s.store.Snapshot()
}

// Home is everything the home page renders in one response.
type Home struct {
	SearchTerm    string             `json:"searchTerm"`
	SearchResults []model.Video      `json:"searchResults,omitempty"`
	Featured      *model.Video       `json:"featured,omitempty"`
	Favorites     []model.Video      `json:"favorites"`
	Sections      []catalog.Section  `json:"sections"`
	TopAd         *model.Ad          `json:"topAd,omitempty"`
	FooterAd      *model.Ad          `json:"footerAd,omitempty"`
	SidebarAd     *model.Ad          `json:"sidebarAd,omitempty"`
	Pix           *model.PixSettings `json:"pix,omitempty"`
	Verse         share.Daily        `json:"verse"`
	DarkMode      bool               `json:"darkMode"`
}

// Home composes the home page. While a search is active the hero is hidden
// and the results are included; the category sections always are.
//
// A non-blank q searches for this request only. Otherwise the shared search
// term set through SetSearchTerm applies.
func (s *CatalogService) Home(q string) Home {
	st := s.store.Snapshot()
	term := st.SearchTerm
	if strings.TrimSpace(q) != "" {
		term = q
	}

	h := Home{
		SearchTerm: term,
		Favorites:  catalog.FavoriteVideos(st.Videos, st.Favorites),
		Sections:   catalog.GroupByCategory(st.Categories, st.Videos),
		TopAd:      adPtr(catalog.ActiveAd(st.Ads, model.PositionTop)),
		FooterAd:   adPtr(catalog.ActiveAd(st.Ads, model.PositionFooter)),
		SidebarAd:  adPtr(catalog.ActiveAd(st.Ads, model.PositionSidebar)),
		Verse:      share.NewDaily(s.now(), s.publicURL),
		DarkMode:   st.IsDarkMode,
	}

	if strings.TrimSpace(term) != "" {
		h.SearchResults = catalog.Search(st.Videos, term)
	} else if v, ok := catalog.Featured(st.Videos); ok {
		h.Featured = &v
	}

	if st.PixSettings.Active {
		pix := st.PixSettings
		h.Pix = &pix
	}
	return h
}

// Videos lists the catalog, filtered by q when it is not blank.
func (s *CatalogService) Videos(q string) []model.Video {
	videos := s.store.Videos()
	if strings.TrimSpace(q) == "" {
		return videos
	}
	return catalog.Search(videos, q)
}

func (s *CatalogService) Video(id string) (model.Video, error) {
	v, ok := s.store.Video(id)
	if !ok {
		return model.Video{}, apperror.NotFound("video", id)
	}
	return v, nil
}

func (s *CatalogService) Shorts() []model.Video {
	return catalog.Shorts(s.store.Videos())
}

func (s *CatalogService) Categories() []model.Category {
	return s.store.Categories()
}

func (s *CatalogService) SetSearchTerm(term string) {
	s.store.SetSearchTerm(term)
}

// ToggleFavorite reports whether the video is a favourite afterwards.
func (s *CatalogService) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	on, err := s.store.ToggleFavorite(ctx, id)
	if err != nil {
		return false, err
	}
	s.logger.Debug("favorite toggled", slog.String("video", id), slog.Bool("favorite", on))
	return on, nil
}

func (s *CatalogService) SetDarkMode(ctx context.Context, on bool) error {
	return s.store.SetDarkMode(ctx, on)
}

// ActiveAd returns the ad to render in a slot.
func (s *CatalogService) ActiveAd(position model.AdPosition) (model.Ad, error) {
	if !position.Valid() {
		return model.Ad{}, apperror.ValidationFailed("position", "unknown ad position "+string(position))
	}
	ad, ok := catalog.ActiveAd(s.store.Ads(), position)
	if !ok {
		return model.Ad{}, apperror.NotFound("ad for position", string(position))
	}
	return ad, nil
}

func (s *CatalogService) Pix() model.PixSettings {
	return s.store.PixSettings()
}

// ShareVideo returns the text and WhatsApp link for sharing a video.
func (s *CatalogService) ShareVideo(id string) (share.Video, error) {
	v, ok := s.store.Video(id)
	if !ok {
		return share.Video{}, apperror.NotFound("video", id)
	}
	return share.NewVideo(v, s.publicURL), nil
}

// Verse is today's verse with its share text.
func (s *CatalogService) Verse() share.Daily {
	return share.NewDaily(s.now(), s.publicURL)
}

func adPtr(ad model.Ad, ok bool) *model.Ad {
	if !ok {
		return nil
	}
	return &ad
}
