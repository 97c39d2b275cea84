// Package model defines the catalog records shared by the store, the
// persistence adapter and the HTTP layer.
//
// The JSON tags are the persisted field names; changing one changes the
// on-disk format of every backend.
package model

import (
	"strings"

	"github.com/sakif/luzplay/internal/apperror"
)

// Orientation is the aspect of a video. Wide videos are the regular 16:9
// catalog; tall videos (9:16) make up the shorts feed.
type Orientation string

const (
	OrientationWide Orientation = "wide"
	OrientationTall Orientation = "tall"
)

// Valid reports whether o is one of the known orientations.
func (o Orientation) Valid() bool {
	return o == OrientationWide || o == OrientationTall
}

// Video is a catalog entry pointing at an externally hosted video.
//
// Category holds a Category.Slug. The reference is a convention only: a video
// whose slug no longer matches a category stays in the catalog and simply
// drops out of the category sections.
type Video struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Category     string      `json:"category"`
	SourceURL    string      `json:"sourceUrl"`
	Orientation  Orientation `json:"orientation"`
	ThumbnailURL string      `json:"thumbnailUrl"`
	ViewCount    int64       `json:"viewCount"`
	CreatedAt    int64       `json:"createdAt"` // Unix milliseconds
}

// Validate checks the invariants a video must hold before it enters the store.
func (v Video) Validate() error {
	if strings.TrimSpace(v.ID) == "" {
		return apperror.ValidationFailed("id", "video id is required")
	}
	if strings.TrimSpace(v.Title) == "" {
		return apperror.ValidationFailed("title", "video title is required")
	}
	if !v.Orientation.Valid() {
		return apperror.ValidationFailed("orientation", "orientation must be wide or tall")
	}
	if v.ViewCount < 0 {
		return apperror.ValidationFailed("viewCount", "view count cannot be negative")
	}
	return nil
}

// VideoPatch carries a partial update. Nil fields are left untouched.
// ID, ViewCount and CreatedAt are deliberately absent: ids never change and
// views only move through the increment operation.
type VideoPatch struct {
	Title        *string      `json:"title,omitempty"`
	Description  *string      `json:"description,omitempty"`
	Category     *string      `json:"category,omitempty"`
	SourceURL    *string      `json:"sourceUrl,omitempty"`
	Orientation  *Orientation `json:"orientation,omitempty"`
	ThumbnailURL *string      `json:"thumbnailUrl,omitempty"`
}

// Validate rejects patches that would break Video.Validate.
func (p VideoPatch) Validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return apperror.ValidationFailed("title", "video title cannot be empty")
	}
	if p.Orientation != nil && !p.Orientation.Valid() {
		return apperror.ValidationFailed("orientation", "orientation must be wide or tall")
	}
	return nil
}

// Apply returns v with the patch merged in.
func (p VideoPatch) Apply(v Video) Video {
	if p.Title != nil {
		v.Title = *p.Title
	}
	if p.Description != nil {
		v.Description = *p.Description
	}
	if p.Category != nil {
		v.Category = *p.Category
	}
	if p.SourceURL != nil {
		v.SourceURL = *p.SourceURL
	}
	if p.Orientation != nil {
		v.Orientation = *p.Orientation
	}
	if p.ThumbnailURL != nil {
		v.ThumbnailURL = *p.ThumbnailURL
	}
	return v
}
