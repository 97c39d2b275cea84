package catalog

import (
	"strings"

	"github.com/sakif/luzplay/internal/model"
)

// The functions in this file are pure: they read the slices they are given
// and return new ones. Call them on a Snapshot, never on live state.

// Search returns the videos whose title, description or category contains
// term, ignoring case. An empty term matches nothing.
func Search(videos []model.Video, term string) []model.Video {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return []model.Video{}
	}

	out := []model.Video{}
	for _, v := range videos {
		if strings.Contains(strings.ToLower(v.Title), term) ||
			strings.Contains(strings.ToLower(v.Description), term) ||
			strings.Contains(strings.ToLower(v.Category), term) {
			out = append(out, v)
		}
	}
	return out
}

// Section is one category row on the home page.
type Section struct {
	Category model.Category `json:"category"`
	Videos   []model.Video  `json:"videos"`
}

// GroupByCategory builds a section per category, in category order, with
// the videos whose slug matches. Categories without videos are left out.
func GroupByCategory(categories []model.Category, videos []model.Video) []Section {
	out := []Section{}
	for _, c := range categories {
		var matched []model.Video
		for _, v := range videos {
			if v.Category == c.Slug {
				matched = append(matched, v)
			}
		}
		if len(matched) > 0 {
			out = append(out, Section{Category: c, Videos: matched})
		}
	}
	return out
}

// Featured picks the hero video: the first wide one, or the first of any
// orientation if there is no wide video.
func Featured(videos []model.Video) (model.Video, bool) {
	for _, v := range videos {
		if v.Orientation == model.OrientationWide {
			return v, true
		}
	}
	if len(videos) > 0 {
		return videos[0], true
	}
	return model.Video{}, false
}

// FavoriteVideos resolves favourite ids in favourite order. Ids that no
// longer match a video are skipped.
func FavoriteVideos(videos []model.Video, favorites []string) []model.Video {
	byID := make(map[string]model.Video, len(videos))
	for _, v := range videos {
		byID[v.ID] = v
	}

	out := []model.Video{}
	for _, id := range favorites {
		if v, ok := byID[id]; ok {
			out = append(out, v)
		}
	}
	return out
}

// CategoryCount is the number of videos filed under a category.
type CategoryCount struct {
	Category model.Category `json:"category"`
	Count    int            `json:"count"`
}

// CountByCategory counts videos per category, keeping categories with zero.
func CountByCategory(categories []model.Category, videos []model.Video) []CategoryCount {
	counts := make(map[string]int, len(categories))
	for _, v := range videos {
		counts[v.Category]++
	}

	out := make([]CategoryCount, 0, len(categories))
	for _, c := range categories {
		out = append(out, CategoryCount{Category: c, Count: counts[c.Slug]})
	}
	return out
}

// Shorts returns the tall videos, the vertical feed.
func Shorts(videos []model.Video) []model.Video {
	out := []model.Video{}
	for _, v := range videos {
		if v.Orientation == model.OrientationTall {
			out = append(out, v)
		}
	}
	return out
}

// ActiveAd returns the first active ad for position.
func ActiveAd(ads []model.Ad, position model.AdPosition) (model.Ad, bool) {
	for _, a := range ads {
		if a.Active && a.Position == position {
			return a, true
		}
	}
	return model.Ad{}, false
}

// TotalViews sums the view counts.
func TotalViews(videos []model.Video) int64 {
	var total int64
	for _, v := range videos {
		total += v.ViewCount
	}
	return total
}
