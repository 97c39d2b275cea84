package catalog

// Slice names one independently persisted part of the catalog state. Each
// persisted slice lives under its own key, so a write to one never touches
// the others.
type Slice string

const (
	SliceVideos     Slice = "videos"
	SliceCategories Slice = "categories"
	SliceAds        Slice = "ads"
	SliceFavorites  Slice = "favorites"
	SlicePix        Slice = "pix"
	SliceDarkMode   Slice = "dark_mode"

	// Session-only slices. They exist in State but never reach the backend.
	SliceAdmin      Slice = "admin"
	SliceSearchTerm Slice = "search_term"
)

var persistencePolicy = map[Slice]bool{
	SliceVideos:     true,
	SliceCategories: true,
	SliceAds:        true,
	SliceFavorites:  true,
	SlicePix:        true,
	SliceDarkMode:   true,
	SliceAdmin:      false,
	SliceSearchTerm: false,
}

// Persisted reports whether mutations of s are written through to storage.
// A logged-in admin must not survive a restart, and a search box is per-visit.
func (s Slice) Persisted() bool {
	return persistencePolicy[s]
}

// PersistedSlices lists the slices written to storage, one key each.
func PersistedSlices() []Slice {
	return []Slice{SliceVideos, SliceCategories, SliceAds, SliceFavorites, SlicePix, SliceDarkMode}
}
