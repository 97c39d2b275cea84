package model

import (
	"strings"

	"github.com/sakif/luzplay/internal/apperror"
)

// Category groups videos on the home page. Videos reference it by Slug.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return apperror.ValidationFailed("id", "category id is required")
	}
	if strings.TrimSpace(c.Name) == "" {
		return apperror.ValidationFailed("name", "category name is required")
	}
	if strings.TrimSpace(c.Slug) == "" {
		return apperror.ValidationFailed("slug", "category slug is required")
	}
	return nil
}

// NormalizeSlug lower-cases s and replaces every run of whitespace with a
// single hyphen: "Louvor  Adoração" becomes "louvor-adoração".
func NormalizeSlug(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}
