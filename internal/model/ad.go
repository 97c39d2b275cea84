package model

import (
	"encoding/json"
	"strings"

	"github.com/sakif/luzplay/internal/apperror"
)

// AdPosition is the slot an ad is rendered in.
type AdPosition string

const (
	PositionTop      AdPosition = "top"
	PositionSidebar  AdPosition = "sidebar"
	PositionFooter   AdPosition = "footer"
	PositionPreRoll  AdPosition = "pre-roll"
	PositionPostRoll AdPosition = "post-roll"
)

func (p AdPosition) Valid() bool {
	switch p {
	case PositionTop, PositionSidebar, PositionFooter, PositionPreRoll, PositionPostRoll:
		return true
	}
	return false
}

// PayloadKind is the discriminant written next to an ad's payload fields.
type PayloadKind string

const (
	PayloadBanner PayloadKind = "banner"
	PayloadScript PayloadKind = "script"
)

// AdPayload is what an ad renders: either a Banner or a Script, never both.
// The unexported method seals the set of implementations to this package.
type AdPayload interface {
	Kind() PayloadKind
	validate() error
}

// Banner is an image linking somewhere.
type Banner struct {
	ImageURL string `json:"imageUrl"`
	Link     string `json:"link"`
}

func (Banner) Kind() PayloadKind { return PayloadBanner }

func (b Banner) validate() error {
	if strings.TrimSpace(b.ImageURL) == "" {
		return apperror.ValidationFailed("imageUrl", "banner ads need an image URL")
	}
	return nil
}

// Script is raw markup injected into the ad slot.
type Script struct {
	HTMLCode string `json:"htmlCode"`
}

func (Script) Kind() PayloadKind { return PayloadScript }

func (s Script) validate() error {
	if strings.TrimSpace(s.HTMLCode) == "" {
		return apperror.ValidationFailed("htmlCode", "script ads need HTML code")
	}
	return nil
}

// NewAdPayload picks the payload shape from the fields an admin form submits.
// Supplying both an image and HTML code is rejected.
func NewAdPayload(imageURL, link, htmlCode string) (AdPayload, error) {
	hasImage := strings.TrimSpace(imageURL) != ""
	hasHTML := strings.TrimSpace(htmlCode) != ""

	switch {
	case hasImage && hasHTML:
		return nil, apperror.ValidationFailed("payload", "an ad is either an image banner or HTML code, not both")
	case hasHTML:
		if strings.TrimSpace(link) != "" {
			return nil, apperror.ValidationFailed("link", "script ads cannot carry a link")
		}
		return Script{HTMLCode: htmlCode}, nil
	case hasImage:
		return Banner{ImageURL: imageURL, Link: link}, nil
	default:
		return nil, apperror.ValidationFailed("payload", "an ad needs an image URL or HTML code")
	}
}

// Ad is a promotional slot filler.
type Ad struct {
	ID       string
	Title    string
	Position AdPosition
	Active   bool
	Payload  AdPayload
}

func (a Ad) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return apperror.ValidationFailed("id", "ad id is required")
	}
	if strings.TrimSpace(a.Title) == "" {
		return apperror.ValidationFailed("title", "ad title is required")
	}
	if !a.Position.Valid() {
		return apperror.ValidationFailed("position", "unknown ad position "+string(a.Position))
	}
	if a.Payload == nil {
		return apperror.ValidationFailed("payload", "an ad needs an image URL or HTML code")
	}
	return a.Payload.validate()
}

// adJSON is the flat wire/persisted shape of an Ad.
type adJSON struct {
	ID       string      `json:"id"`
	Title    string      `json:"title"`
	Position AdPosition  `json:"position"`
	Active   bool        `json:"active"`
	Kind     PayloadKind `json:"kind,omitempty"`
	ImageURL string      `json:"imageUrl,omitempty"`
	Link     string      `json:"link,omitempty"`
	HTMLCode string      `json:"htmlCode,omitempty"`
}

func (a Ad) MarshalJSON() ([]byte, error) {
	out := adJSON{
		ID:       a.ID,
		Title:    a.Title,
		Position: a.Position,
		Active:   a.Active,
	}
	switch p := a.Payload.(type) {
	case Banner:
		out.Kind = PayloadBanner
		out.ImageURL = p.ImageURL
		out.Link = p.Link
	case Script:
		out.Kind = PayloadScript
		out.HTMLCode = p.HTMLCode
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts records with an explicit kind as well as older
// records where the shape is implied by which fields are set.
func (a *Ad) UnmarshalJSON(data []byte) error {
	var in adJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	var payload AdPayload
	switch in.Kind {
	case PayloadBanner:
		if in.HTMLCode != "" {
			return apperror.ValidationFailed("payload", "banner ad "+in.ID+" also carries HTML code")
		}
		payload = Banner{ImageURL: in.ImageURL, Link: in.Link}
	case PayloadScript:
		if in.ImageURL != "" {
			return apperror.ValidationFailed("payload", "script ad "+in.ID+" also carries an image")
		}
		payload = Script{HTMLCode: in.HTMLCode}
	case "":
		p, err := NewAdPayload(in.ImageURL, in.Link, in.HTMLCode)
		if err != nil {
			return err
		}
		payload = p
	default:
		return apperror.ValidationFailed("kind", "unknown ad kind "+string(in.Kind))
	}

	*a = Ad{
		ID:       in.ID,
		Title:    in.Title,
		Position: in.Position,
		Active:   in.Active,
		Payload:  payload,
	}
	return nil
}
