package model

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/luzplay/internal/apperror"
)

func TestNewAdPayload(t *testing.T) {
	tests := []struct {
		name     string
		imageURL string
		link     string
		htmlCode string
		want     AdPayload
		wantErr  bool
	}{
		{name: "banner", imageURL: "https://img/x.png", link: "#", want: Banner{ImageURL: "https://img/x.png", Link: "#"}},
		{name: "banner without link", imageURL: "https://img/x.png", want: Banner{ImageURL: "https://img/x.png"}},
		{name: "script", htmlCode: "<div>ad</div>", want: Script{HTMLCode: "<div>ad</div>"}},
		{name: "both shapes", imageURL: "https://img/x.png", htmlCode: "<div/>", wantErr: true},
		{name: "script with link", htmlCode: "<div/>", link: "https://x", wantErr: true},
		{name: "neither", wantErr: true},
		{name: "whitespace only", imageURL: "  ", htmlCode: "\t", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewAdPayload(tt.imageURL, tt.link, tt.htmlCode)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, apperror.ErrValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAdJSON_CarriesKind(t *testing.T) {
	ad := Ad{ID: "ad1", Title: "Apoie", Position: PositionTop, Active: true,
		Payload: Banner{ImageURL: "https://picsum.photos/seed/ministry/728/90", Link: "#"}}

	data, err := json.Marshal(ad)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"ad1","title":"Apoie","position":"top","active":true,
		"kind":"banner","imageUrl":"https://picsum.photos/seed/ministry/728/90","link":"#"}`, string(data))

	var back Ad
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, ad, back)
}

func TestAdJSON_LegacyRecordsInferKind(t *testing.T) {
	var ad Ad
	require.NoError(t, json.Unmarshal([]byte(`{"id":"a","title":"t","position":"footer","active":false,"htmlCode":"<b>x</b>"}`), &ad))
	assert.Equal(t, Script{HTMLCode: "<b>x</b>"}, ad.Payload)
	assert.Equal(t, PositionFooter, ad.Position)
}

func TestAdJSON_RejectsBothShapes(t *testing.T) {
	inputs := []string{
		`{"id":"a","title":"t","position":"top","imageUrl":"i","htmlCode":"<b/>"}`,
		`{"id":"a","title":"t","position":"top","kind":"banner","imageUrl":"i","htmlCode":"<b/>"}`,
		`{"id":"a","title":"t","position":"top","kind":"script","imageUrl":"i","htmlCode":"<b/>"}`,
		`{"id":"a","title":"t","position":"top","kind":"video","imageUrl":"i"}`,
	}
	for _, in := range inputs {
		var ad Ad
		assert.Error(t, json.Unmarshal([]byte(in), &ad), in)
	}
}

func TestAdValidate(t *testing.T) {
	base := Ad{ID: "x", Title: "t", Position: PositionSidebar, Payload: Script{HTMLCode: "<i/>"}}
	assert.NoError(t, base.Validate())

	noPayload := base
	noPayload.Payload = nil
	assert.Error(t, noPayload.Validate())

	badPos := base
	badPos.Position = "header"
	assert.Error(t, badPos.Validate())

	emptyBanner := base
	emptyBanner.Payload = Banner{Link: "#"}
	assert.Error(t, emptyBanner.Validate())
}

func TestVideoValidate(t *testing.T) {
	ok := Video{ID: "v1", Title: "Salmo 91", Orientation: OrientationWide}
	assert.NoError(t, ok.Validate())

	cases := map[string]Video{
		"missing id":       {Title: "x", Orientation: OrientationWide},
		"missing title":    {ID: "v", Orientation: OrientationWide},
		"bad orientation":  {ID: "v", Title: "x", Orientation: "16x9"},
		"negative viewing": {ID: "v", Title: "x", Orientation: OrientationTall, ViewCount: -1},
	}
	for name, v := range cases {
		t.Run(name, func(t *testing.T) {
			assert.True(t, errors.Is(v.Validate(), apperror.ErrValidation))
		})
	}
}

func TestVideoPatchApply(t *testing.T) {
	v := Video{ID: "v1", Title: "old", Description: "d", Orientation: OrientationWide, ViewCount: 7, CreatedAt: 42}
	title := "new"
	tall := OrientationTall

	got := VideoPatch{Title: &title, Orientation: &tall}.Apply(v)

	assert.Equal(t, "v1", got.ID)
	assert.Equal(t, "new", got.Title)
	assert.Equal(t, "d", got.Description)
	assert.Equal(t, OrientationTall, got.Orientation)
	assert.Equal(t, int64(7), got.ViewCount)
	assert.Equal(t, int64(42), got.CreatedAt)
}

func TestVideoPatchValidate(t *testing.T) {
	blank := "  "
	bad := Orientation("square")
	assert.Error(t, VideoPatch{Title: &blank}.Validate())
	assert.Error(t, VideoPatch{Orientation: &bad}.Validate())
	assert.NoError(t, VideoPatch{}.Validate())
}

func TestNormalizeSlug(t *testing.T) {
	tests := map[string]string{
		"Reflexões":          "reflexões",
		"Louvor  Adoração":   "louvor-adoração",
		"  Autoajuda Cristã ": "autoajuda-cristã",
		"biblia":             "biblia",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeSlug(in), in)
	}
}
