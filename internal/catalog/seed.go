package catalog

import (
	"time"

	"github.com/sakif/luzplay/internal/model"
)

// Defaults is the state a fresh install starts from, and what each slice
// falls back to when its persisted value is missing or unreadable.
type Defaults struct {
	Videos     []model.Video
	Categories []model.Category
	Ads        []model.Ad
	Favorites  []string
	Pix        model.PixSettings
	DarkMode   bool
}

// SeedDefaults returns the starter catalog. Video timestamps are spread just
// before now so the seed sorts as "recent".
func SeedDefaults(now time.Time) Defaults {
	ms := now.UnixMilli()
	return Defaults{
		Categories: []model.Category{
			{ID: "1", Name: "Reflexões", Slug: "reflexoes"},
			{ID: "2", Name: "Orações", Slug: "oracoes"},
			{ID: "3", Name: "Mensagem Bíblica", Slug: "biblia"},
			{ID: "4", Name: "Louvor & Adoração", Slug: "louvor"},
			{ID: "5", Name: "Autoajuda Cristã", Slug: "autoajuda"},
		},
		Videos: []model.Video{
			{
				ID:           "v1",
				Title:        "O Poder da Esperança em Dias Difíceis",
				Description:  "Uma reflexão profunda sobre como manter a fé quando tudo parece perdido.",
				Category:     "reflexoes",
				SourceURL:    "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
				Orientation:  model.OrientationWide,
				ThumbnailURL: "https://images.unsplash.com/photo-1499209974431-9dac3adaf471?auto=format&fit=crop&q=80&w=1280&h=720",
				ViewCount:    1250,
				CreatedAt:    ms - 100000,
			},
			{
				ID:           "v2",
				Title:        "Oração da Manhã: Gratidão",
				Description:  "Comece seu dia com esta oração poderosa de agradecimento.",
				Category:     "oracoes",
				SourceURL:    "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
				Orientation:  model.OrientationTall,
				ThumbnailURL: "https://images.unsplash.com/photo-1544427920-c49ccfb85579?auto=format&fit=crop&q=80&w=720&h=1280",
				ViewCount:    8500,
				CreatedAt:    ms - 200000,
			},
			{
				ID:           "v3",
				Title:        "Salmo 91: A Proteção Divina",
				Description:  "A leitura completa do Salmo 91 para proteção de sua família.",
				Category:     "biblia",
				SourceURL:    "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
				Orientation:  model.OrientationWide,
				ThumbnailURL: "https://images.unsplash.com/photo-1504052434569-70ad5836ab65?auto=format&fit=crop&q=80&w=1280&h=720",
				ViewCount:    320,
				CreatedAt:    ms - 300000,
			},
			{
				ID:           "v4",
				Title:        "3 Versículos para sua Ansiedade",
				Description:  "Pílulas de paz para o seu coração hoje.",
				Category:     "autoajuda",
				SourceURL:    "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
				Orientation:  model.OrientationTall,
				ThumbnailURL: "https://images.unsplash.com/photo-1493612276216-ee3925520721?auto=format&fit=crop&q=80&w=720&h=1280",
				ViewCount:    42100,
				CreatedAt:    ms - 400000,
			},
		},
		Ads: []model.Ad{
			{
				ID:       "ad1",
				Title:    "Apoie nosso Ministério",
				Position: model.PositionTop,
				Active:   true,
				Payload:  model.Banner{ImageURL: "https://picsum.photos/seed/ministry/728/90", Link: "#"},
			},
			{
				ID:       "ad2",
				Title:    "Bíblia de Estudo Digital",
				Position: model.PositionSidebar,
				Active:   true,
				Payload:  model.Banner{ImageURL: "https://picsum.photos/seed/bible/300/250", Link: "#"},
			},
		},
		Favorites: []string{},
		Pix: model.PixSettings{
			Key:            "suachavepix@aqui.com",
			QRCodeImageURL: "https://api.qrserver.com/v1/create-qr-code/?size=150x150&data=ExemploPix",
			Active:         true,
		},
		DarkMode: true,
	}
}
