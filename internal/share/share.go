// Package share provides the daily verse shown on the home page and the
// WhatsApp texts used to share it and individual videos.
package share

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sakif/luzplay/internal/model"
)

type Verse struct {
	Text string `json:"text"`
	Ref  string `json:"ref"`
}

// Verses is the rotation the home page picks from.
var Verses = []Verse{
	{Text: "Lâmpada para os meus pés é tua palavra, e luz para o meu caminho.", Ref: "Salmos 119:105"},
	{Text: "O Senhor é o meu pastor, nada me faltará.", Ref: "Salmos 23:1"},
	{Text: "Tudo posso naquele que me fortalece.", Ref: "Filipenses 4:13"},
	{Text: "Não andeis ansiosos por coisa alguma; antes em tudo sejam os vossos pedidos conhecidos diante de Deus pela oração.", Ref: "Filipenses 4:6"},
	{Text: "Porque Deus amou o mundo de tal maneira que deu o seu Filho unigênito.", Ref: "João 3:16"},
}

// ForDay picks the verse for the calendar day of t. Everyone asking on the
// same day gets the same verse.
func ForDay(t time.Time) Verse {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
	return Verses[int(day%int64(len(Verses)))]
}

// Text formats v as a WhatsApp-friendly message inviting people to origin.
func Text(v Verse, origin string) string {
	return fmt.Sprintf("📖 *Pão Diário - LuzPlay*\n\n\"%s\"\n\n— _%s_\n\nAssista mensagens que edificam em: %s",
		v.Text, v.Ref, origin)
}

// WhatsAppURL opens a WhatsApp chat with text prefilled. Spaces are encoded
// as %20 because the WhatsApp web client does not decode "+".
func WhatsAppURL(text string) string {
	return "https://api.whatsapp.com/send?text=" + strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}

// Daily bundles everything the home page needs for the verse card.
type Daily struct {
	Verse       Verse  `json:"verse"`
	ShareText   string `json:"shareText"`
	WhatsAppURL string `json:"whatsAppUrl"`
}

func NewDaily(t time.Time, origin string) Daily {
	v := ForDay(t)
	text := Text(v, origin)
	return Daily{Verse: v, ShareText: text, WhatsAppURL: WhatsAppURL(text)}
}

// VideoText formats the message sent when a visitor shares a video card or
// a short. The link points at the site, not at YouTube.
func VideoText(v model.Video, origin string) string {
	return fmt.Sprintf("📖 *Assista na LuzPlay:* %s\n\n%s\n\nLink: %s", v.Title, v.Description, origin)
}

// Video is the share payload for one video.
type Video struct {
	VideoID     string `json:"videoId"`
	ShareText   string `json:"shareText"`
	WhatsAppURL string `json:"whatsAppUrl"`
}

func NewVideo(v model.Video, origin string) Video {
	text := VideoText(v, origin)
	return Video{VideoID: v.ID, ShareText: text, WhatsAppURL: WhatsAppURL(text)}
}
