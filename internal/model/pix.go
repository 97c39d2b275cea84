package model

// PixSettings is the donation panel configuration. There is exactly one and
// it is always replaced as a whole.
type PixSettings struct {
	Key            string `json:"key"`
	QRCodeImageURL string `json:"qrCodeImageUrl"`
	Active         bool   `json:"active"`
}
