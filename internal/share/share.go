package share

import (
	"fmt"
	"net/url"

	qrcode "github.com/skip2/go-qrcode"
)

// QRSize is the edge length in pixels of generated QR codes.
const QRSize = 256

// URL returns the public link to the card of id. Only the origin and path of base
// are kept, as configured; a bare origin gets the root path. The card route travels
// in the fragment.
func URL(base, id string) string {
	if u, err := url.Parse(base); err == nil {
		u.RawQuery = ""
		u.ForceQuery = false
		u.Fragment = ""
		u.RawFragment = ""
		if u.Path == "" && u.Host != "" {
			u.Path = "/"
			u.RawPath = ""
		}
		base = u.String()
	}

	return base + "#/employee/" + url.PathEscape(id)
}

// QRCode renders link as a PNG with the highest error correction level.
func QRCode(link string, size int) ([]byte, error) {
	png, err := qrcode.Encode(link, qrcode.High, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}

	return png, nil
}
