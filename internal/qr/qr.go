// Package qr builds the return links printed on item labels.
package qr

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// DefaultSize is the edge length in pixels of label codes.
const DefaultSize = 256

// ReturnURL is the link a finder scans to confirm a return.
func ReturnURL(baseURL, token string) string {
	return strings.TrimRight(baseURL, "/") + "/return/" + url.PathEscape(token)
}

// RequestBaseURL derives scheme://host from an incoming request, honouring
// X-Forwarded-Proto when the service sits behind a proxy.
func RequestBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if p := r.Header.Get("X-Forwarded-Proto"); p == "http" || p == "https" {
		scheme = p
	}
	return scheme + "://" + r.Host
}

// PNG renders content as a QR code image.
func PNG(content string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultSize
	}
	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encoding qr code: %w", err)
	}
	return png, nil
}
