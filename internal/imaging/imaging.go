// Package imaging normalises uploaded lost-item photos before they are
// written to the object store.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"
)

// MaxUploadBytes caps how much of an upload is read.
const MaxUploadBytes = 10 << 20

// MaxDimension is the longest edge of a stored photo.
const MaxDimension = 1024

// JPEGQuality is the compression quality of stored photos.
const JPEGQuality = 85

// Ext is the extension of every processed photo.
const Ext = ".jpg"

var (
	// ErrUnsupportedFormat is returned for anything other than JPEG or PNG.
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrTooLarge is returned when the upload exceeds MaxUploadBytes.
	ErrTooLarge = errors.New("image too large")
	// ErrEmpty is returned for a zero-byte upload.
	ErrEmpty = errors.New("empty image")
)

var allowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Photo is a processed, ready-to-store image.
type Photo struct {
	Data   []byte
	MIME   string
	Width  int
	Height int
}

// Process reads an uploaded photo, sniffs its real type, shrinks it to fit
// MaxDimension and re-encodes it as JPEG.
func Process(r io.Reader) (*Photo, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	if len(data) > MaxUploadBytes {
		return nil, ErrTooLarge
	}

	// Client-supplied content types are ignored.
	detected := http.DetectContentType(data)
	if !allowedMIME[detected] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, detected)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	img = fit(img, MaxDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encoding JPEG: %w", err)
	}

	b := img.Bounds()
	return &Photo{
		Data:   buf.Bytes(),
		MIME:   "image/jpeg",
		Width:  b.Dx(),
		Height: b.Dy(),
	}, nil
}

// fit scales img down with Catmull-Rom so neither edge exceeds maxDim.
// Smaller images are returned untouched.
func fit(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}

	newW, newH := maxDim, maxDim
	if w > h {
		newH = max(1, h*maxDim/w)
	} else {
		newW = max(1, w*maxDim/h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

func init() {
	image.RegisterFormat("jpeg", "\xff\xd8", jpeg.Decode, jpeg.DecodeConfig)
	image.RegisterFormat("png", "\x89PNG", png.Decode, png.DecodeConfig)
}
