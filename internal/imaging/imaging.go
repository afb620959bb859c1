// ABOUTME: Image preprocessing for upload: downscale, re-encode, data-URL wrap
// ABOUTME: CatmullRom resize with a JPEG quality ladder to meet size limits

package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"net/http"
	"strings"

	// Register decoders for the formats cameras and galleries produce.
	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Defaults for photos headed to the diagnosis endpoint.
const (
	DefaultMaxDim   = 1280
	DefaultMaxBytes = 2 << 20 // 2MB before base64 expansion
)

var jpegQualities = []int{85, 75, 60, 45}

// EnsureDataURL returns s unchanged when it already carries a data-URL
// prefix, and wraps bare base64 as a JPEG data URL otherwise. The client
// invariant is that images on the wire are always data URLs.
func EnsureDataURL(s string) string {
	if strings.HasPrefix(s, "data:") {
		return s
	}
	return "data:image/jpeg;base64," + s
}

// DataURL encodes raw image bytes as a data URL with the given MIME type.
func DataURL(data []byte, mime string) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// Prepare shrinks image data until it fits within maxDim pixels on the long
// edge and maxBytes encoded size, returning the bytes and their MIME type.
// Data already within both limits passes through untouched in its original
// format; anything else is re-encoded as JPEG.
func Prepare(data []byte, maxDim, maxBytes int) ([]byte, string, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("empty image data")
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("reading image header: %w", err)
	}

	if cfg.Width <= maxDim && cfg.Height <= maxDim && len(data) <= maxBytes {
		return data, http.DetectContentType(data), nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decoding image: %w", err)
	}

	w, h := fitDimensions(cfg.Width, cfg.Height, maxDim)
	out, err := encodeScaled(img, w, h, maxBytes)
	if err == nil {
		return out, "image/jpeg", nil
	}

	// Still too large at the lowest quality: shrink further.
	for _, scale := range []float64{0.75, 0.5, 0.35, 0.25} {
		sw := max(int(float64(w)*scale), 1)
		sh := max(int(float64(h)*scale), 1)
		out, err = encodeScaled(img, sw, sh, maxBytes)
		if err == nil {
			return out, "image/jpeg", nil
		}
	}

	return nil, "", fmt.Errorf("image does not fit %d bytes at any scale", maxBytes)
}

// fitDimensions shrinks w x h to fit maxDim while preserving aspect ratio.
func fitDimensions(w, h, maxDim int) (int, int) {
	if w <= maxDim && h <= maxDim {
		return w, h
	}
	if w >= h {
		return maxDim, max(h*maxDim/w, 1)
	}
	return max(w*maxDim/h, 1), maxDim
}

// encodeScaled resizes img to w x h and walks the JPEG quality ladder until
// the output fits maxBytes.
func encodeScaled(img image.Image, w, h, maxBytes int) ([]byte, error) {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	for _, q := range jpegQualities {
		buf.Reset()
		if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: q}); err != nil {
			return nil, fmt.Errorf("encoding jpeg: %w", err)
		}
		if buf.Len() <= maxBytes {
			return bytes.Clone(buf.Bytes()), nil
		}
	}
	return nil, fmt.Errorf("jpeg exceeds %d bytes at quality %d", maxBytes, jpegQualities[len(jpegQualities)-1])
}
