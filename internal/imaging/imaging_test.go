// ABOUTME: Tests for image preprocessing: data-URL wrapping and resize limits
// ABOUTME: Generates synthetic PNGs in-memory; no fixture files

package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

func TestEnsureDataURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "bare base64 gets prefixed",
			in:   "aGVsbG8=",
			want: "data:image/jpeg;base64,aGVsbG8=",
		},
		{
			name: "existing data URL untouched",
			in:   "data:image/png;base64,aGVsbG8=",
			want: "data:image/png;base64,aGVsbG8=",
		},
		{
			name: "empty",
			in:   "",
			want: "data:image/jpeg;base64,",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := EnsureDataURL(tt.in); got != tt.want {
				t.Errorf("EnsureDataURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDataURL(t *testing.T) {
	t.Parallel()

	got := DataURL([]byte("abc"), "image/png")
	if got != "data:image/png;base64,YWJj" {
		t.Errorf("DataURL = %q", got)
	}
}

func makePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding test png: %v", err)
	}
	return buf.Bytes()
}

func TestPrepare_PassThrough(t *testing.T) {
	t.Parallel()

	data := makePNG(t, 64, 48)
	out, mime, err := Prepare(data, DefaultMaxDim, DefaultMaxBytes)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Error("small image should pass through unchanged")
	}
	if mime != "image/png" {
		t.Errorf("mime = %q, want image/png", mime)
	}
}

func TestPrepare_DownscalesOversized(t *testing.T) {
	t.Parallel()

	data := makePNG(t, 800, 600)
	out, mime, err := Prepare(data, 200, DefaultMaxBytes)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if mime != "image/jpeg" {
		t.Errorf("mime = %q, want image/jpeg", mime)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if cfg.Width != 200 || cfg.Height != 150 {
		t.Errorf("dimensions = %dx%d, want 200x150", cfg.Width, cfg.Height)
	}
}

func TestPrepare_EmptyInput(t *testing.T) {
	t.Parallel()

	if _, _, err := Prepare(nil, DefaultMaxDim, DefaultMaxBytes); err == nil {
		t.Fatal("expected error for empty data")
	}
}

func TestPrepare_GarbageInput(t *testing.T) {
	t.Parallel()

	if _, _, err := Prepare([]byte(strings.Repeat("x", 128)), DefaultMaxDim, DefaultMaxBytes); err == nil {
		t.Fatal("expected error for non-image data")
	}
}

func TestFitDimensions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		w, h, maxDim int
		wantW, wantH int
	}{
		{1000, 500, 200, 200, 100},
		{500, 1000, 200, 100, 200},
		{100, 100, 200, 100, 100},
		{4000, 10, 200, 200, 1},
	}

	for _, tt := range tests {
		gw, gh := fitDimensions(tt.w, tt.h, tt.maxDim)
		if gw != tt.wantW || gh != tt.wantH {
			t.Errorf("fitDimensions(%d,%d,%d) = %dx%d, want %dx%d",
				tt.w, tt.h, tt.maxDim, gw, gh, tt.wantW, tt.wantH)
		}
	}
}
