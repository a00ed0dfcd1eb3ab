// Package media re-encodes uploaded photos to WebP and stores them on local disk.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	MaxUploadBytes = 10 << 20
	MaxWidth       = 1600
	MaxHeight      = 1600
	webpQuality    = 80
)

var ErrUnsupportedImage = errors.New("unsupported image format (use jpg, png or webp)")

// decodeImage sniffs the content and falls back on the file extension.
func decodeImage(all []byte, filename string) (image.Image, error) {
	if len(all) == 0 {
		return nil, errors.New("empty file")
	}
	head := all
	if len(head) > 512 {
		head = head[:512]
	}
	ct := http.DetectContentType(head)
	r := bytes.NewReader(all)

	switch {
	case strings.Contains(ct, "jpeg"):
		return jpeg.Decode(r)
	case strings.Contains(ct, "png"):
		return png.Decode(r)
	case strings.Contains(ct, "webp"):
		return webp.Decode(r)
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return jpeg.Decode(r)
	case ".png":
		return png.Decode(r)
	case ".webp":
		return webp.Decode(r)
	}
	return nil, ErrUnsupportedImage
}

// ToWebP decodes, downsizes to fit MaxWidth x MaxHeight (never upscales) and encodes lossy WebP.
func ToWebP(all []byte, filename string) ([]byte, error) {
	img, err := decodeImage(all, filename)
	if err != nil {
		if errors.Is(err, ErrUnsupportedImage) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	b := img.Bounds()
	if b.Dx() > MaxWidth || b.Dy() > MaxHeight {
		img = imaging.Fit(img, MaxWidth, MaxHeight, imaging.Lanczos)
	}
	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, img, &webp.Options{Quality: webpQuality}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}
	return buf.Bytes(), nil
}

// LocalStore writes files under Dir and serves them from BaseURL + "/uploads".
type LocalStore struct {
	Dir     string
	BaseURL string
}

func NewLocalStore(dir, baseURL string) *LocalStore {
	return &LocalStore{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}
}

// SavePhoto converts the upload and stores it as <Dir>/<folder>/<uuid>.webp, returning its public URL.
func (s *LocalStore) SavePhoto(folder string, all []byte, filename string) (string, error) {
	data, err := ToWebP(all, filename)
	if err != nil {
		return "", err
	}
	name := uuid.NewString() + ".webp"
	dir := filepath.Join(s.Dir, filepath.FromSlash(folder))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write photo: %w", err)
	}
	return s.BaseURL + path.Join("/uploads", folder, name), nil
}
