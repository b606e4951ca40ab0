package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"path"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// ProcessedImage holds the stored variants of one upload
type ProcessedImage struct {
	Original    []byte
	Thumbnail   []byte
	ContentType string
	Width       int
	Height      int
}

// Config for image processing
type Config struct {
	MaxWidth    int // originals larger than this are fitted down
	MaxHeight   int
	ThumbWidth  int // thumbnails are center-cropped to this box
	ThumbHeight int
	Quality     int // JPEG quality 1-100
}

// CampPhotoConfig is used for camp gallery images (landscape thumbnails)
func CampPhotoConfig() Config {
	return Config{MaxWidth: 2000, MaxHeight: 2000, ThumbWidth: 400, ThumbHeight: 300, Quality: 85}
}

// SlipConfig is used for payment slips (portrait, readable but small)
func SlipConfig() Config {
	return Config{MaxWidth: 1600, MaxHeight: 1600, ThumbWidth: 240, ThumbHeight: 320, Quality: 80}
}

// Processor resizes uploads and derives thumbnails
type Processor struct {
	config Config
}

// NewProcessor creates image processor
func NewProcessor(config Config) *Processor {
	if config.Quality <= 0 || config.Quality > 100 {
		config.Quality = 85
	}
	return &Processor{config: config}
}

// Process decodes an image, fits it inside the max box and builds a thumbnail
func (p *Processor) Process(reader io.Reader) (*ProcessedImage, error) {
	img, format, err := image.Decode(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	resized := img
	if img.Bounds().Dx() > p.config.MaxWidth || img.Bounds().Dy() > p.config.MaxHeight {
		resized = imaging.Fit(img, p.config.MaxWidth, p.config.MaxHeight, imaging.Lanczos)
	}

	original, contentType, err := p.encode(resized, format)
	if err != nil {
		return nil, fmt.Errorf("failed to encode original: %w", err)
	}

	thumb := imaging.Fill(img, p.config.ThumbWidth, p.config.ThumbHeight, imaging.Center, imaging.Lanczos)
	thumbnail, _, err := p.encode(thumb, format)
	if err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	return &ProcessedImage{
		Original:    original,
		Thumbnail:   thumbnail,
		ContentType: contentType,
		Width:       resized.Bounds().Dx(),
		Height:      resized.Bounds().Dy(),
	}, nil
}

// PNG stays PNG, everything else is re-encoded as JPEG
func (p *Processor) encode(img image.Image, format string) ([]byte, string, error) {
	var buf bytes.Buffer
	if format == "png" {
		if err := png.Encode(&buf, img); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "image/png", nil
	}
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.config.Quality}); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), "image/jpeg", nil
}

// Keys returns storage keys for the original and thumbnail of a new upload
// under prefix, e.g. "camps/<camp id>".
func Keys(prefix, contentType string) (original, thumb string) {
	ext := ".jpg"
	if contentType == "image/png" {
		ext = ".png"
	}
	id := uuid.New().String()
	return path.Join(prefix, id+ext), path.Join(prefix, id+"_thumb"+ext)
}
