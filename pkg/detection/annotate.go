package detection

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/webp"

	"github.com/agrisense-io/agrisense-engine/pkg/models"
)

var boxColor = color.RGBA{R: 0, G: 255, B: 0, A: 255}

const boxWidth = 2

// loadImage decodes a jpeg, png or webp file into a drawable RGBA image.
func loadImage(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image %q: %w", path, err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %q: %w", path, err)
	}

	rgba := image.NewRGBA(src.Bounds())
	draw.Draw(rgba, rgba.Bounds(), src, src.Bounds().Min, draw.Src)
	return rgba, nil
}

// saveImage writes the annotated image back to path, choosing the encoder
// from the file extension. Webp uploads are written back as JPEG since Go
// has no webp encoder.
func saveImage(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create image %q: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		err = png.Encode(f, img)
	default:
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: 90})
	}
	if err != nil {
		return fmt.Errorf("failed to encode image %q: %w", path, err)
	}
	return nil
}

// drawBox outlines one detection box with a fixed-width green rectangle.
// The four edges are filled strips clipped to the image bounds.
func drawBox(img *image.RGBA, box [4]int) {
	x1, y1, x2, y2 := box[0], box[1], box[2], box[3]
	src := &image.Uniform{C: boxColor}

	edges := []image.Rectangle{
		image.Rect(x1, y1, x2, y1+boxWidth), // top
		image.Rect(x1, y2-boxWidth, x2, y2), // bottom
		image.Rect(x1, y1, x1+boxWidth, y2), // left
		image.Rect(x2-boxWidth, y1, x2, y2), // right
	}
	for _, edge := range edges {
		draw.Draw(img, edge.Intersect(img.Bounds()), src, image.Point{}, draw.Src)
	}
}

// annotate draws every detection's box onto the image at path and
// overwrites the file.
func annotate(path string, detections []models.Detection) error {
	img, err := loadImage(path)
	if err != nil {
		return err
	}
	for _, d := range detections {
		drawBox(img, d.Box)
	}
	return saveImage(path, img)
}
