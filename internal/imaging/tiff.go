// Package imaging decodes detector frames without cgo. Only TIFF is
// supported, which covers the frames most area detectors write.
package imaging

import (
	"context"
	"image"
	"image/color"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/image/tiff"

	"peak-overlay/internal/logger"
	"peak-overlay/internal/models"
)

const BackendName = "tiff"

type TIFFReader struct {
	logger logger.Logger
}

func NewTIFFReader(log logger.Logger) *TIFFReader {
	if log == nil {
		log = logger.Nop()
	}
	return &TIFFReader{logger: log}
}

func (r *TIFFReader) Name() string {
	return BackendName
}

// Load decodes path into an intensity grid. 16-bit samples keep their full
// range; colour images are reduced to luminance.
func (r *TIFFReader) Load(ctx context.Context, path string) (*models.Grid, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open image")
	}
	defer f.Close()

	img, err := tiff.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "decode tiff %s", path)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	grid, err := GridFromImage(img)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}

	r.logger.Debug("TIFFReader", "image decoded", map[string]interface{}{
		"path":   path,
		"width":  grid.Width,
		"height": grid.Height,
		"model":  modelName(img),
	})
	return grid, nil
}

// GridFromImage copies the intensities of img into a grid. The top image
// row becomes grid row 0.
func GridFromImage(img image.Image) (*models.Grid, error) {
	b := img.Bounds()
	grid, err := models.NewGrid(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}

	switch src := img.(type) {
	case *image.Gray16:
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				grid.Set(x, y, float64(src.Gray16At(b.Min.X+x, b.Min.Y+y).Y))
			}
		}
	case *image.Gray:
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				grid.Set(x, y, float64(src.GrayAt(b.Min.X+x, b.Min.Y+y).Y))
			}
		}
	default:
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				g := color.Gray16Model.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray16)
				grid.Set(x, y, float64(g.Y))
			}
		}
	}
	return grid, nil
}

func modelName(img image.Image) string {
	switch img.ColorModel() {
	case color.Gray16Model:
		return "gray16"
	case color.GrayModel:
		return "gray8"
	case color.RGBA64Model, color.NRGBA64Model:
		return "rgb16"
	default:
		return "rgb8"
	}
}
