// Package opencv decodes detector frames through gocv. It accepts every
// format OpenCV can read and keeps the native bit depth.
package opencv

import (
	"context"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"peak-overlay/internal/logger"
	"peak-overlay/internal/models"
)

const BackendName = "opencv"

type Reader struct {
	logger logger.Logger
}

func NewReader(log logger.Logger) *Reader {
	if log == nil {
		log = logger.Nop()
	}
	return &Reader{logger: log}
}

func (r *Reader) Name() string {
	return BackendName
}

// Load reads path as a single-channel intensity grid. Row 0 of the grid is
// the first row stored in the file.
func (r *Reader) Load(ctx context.Context, path string) (*models.Grid, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mat := gocv.IMRead(path, gocv.IMReadAnyDepth|gocv.IMReadAnyColor)
	defer mat.Close()
	if mat.Empty() {
		return nil, errors.Errorf("opencv could not read %s", path)
	}
	if err := validateMat(mat, "load"); err != nil {
		return nil, errors.Wrap(err, path)
	}

	gray, err := toGray(mat)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	defer gray.Close()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	floats := gocv.NewMat()
	defer floats.Close()
	gray.ConvertTo(&floats, gocv.MatTypeCV32F)

	raw, err := floats.DataPtrFloat32()
	if err != nil {
		return nil, errors.Wrap(err, "read float data")
	}

	values := make([]float64, len(raw))
	for i, v := range raw {
		values[i] = float64(v)
	}

	r.logger.Debug("OpenCVReader", "image decoded", map[string]interface{}{
		"path":     path,
		"width":    floats.Cols(),
		"height":   floats.Rows(),
		"mat_type": int(mat.Type()),
	})
	return models.NewGridFromData(floats.Cols(), floats.Rows(), values)
}

// toGray returns a single-channel copy of src. Colour frames are averaged
// down with the usual BGR weights.
func toGray(src gocv.Mat) (gocv.Mat, error) {
	dst := gocv.NewMat()
	switch src.Channels() {
	case 1:
		src.CopyTo(&dst)
	case 3:
		gocv.CvtColor(src, &dst, gocv.ColorBGRToGray)
	case 4:
		gocv.CvtColor(src, &dst, gocv.ColorBGRAToGray)
	default:
		dst.Close()
		return gocv.Mat{}, errors.Errorf("unsupported channel count: %d", src.Channels())
	}
	return dst, nil
}
