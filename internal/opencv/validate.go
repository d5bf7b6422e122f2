package opencv

import (
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// MaxDimension bounds either side of a decoded frame.
const MaxDimension = 32768

func validateMat(mat gocv.Mat, operation string) error {
	if mat.Empty() {
		return errors.Errorf("mat is empty for operation: %s", operation)
	}
	if err := ValidateDimensions(mat.Cols(), mat.Rows(), operation); err != nil {
		return err
	}
	return ValidateMatType(mat.Type(), operation)
}

func ValidateDimensions(width, height int, operation string) error {
	if width <= 0 || height <= 0 {
		return errors.Errorf("invalid dimensions %dx%d for operation: %s", width, height, operation)
	}
	if width > MaxDimension || height > MaxDimension {
		return errors.Errorf("dimensions %dx%d exceed maximum size for operation: %s", width, height, operation)
	}
	return nil
}

// ValidateMatType accepts the depths detectors write: 8/16-bit unsigned,
// 16/32-bit signed and 32/64-bit float, with one, three or four channels.
func ValidateMatType(matType gocv.MatType, operation string) error {
	switch matType {
	case gocv.MatTypeCV8UC1, gocv.MatTypeCV8UC3, gocv.MatTypeCV8UC4,
		gocv.MatTypeCV16UC1, gocv.MatTypeCV16UC3, gocv.MatTypeCV16UC4,
		gocv.MatTypeCV16SC1, gocv.MatTypeCV32SC1,
		gocv.MatTypeCV32FC1, gocv.MatTypeCV32FC3, gocv.MatTypeCV32FC4,
		gocv.MatTypeCV64FC1:
		return nil
	}
	return errors.Errorf("unsupported MatType %d for operation: %s", int(matType), operation)
}
