package safe

import (
	"fmt"
)

func ValidateMatForOperation(mat *Mat, operation string) error {
	if mat == nil {
		return fmt.Errorf("Mat is nil for operation: %s", operation)
	}

	if !mat.IsValid() {
		return fmt.Errorf("Mat is invalid for operation: %s", operation)
	}

	if mat.Empty() {
		return fmt.Errorf("Mat is empty for operation: %s", operation)
	}

	if mat.Rows() <= 0 || mat.Cols() <= 0 {
		return fmt.Errorf("Mat has invalid dimensions %dx%d for operation: %s",
			mat.Cols(), mat.Rows(), operation)
	}

	return nil
}

// ValidateSameSize checks that b has a's geometry, which every per-pixel
// comparison between consecutive frames needs.
func ValidateSameSize(a, b *Mat, operation string) error {
	if a.Rows() != b.Rows() || a.Cols() != b.Cols() {
		return fmt.Errorf("size mismatch %dx%d vs %dx%d for operation: %s",
			a.Cols(), a.Rows(), b.Cols(), b.Rows(), operation)
	}
	if a.Channels() != b.Channels() {
		return fmt.Errorf("channel mismatch %d vs %d for operation: %s",
			a.Channels(), b.Channels(), operation)
	}
	return nil
}

func ValidateChannels(mat *Mat, operation string, allowed ...int) error {
	channels := mat.Channels()
	for _, c := range allowed {
		if c == channels {
			return nil
		}
	}
	return fmt.Errorf("unsupported channel count %d for operation: %s", channels, operation)
}
