package scan

import "fmt"

// LoadError reports that the input image could not be decoded.
type LoadError struct {
	Err error
}

func (e *LoadError) Error() string { return fmt.Sprintf("load image: %v", e.Err) }
func (e *LoadError) Unwrap() error { return e.Err }

// DetectionError reports that no document boundary was found in the image.
type DetectionError struct {
	Err error
}

func (e *DetectionError) Error() string { return fmt.Sprintf("detect document: %v", e.Err) }
func (e *DetectionError) Unwrap() error { return e.Err }

// DegenerateQuadError reports that the detected quadrilateral collapsed
// during corner ordering and cannot define a perspective transform.
type DegenerateQuadError struct {
	Err error
}

func (e *DegenerateQuadError) Error() string { return fmt.Sprintf("order corners: %v", e.Err) }
func (e *DegenerateQuadError) Unwrap() error { return e.Err }

// EnhancementError reports a failure in the enhancement stage, including an
// unrecognized mode.
type EnhancementError struct {
	Mode string
	Err  error
}

func (e *EnhancementError) Error() string { return fmt.Sprintf("enhance (%s): %v", e.Mode, e.Err) }
func (e *EnhancementError) Unwrap() error { return e.Err }
