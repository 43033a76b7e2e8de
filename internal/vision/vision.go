package vision

import "context"

// Result is recognized text plus the OCR engine's confidence, 0 to 100.
type Result struct {
	Text       string `json:"text"`
	Confidence int    `json:"confidence"`
}

// Detector turns captured label images into text.
type Detector interface {
	Detect(ctx context.Context, imageBase64 string) (Result, error)
}
