package ocr

import "context"

// Engine is the external text-detection collaborator. Implementations wrap
// whatever OCR backend is in use; the extraction core only requires a fully
// materialized element list per document.
type Engine interface {
	DetectText(ctx context.Context, image []byte) ([]TextElement, error)
}
