package ocr

// Point is a position in pixel or normalized space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// TextElement is one recognized text fragment as produced by the
// text-detection engine. Elements are read-only once built: every stage
// downstream (layout, extraction, validation) treats them as immutable input.
type TextElement struct {
	Text             string   `json:"text"`
	Confidence       float64  `json:"confidence"` // 0..1
	BBox             [4]Point `json:"bbox"`       // four corners, pixel space
	Center           Point    `json:"center"`     // pixel space
	NormalizedCenter Point    `json:"normalized_center"`
	ImageWidth       int      `json:"image_width"`
	ImageHeight      int      `json:"image_height"`
}

// NewTextElement builds an element from a pixel-space bounding box,
// deriving the center and normalized center from the image dimensions.
func NewTextElement(text string, confidence float64, bbox [4]Point, imgWidth, imgHeight int) TextElement {
	var cx, cy float64
	for _, p := range bbox {
		cx += p.X
		cy += p.Y
	}
	cx /= 4
	cy /= 4

	el := TextElement{
		Text:        text,
		Confidence:  confidence,
		BBox:        bbox,
		Center:      Point{X: cx, Y: cy},
		ImageWidth:  imgWidth,
		ImageHeight: imgHeight,
	}
	if imgWidth > 0 && imgHeight > 0 {
		el.NormalizedCenter = Point{
			X: cx / float64(imgWidth),
			Y: cy / float64(imgHeight),
		}
	}
	return el
}

// SamePosition reports whether two elements occupy the same spot with the
// same text. Used to skip self-matches during spatial scans.
func (e TextElement) SamePosition(other TextElement) bool {
	return e.Text == other.Text &&
		e.Center.X == other.Center.X &&
		e.Center.Y == other.Center.Y
}
