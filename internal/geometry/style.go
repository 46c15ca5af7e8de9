package geometry

import (
	"image/color"
	"strings"
)

// Kind identifies the kind of an annotation shape.
type Kind string

const (
	// KindFreehand is a smoothed pen stroke built from pressure samples.
	KindFreehand Kind = "freehand"
	// KindHighlighter is a wider, semi-transparent freehand stroke.
	KindHighlighter Kind = "highlighter"
	// KindRectangle is an axis-aligned rectangle between two anchors.
	KindRectangle Kind = "rectangle"
	// KindEllipse is an ellipse inscribed in the anchor rectangle.
	KindEllipse Kind = "ellipse"
	// KindLine is a straight segment between two anchors.
	KindLine Kind = "line"
	// KindArrow is a line with an arrowhead at the second anchor.
	KindArrow Kind = "arrow"
	// KindText is a text annotation anchored at its first anchor.
	KindText Kind = "text"
)

// IsValid reports whether the kind is part of the closed enumeration.
func (k Kind) IsValid() bool {
	switch k {
	case KindFreehand, KindHighlighter, KindRectangle, KindEllipse, KindLine, KindArrow, KindText:
		return true
	default:
		return false
	}
}

// IsFreehand reports whether geometry grows by appending samples.
func (k Kind) IsFreehand() bool {
	return k == KindFreehand || k == KindHighlighter
}

// IsParametric reports whether geometry is replaced wholesale as anchors.
func (k Kind) IsParametric() bool {
	switch k {
	case KindRectangle, KindEllipse, KindLine, KindArrow:
		return true
	default:
		return false
	}
}

// ParseKind normalizes a recorded kind string.
func ParseKind(value string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(value)))
	if !k.IsValid() {
		return "", false
	}
	return k, true
}

// Style carries the visual attributes of a shape.
type Style struct {
	Color     color.RGBA `json:"color"`
	Thickness float64    `json:"thickness"`
	// Opacity in [0, 1]; highlighters record about 0.5.
	Opacity   float64    `json:"opacity"`
	Filled    bool       `json:"filled,omitempty"`
	FillColor color.RGBA `json:"fill_color,omitempty"`
	// FontSize applies to text shapes only, in slide-space units.
	FontSize float64 `json:"font_size,omitempty"`
}

// highlighterOpacity is applied when a highlighter records full opacity.
const highlighterOpacity = 0.5

// EffectiveOpacity returns the opacity to paint with, defaulting unset
// values to fully opaque and capping highlighters.
func (s Style) EffectiveOpacity(kind Kind) float64 {
	op := s.Opacity
	if op <= 0 || op > 1 {
		op = 1
	}
	if kind == KindHighlighter && op > highlighterOpacity {
		op = highlighterOpacity
	}
	return op
}
