package geometry

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/hylla/gridcell/internal/domain"
)

// RenderMode selects how a pixel box is encoded for rendering.
type RenderMode string

// RenderMode values.
const (
	RenderTransform RenderMode = "transform"
	RenderTopLeft   RenderMode = "top-left"
	RenderPercent   RenderMode = "percent"
)

// ParseRenderMode normalizes one render mode name.
func ParseRenderMode(raw string) (RenderMode, error) {
	switch mode := RenderMode(strings.ToLower(strings.TrimSpace(raw))); mode {
	case RenderTransform, RenderTopLeft, RenderPercent:
		return mode, nil
	case "":
		return RenderTransform, nil
	default:
		return "", fmt.Errorf("unknown render mode %q", raw)
	}
}

// Declaration is one CSS property/value pair.
type Declaration struct {
	Property string `json:"property"`
	Value    string `json:"value"`
}

// Style is the position descriptor handed to the rendering layer.
type Style struct {
	Mode         RenderMode       `json:"mode"`
	Box          domain.PixelRect `json:"box"`
	Declarations []Declaration    `json:"declarations"`
}

// NewStyle encodes box for mode. Percent mode expresses the horizontal axis
// relative to containerWidth for static rendering before the width is known.
func NewStyle(mode RenderMode, box domain.PixelRect, containerWidth float64) Style {
	top := px(box.Top)
	left := px(box.Left)
	width := px(box.Width)
	height := px(box.Height)

	var decls []Declaration
	switch mode {
	case RenderTopLeft:
		decls = []Declaration{
			{"top", top},
			{"left", left},
			{"width", width},
			{"height", height},
			{"position", "absolute"},
		}
	case RenderPercent:
		decls = []Declaration{
			{"top", top},
			{"left", perc(box.Left, containerWidth)},
			{"width", perc(box.Width, containerWidth)},
			{"height", height},
			{"position", "absolute"},
		}
	default:
		mode = RenderTransform
		translate := fmt.Sprintf("translate(%s,%s)", left, top)
		decls = []Declaration{
			{"transform", translate},
			{"-webkit-transform", translate},
			{"width", width},
			{"height", height},
			{"position", "absolute"},
		}
	}
	return Style{Mode: mode, Box: box, Declarations: decls}
}

// CSS renders the declarations as an inline style string.
func (s Style) CSS() string {
	parts := make([]string, 0, len(s.Declarations))
	for _, d := range s.Declarations {
		parts = append(parts, d.Property+": "+d.Value)
	}
	return strings.Join(parts, "; ")
}

// px formats one rounded pixel value.
func px(v float64) string {
	return strconv.FormatInt(int64(math.Round(v)), 10) + "px"
}

// perc formats v as a percentage of total.
func perc(v, total float64) string {
	if total <= 0 {
		return "0%"
	}
	return strconv.FormatFloat(v/total*100, 'f', -1, 64) + "%"
}
