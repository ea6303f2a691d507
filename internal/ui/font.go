// Package ui implements the board window using Ebitengine.
package ui

import (
	"bytes"
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

type fontStyle int

const (
	styleRegular fontStyle = iota
	styleBold
)

const (
	hintFontSize   = 14.0
	statusFontSize = 16.0
)

type faceKey struct {
	style fontStyle
	size  int // quarter pixels
}

// fontCache hands out Go font faces by style and device pixel size. Faces
// are built on first use and kept, so redrawing at a stable window size
// allocates nothing.
type fontCache struct {
	sources [2]*text.GoTextFaceSource
	faces   map[faceKey]*text.GoTextFace
}

func newFontCache() (*fontCache, error) {
	regular, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("load regular font: %w", err)
	}
	bold, err := text.NewGoTextFaceSource(bytes.NewReader(gobold.TTF))
	if err != nil {
		return nil, fmt.Errorf("load bold font: %w", err)
	}
	return &fontCache{
		sources: [2]*text.GoTextFaceSource{regular, bold},
		faces:   make(map[faceKey]*text.GoTextFace),
	}, nil
}

// face returns the face for style at size. A nil cache yields nil, and
// callers skip text in that case.
func (fc *fontCache) face(style fontStyle, size float64) *text.GoTextFace {
	if fc == nil || size <= 0 {
		return nil
	}
	key := faceKey{style: style, size: int(math.Round(size * 4))}
	if f, ok := fc.faces[key]; ok {
		return f
	}
	f := &text.GoTextFace{Source: fc.sources[style], Size: float64(key.size) / 4}
	fc.faces[key] = f
	return f
}

// labelSize is the coordinate label size for a square size in device pixels.
func labelSize(squarePx float64) float64 {
	return squarePx / 6
}

func measureText(s string, face *text.GoTextFace) (width, height float64) {
	if face == nil {
		return 0, 0
	}
	return text.Measure(s, face, 0)
}
