// Package bigchar draws a single glyph as half-block art, used to show the
// Day Master stem large in the interactive view.
package bigchar

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// FontPaths are the CJK fonts tried by Default, in order.
var FontPaths = []string{
	// macOS
	"/System/Library/Fonts/STHeiti Light.ttc",
	"/System/Library/Fonts/PingFang.ttc",
	"/System/Library/Fonts/Hiragino Sans GB.ttc",
	"/Library/Fonts/Arial Unicode.ttf",
	// Linux
	"/usr/share/fonts/opentype/noto/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/noto-cjk/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/truetype/noto/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/truetype/droid/DroidSansFallbackFull.ttf",
	// Windows
	"C:\\Windows\\Fonts\\msyh.ttc",
	"C:\\Windows\\Fonts\\simsun.ttc",
}

// threshold is the gray level above which a half cell is lit.
const threshold = 40

// Painter renders glyphs with one font face and caches the results.
type Painter struct {
	face font.Face

	mu    sync.Mutex
	cache map[string]string
}

// Parse builds a Painter from font data, accepting a collection or a single
// font.
func Parse(data []byte) (*Painter, error) {
	opts := &opentype.FaceOptions{Size: 64, DPI: 72}

	if coll, err := opentype.ParseCollection(data); err == nil && coll.NumFonts() > 0 {
		if fnt, err := coll.Font(0); err == nil {
			if face, err := opentype.NewFace(fnt, opts); err == nil {
				return &Painter{face: face, cache: make(map[string]string)}, nil
			}
		}
	}

	fnt, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}
	face, err := opentype.NewFace(fnt, opts)
	if err != nil {
		return nil, fmt.Errorf("creating face: %w", err)
	}
	return &Painter{face: face, cache: make(map[string]string)}, nil
}

// Load returns a Painter for the first readable font in paths.
func Load(paths []string) (*Painter, error) {
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if p, err := Parse(data); err == nil {
			return p, nil
		}
	}
	return nil, fmt.Errorf("no usable CJK font among %d candidates", len(paths))
}

var (
	defaultOnce    sync.Once
	defaultPainter *Painter
)

// Default returns a Painter over the first system font in FontPaths, or nil
// when none is installed.
func Default() *Painter {
	defaultOnce.Do(func() {
		defaultPainter, _ = Load(FontPaths)
	})
	return defaultPainter
}

// Block renders glyph in cols by rows terminal cells. A nil Painter renders
// nothing.
func (p *Painter) Block(glyph string, cols, rows int) string {
	if p == nil || glyph == "" || cols < 1 || rows < 1 {
		return ""
	}

	key := fmt.Sprintf("%s/%dx%d", glyph, cols, rows)
	p.mu.Lock()
	defer p.mu.Unlock()
	if s, ok := p.cache[key]; ok {
		return s
	}

	s := HalfBlocks(scaleDown(p.draw(glyph), cols, rows*2), cols, rows)
	p.cache[key] = s
	return s
}

// draw paints glyph white on black at the face's natural size.
func (p *Painter) draw(glyph string) *image.Gray {
	r := []rune(glyph)[0]
	bounds, _, _ := p.face.GlyphBounds(r)
	w := (bounds.Max.X - bounds.Min.X).Ceil()
	h := (bounds.Max.Y - bounds.Min.Y).Ceil()

	const padding = 4
	srcW := max(w+padding*2, 64)
	srcH := max(h+padding*2, 64)

	img := image.NewGray(image.Rect(0, 0, srcW, srcH))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.Black}, image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: p.face,
		Dot:  fixed.P((srcW-w)/2, srcH-padding-bounds.Max.Y.Ceil()),
	}
	d.DrawString(string(r))
	return img
}

// scaleDown shrinks src to w by h by averaging each source region.
func scaleDown(src *image.Gray, w, h int) *image.Gray {
	srcW, srcH := src.Bounds().Max.X, src.Bounds().Max.Y
	dst := image.NewGray(image.Rect(0, 0, w, h))

	xr := float64(srcW) / float64(w)
	yr := float64(srcH) / float64(h)

	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			x1, y1 := int(float64(dx)*xr), int(float64(dy)*yr)
			x2, y2 := min(int(float64(dx+1)*xr), srcW), min(int(float64(dy+1)*yr), srcH)

			sum, n := 0, 0
			for sy := y1; sy < y2; sy++ {
				for sx := x1; sx < x2; sx++ {
					sum += int(src.GrayAt(sx, sy).Y)
					n++
				}
			}
			if n > 0 {
				dst.SetGray(dx, dy, color.Gray{Y: uint8(sum / n)})
			}
		}
	}
	return dst
}

// HalfBlocks turns img into rows lines of cols cells, each cell covering two
// vertical pixels.
func HalfBlocks(img *image.Gray, cols, rows int) string {
	var b strings.Builder
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			top := lit(img, col, row*2)
			bottom := lit(img, col, row*2+1)
			switch {
			case top && bottom:
				b.WriteRune('█')
			case top:
				b.WriteRune('▀')
			case bottom:
				b.WriteRune('▄')
			default:
				b.WriteRune(' ')
			}
		}
		if row < rows-1 {
			b.WriteRune('\n')
		}
	}
	return b.String()
}

func lit(img *image.Gray, x, y int) bool {
	if !image.Pt(x, y).In(img.Bounds()) {
		return false
	}
	return img.GrayAt(x, y).Y > threshold
}
