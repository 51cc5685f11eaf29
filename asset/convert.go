package asset

import (
	"image"
	"image/color"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/image/draw"
)

// Fit selects how an image is mapped onto a cell area
type Fit uint8

const (
	// FitCover fills the area and crops the overflow, centred
	FitCover Fit = iota
	// FitWidth scales to the area width and keeps the aspect ratio
	FitWidth
)

// quadrantChars maps 4-bit patterns to Unicode quadrant characters
// Bit order: 0=UL, 1=UR, 2=LL, 3=LR (1 = foreground)
var quadrantChars = [16]rune{
	' ', '▘', '▝', '▀', '▖', '▌', '▞', '▛',
	'▗', '▚', '▐', '▜', '▄', '▙', '▟', '█',
}

// Cell is one converted terminal cell
type Cell struct {
	Rune rune
	Fg   tcell.Color
	Bg   tcell.Color
}

// Art is a row-major block of cells
type Art struct {
	Cells  []Cell
	Width  int
	Height int
}

// At returns the cell at (x, y); out-of-range reads return a blank cell
func (a *Art) At(x, y int) Cell {
	if a == nil || x < 0 || y < 0 || x >= a.Width || y >= a.Height {
		return Cell{Rune: ' ', Fg: tcell.ColorDefault, Bg: tcell.ColorDefault}
	}
	return a.Cells[y*a.Width+x]
}

// Converter turns images into quadrant-character art
type Converter struct {
	CellWidth  int
	CellHeight int
	Palette256 bool
}

// Cover scales img to fill cols x rows, cropping the longer axis
func (c Converter) Cover(img image.Image, cols, rows int) *Art {
	if cols <= 0 || rows <= 0 || img.Bounds().Empty() {
		return &Art{}
	}
	src := img.Bounds()
	targetW := float64(cols * c.CellWidth)
	targetH := float64(rows * c.CellHeight)

	// Crop the source to the target aspect
	crop := src
	srcAspect := float64(src.Dx()) / float64(src.Dy())
	dstAspect := targetW / targetH
	if srcAspect > dstAspect {
		w := int(float64(src.Dy()) * dstAspect)
		if w < 1 {
			w = 1
		}
		x0 := src.Min.X + (src.Dx()-w)/2
		crop = image.Rect(x0, src.Min.Y, x0+w, src.Max.Y)
	} else if srcAspect < dstAspect {
		h := int(float64(src.Dx()) / dstAspect)
		if h < 1 {
			h = 1
		}
		y0 := src.Min.Y + (src.Dy()-h)/2
		crop = image.Rect(src.Min.X, y0, src.Max.X, y0+h)
	}
	return c.convert(img, crop, cols, rows)
}

// FitWidth scales img to cols columns and derives rows from the aspect ratio
func (c Converter) FitWidth(img image.Image, cols int) *Art {
	src := img.Bounds()
	if cols <= 0 || src.Empty() {
		return &Art{}
	}
	logicalW := float64(cols * c.CellWidth)
	logicalH := logicalW * float64(src.Dy()) / float64(src.Dx())
	rows := int(logicalH/float64(c.CellHeight) + 0.5)
	if rows < 1 {
		rows = 1
	}
	return c.convert(img, src, cols, rows)
}

// convert samples a 2x2 grid per cell and picks the best quadrant glyph
func (c Converter) convert(img image.Image, sr image.Rectangle, cols, rows int) *Art {
	grid := image.NewRGBA(image.Rect(0, 0, cols*2, rows*2))
	draw.ApproxBiLinear.Scale(grid, grid.Bounds(), img, sr, draw.Src, nil)

	art := &Art{Cells: make([]Cell, cols*rows), Width: cols, Height: rows}
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			var px [4]color.RGBA
			px[0] = grid.RGBAAt(x*2, y*2)
			px[1] = grid.RGBAAt(x*2+1, y*2)
			px[2] = grid.RGBAAt(x*2, y*2+1)
			px[3] = grid.RGBAAt(x*2+1, y*2+1)

			r, fg, bg := bestQuadrant(px)
			art.Cells[y*cols+x] = Cell{Rune: r, Fg: c.color(fg), Bg: c.color(bg)}
		}
	}
	return art
}

func (c Converter) color(rgb color.RGBA) tcell.Color {
	tc := tcell.NewRGBColor(int32(rgb.R), int32(rgb.G), int32(rgb.B))
	if c.Palette256 {
		return tcell.FindColor(tc, xtermPalette)
	}
	return tc
}

var xtermPalette = func() []tcell.Color {
	p := make([]tcell.Color, 256)
	for i := range p {
		p[i] = tcell.PaletteColor(i)
	}
	return p
}()

// bestQuadrant searches all 16 patterns for the lowest squared colour error
func bestQuadrant(px [4]color.RGBA) (rune, color.RGBA, color.RGBA) {
	bestErr := int(^uint(0) >> 1)
	best := 0
	var bestFg, bestBg color.RGBA
	for pattern := 0; pattern < 16; pattern++ {
		fg, bg, e := patternColors(px, pattern)
		if e < bestErr {
			bestErr, best, bestFg, bestBg = e, pattern, fg, bg
		}
	}
	return quadrantChars[best], bestFg, bestBg
}

func patternColors(px [4]color.RGBA, pattern int) (fg, bg color.RGBA, total int) {
	var fr, fgc, fb, fn int
	var br, bgc, bb, bn int
	for i := 0; i < 4; i++ {
		if pattern&(1<<i) != 0 {
			fr += int(px[i].R)
			fgc += int(px[i].G)
			fb += int(px[i].B)
			fn++
		} else {
			br += int(px[i].R)
			bgc += int(px[i].G)
			bb += int(px[i].B)
			bn++
		}
	}
	if fn > 0 {
		fg = color.RGBA{R: uint8(fr / fn), G: uint8(fgc / fn), B: uint8(fb / fn), A: 0xff}
	}
	if bn > 0 {
		bg = color.RGBA{R: uint8(br / bn), G: uint8(bgc / bn), B: uint8(bb / bn), A: 0xff}
	}
	for i := 0; i < 4; i++ {
		target := bg
		if pattern&(1<<i) != 0 {
			target = fg
		}
		total += distSq(px[i], target)
	}
	return fg, bg, total
}

func distSq(a, b color.RGBA) int {
	dr := int(a.R) - int(b.R)
	dg := int(a.G) - int(b.G)
	db := int(a.B) - int(b.B)
	return dr*dr + dg*dg + db*db
}

// QuadrantRune returns the glyph for a 4-bit quadrant pattern (bit 0=UL, 1=UR, 2=LL, 3=LR)
func QuadrantRune(pattern int) rune {
	return quadrantChars[pattern&0xf]
}
