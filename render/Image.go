package render

import (
	"fmt"
	"io"
	"math"

	"github.com/fogleman/gg"
	"gonum.org/v1/gonum/floats"

	"github.com/samuelfneumann/gridmdp/agent"
	"github.com/samuelfneumann/gridmdp/environment"
	"github.com/samuelfneumann/gridmdp/environment/gridworld"
	"github.com/samuelfneumann/gridmdp/utils/floatutils"
)

// CellSize is the side length in pixels of each rendered cell
const CellSize = 80

// Image draws gridworlds with a fixed cell size. Cells are shaded green
// or red by value relative to the largest absolute value in the grid.
type Image struct {
	g       *gridworld.GridWorld
	p       agent.Policy
	learned bool
}

// NewImage returns an Image of g and p. If learned is set the cells'
// learned values are drawn instead of their true values.
func NewImage(g *gridworld.GridWorld, p agent.Policy, learned bool) *Image {
	return &Image{g: g, p: p, learned: learned}
}

// SavePNG draws the grid and saves it to filename
func (i *Image) SavePNG(filename string) error {
	if err := i.draw().SavePNG(filename); err != nil {
		return fmt.Errorf("savePNG: %v", err)
	}
	return nil
}

// EncodePNG draws the grid and writes it to w
func (i *Image) EncodePNG(w io.Writer) error {
	if err := i.draw().EncodePNG(w); err != nil {
		return fmt.Errorf("encodePNG: %v", err)
	}
	return nil
}

func (i *Image) value(c *gridworld.Cell) float64 {
	if i.learned {
		return c.LearnedValue()
	}
	return c.TrueValue()
}

func (i *Image) draw() *gg.Context {
	r, c := i.g.Dims()
	dc := gg.NewContext(c*CellSize, r*CellSize)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	vals := make([]float64, 0, r*c)
	for y := 0; y < r; y++ {
		for x := 0; x < c; x++ {
			vals = append(vals, math.Abs(i.value(i.g.At(x, y))))
		}
	}
	scale := floats.Max(vals)

	for y := 0; y < r; y++ {
		for x := 0; x < c; x++ {
			i.drawCell(dc, i.g.At(x, y), scale)
		}
	}
	return dc
}

func (i *Image) drawCell(dc *gg.Context, cell *gridworld.Cell,
	scale float64) {
	pos := cell.Position()
	left := float64(pos.X * CellSize)
	top := float64(pos.Y * CellSize)

	dc.DrawRectangle(left, top, CellSize, CellSize)
	switch v := i.value(cell); {
	case cell.Kind() == gridworld.Boulder:
		dc.SetRGB(0.5, 0.5, 0.5)
	case scale == 0 || v == 0:
		dc.SetRGB(1, 1, 1)
	case v > 0:
		shade := floatutils.Clip(1-0.6*v/scale, 0.4, 1)
		dc.SetRGB(shade, 1, shade)
	default:
		shade := floatutils.Clip(1+0.6*v/scale, 0.4, 1)
		dc.SetRGB(1, shade, shade)
	}
	dc.FillPreserve()
	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(2)
	dc.Stroke()

	if cell.Kind() == gridworld.Boulder {
		return
	}

	cx, cy := left+CellSize/2, top+CellSize/2
	dc.DrawStringAnchored(fmt.Sprintf("%.2f", i.value(cell)), cx, cy,
		0.5, 0.5)
	if cell.Kind() == gridworld.Exit {
		dc.DrawRectangle(left+6, top+6, CellSize-12, CellSize-12)
		dc.SetLineWidth(1)
		dc.Stroke()
		return
	}

	for _, a := range i.p.BestActions(pos) {
		drawArrow(dc, a, cx, cy)
	}
}

// drawArrow draws a filled triangle pointing in the direction of a,
// placed between the centre and the edge of the cell
func drawArrow(dc *gg.Context, a environment.Action, cx, cy float64) {
	dx, dy := a.Delta()
	const (
		offset = CellSize * 0.35
		size   = CellSize * 0.08
	)

	tipX := cx + float64(dx)*(offset+size)
	tipY := cy + float64(dy)*(offset+size)
	baseX := cx + float64(dx)*offset
	baseY := cy + float64(dy)*offset

	// Perpendicular to the direction of the arrow
	px, py := float64(-dy), float64(dx)

	dc.ClearPath()
	dc.MoveTo(tipX, tipY)
	dc.LineTo(baseX+px*size, baseY+py*size)
	dc.LineTo(baseX-px*size, baseY-py*size)
	dc.ClosePath()
	dc.SetRGB(0, 0, 0)
	dc.Fill()
}
