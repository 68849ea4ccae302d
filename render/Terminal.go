// Package render displays gridworlds and solver results as colored
// terminal grids, PNG images and HTML charts. Rendering only reads the
// environment and the policy, it never changes them.
package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/logrusorgru/aurora"

	"github.com/samuelfneumann/gridmdp/agent"
	"github.com/samuelfneumann/gridmdp/environment"
	"github.com/samuelfneumann/gridmdp/environment/gridworld"
)

const (
	numberWidth    = 7
	valueCellWidth = numberWidth + 2
	qCellWidth     = 2*numberWidth + 1
)

// Terminal writes gridworlds as text grids, coloring positive values
// green and negative values red
type Terminal struct {
	out       io.Writer
	au        aurora.Aurora
	showAgent bool
}

// NewTerminal returns a new Terminal renderer writing to out. If colors
// is false no escape codes are written. If showAgent is set the agent's
// cell is underlined.
func NewTerminal(out io.Writer, colors, showAgent bool) *Terminal {
	return &Terminal{
		out:       out,
		au:        aurora.NewAurora(colors),
		showAgent: showAgent,
	}
}

// Values writes the true value of each cell with arrows marking the
// best actions of p
func (t *Terminal) Values(g *gridworld.GridWorld, p agent.Policy) error {
	return t.values(g, p, (*gridworld.Cell).TrueValue)
}

// LearnedValues writes the learned value of each cell with arrows
// marking the best actions of p
func (t *Terminal) LearnedValues(g *gridworld.GridWorld,
	p agent.Policy) error {
	return t.values(g, p, (*gridworld.Cell).LearnedValue)
}

func (t *Terminal) values(g *gridworld.GridWorld, p agent.Policy,
	value func(*gridworld.Cell) float64) error {
	r, c := g.Dims()
	var b strings.Builder

	for y := 0; y < r; y++ {
		border(&b, c, valueCellWidth)

		row := make([]map[environment.Action]bool, c)
		for x := 0; x < c; x++ {
			row[x] = make(map[environment.Action]bool)
			pos := environment.Position{X: x, Y: y}
			if g.Cell(pos).CanMove() {
				for _, a := range p.BestActions(pos) {
					row[x][a] = true
				}
			}
		}

		for x := 0; x < c; x++ {
			b.WriteString(vertical(row[x][environment.Up], "^"))
		}
		b.WriteString("|\n")

		for x := 0; x < c; x++ {
			b.WriteString("|")
			cell := g.At(x, y)
			if cell.Kind() == gridworld.Boulder {
				b.WriteString(strings.Repeat(" ", valueCellWidth))
				continue
			}

			b.WriteString(arrow(row[x][environment.Left], "<"))
			b.WriteString(t.agent(g, cell, t.number(value(cell), numberWidth, -1)))
			b.WriteString(arrow(row[x][environment.Right], ">"))
		}
		b.WriteString("|\n")

		for x := 0; x < c; x++ {
			b.WriteString(vertical(row[x][environment.Down], "v"))
		}
		b.WriteString("|\n")
	}
	border(&b, c, valueCellWidth)

	_, err := io.WriteString(t.out, b.String())
	return err
}

// QValues writes the four action estimates of each cell, arranged
// around the cell by direction
func (t *Terminal) QValues(g *gridworld.GridWorld) error {
	r, c := g.Dims()
	var b strings.Builder

	for y := 0; y < r; y++ {
		border(&b, c, qCellWidth)

		for x := 0; x < c; x++ {
			up := g.At(x, y).Estimate(environment.Up)
			b.WriteString(centred(t.number(up, numberWidth, -1)))
		}
		b.WriteString("|\n")

		for x := 0; x < c; x++ {
			cell := g.At(x, y)
			left := t.number(cell.Estimate(environment.Left), numberWidth, -1)
			right := t.number(cell.Estimate(environment.Right), numberWidth, -1)
			b.WriteString("|")
			b.WriteString(t.agent(g, cell, left+" "+right))
		}
		b.WriteString("|\n")

		for x := 0; x < c; x++ {
			down := g.At(x, y).Estimate(environment.Down)
			b.WriteString(centred(t.number(down, numberWidth, -1)))
		}
		b.WriteString("|\n")
	}
	border(&b, c, qCellWidth)

	_, err := io.WriteString(t.out, b.String())
	return err
}

// Cell writes a one line summary of the cell at pos
func (t *Terminal) Cell(g *gridworld.GridWorld, p agent.Policy,
	pos environment.Position) error {
	if !g.InBounds(pos) {
		return fmt.Errorf("cell: %v: %w", pos, gridworld.ErrOutOfBounds)
	}

	cell := g.Cell(pos)
	estimates := make([]string, 0, environment.NumActions)
	for _, a := range environment.Actions {
		estimates = append(estimates,
			fmt.Sprintf("%v=%v", a, t.number(cell.Estimate(a), 0, 4)))
	}

	_, err := fmt.Fprintf(t.out, "%v: value=%v learned=%v q=[%v] best=%v\n",
		cell, t.number(cell.TrueValue(), 0, 4),
		t.number(cell.LearnedValue(), 0, 4), strings.Join(estimates, " "),
		p.BestActions(pos))
	return err
}

// number formats v in width characters with the given precision, or
// with as many decimals as fit in width if precision is negative
func (t *Terminal) number(v float64, width, precision int) string {
	if precision < 0 {
		precision = 4
		for abs := math.Abs(v); abs >= 10 && precision > 0; abs /= 10 {
			precision--
		}
	}

	s := fmt.Sprintf("%*.*f", width, precision, v)
	switch {
	case v > 0:
		return t.au.Green(s).String()
	case v < 0:
		return t.au.Red(s).String()
	default:
		return s
	}
}

func (t *Terminal) agent(g *gridworld.GridWorld, cell *gridworld.Cell,
	s string) string {
	if t.showAgent && g.Position() == cell.Position() {
		return t.au.Underline(s).String()
	}
	return s
}

func border(b *strings.Builder, cols, width int) {
	for x := 0; x < cols; x++ {
		b.WriteString("+")
		b.WriteString(strings.Repeat("-", width))
	}
	b.WriteString("+\n")
}

// centred places a numberWidth wide number in the middle of a Q-value
// cell
func centred(number string) string {
	pad := (qCellWidth - numberWidth) / 2
	return "|" + strings.Repeat(" ", pad) + number +
		strings.Repeat(" ", qCellWidth-numberWidth-pad)
}

func vertical(show bool, symbol string) string {
	if !show {
		return "|" + strings.Repeat(" ", valueCellWidth)
	}
	pad := (valueCellWidth - 1) / 2
	return "|" + strings.Repeat(" ", pad) + symbol +
		strings.Repeat(" ", valueCellWidth-pad-1)
}

func arrow(show bool, symbol string) string {
	if show {
		return symbol
	}
	return " "
}
