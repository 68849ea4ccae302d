// Package envconfig loads gridworld definitions from Key=Value grid
// files and builds the GridWorld environments they describe.
//
// A grid file looks like:
//
//	Horizontal=4
//	Vertical=3
//	Terminal={0={3,2,1},1={3,1,-1}}
//	Boulder={0={1,1}}
//	RobotStartState={0,0}
//	K=10
//	Episodes=1000
//	alpha=0.2
//	Discount=0.9
//	Noise=0.2
//	TransitionCost=0
//
// Coordinates in grid files are Cartesian: y = 0 is the bottom row.
// They are flipped when the grid is built, since a GridWorld indexes
// rows from the top.
package envconfig

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/gridmdp/environment"
	"github.com/samuelfneumann/gridmdp/environment/gridworld"
	"github.com/samuelfneumann/gridmdp/utils/floatutils"
)

// Keys of a grid file
const (
	HorizontalKey     = "Horizontal"
	VerticalKey       = "Vertical"
	TerminalKey       = "Terminal"
	BoulderKey        = "Boulder"
	StartKey          = "RobotStartState"
	SweepsKey         = "K"
	EpisodesKey       = "Episodes"
	LearningRateKey   = "alpha"
	DiscountKey       = "Discount"
	NoiseKey          = "Noise"
	TransitionCostKey = "TransitionCost"
)

// Terminal is an exit cell of a grid file
type Terminal struct {
	X, Y   int
	Reward float64
}

// Boulder is an impassable cell of a grid file
type Boulder struct {
	X, Y int
}

// Config implements a grid definition. Coordinates are stored as they
// appear in the grid file, with y = 0 the bottom row.
type Config struct {
	Horizontal int
	Vertical   int
	Terminals  map[int]Terminal
	Boulders   map[int]Boulder
	Start      environment.Position

	Noise          float64
	TransitionCost float64
	Discount       float64

	// Solver defaults
	Sweeps       int
	Episodes     int
	LearningRate float64
}

// Load reads and validates the grid file filename
func Load(filename string) (Config, error) {
	file, err := os.Open(filename)
	if err != nil {
		return Config{}, fmt.Errorf("load: could not open grid file: %v",
			err)
	}
	defer file.Close()

	c, err := Parse(file)
	if err != nil {
		return Config{}, fmt.Errorf("load: %v: %v", filename, err)
	}
	return c, nil
}

// Parse reads and validates a grid definition from r
func Parse(r io.Reader) (Config, error) {
	values, err := godotenv.Parse(r)
	if err != nil {
		return Config{}, fmt.Errorf("parse: %v", err)
	}

	p := parser{values: values}
	c := Config{
		Horizontal:     p.int(HorizontalKey),
		Vertical:       p.int(VerticalKey),
		Terminals:      make(map[int]Terminal),
		Boulders:       make(map[int]Boulder),
		Noise:          p.float(NoiseKey),
		TransitionCost: p.float(TransitionCostKey),
		Discount:       p.float(DiscountKey),
		Sweeps:         p.int(SweepsKey),
		Episodes:       p.int(EpisodesKey),
		LearningRate:   p.float(LearningRateKey),
	}

	if value, ok := p.lookup(StartKey); ok {
		if start := p.tuple(StartKey, value, 2); len(start) == 2 {
			c.Start = environment.Position{X: int(start[0]), Y: int(start[1])}
		}
	}

	for i, v := range p.indexed(TerminalKey, 3) {
		c.Terminals[i] = Terminal{int(v[0]), int(v[1]), v[2]}
	}
	for i, v := range p.indexed(BoulderKey, 2) {
		c.Boulders[i] = Boulder{int(v[0]), int(v[1])}
	}

	if p.err != nil {
		return Config{}, fmt.Errorf("parse: %v", p.err)
	}

	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("parse: %v", err)
	}
	return c, nil
}

// Validate ensures that the Config describes a buildable grid
func (c Config) Validate() error {
	if c.Horizontal <= 0 || c.Vertical <= 0 {
		return fmt.Errorf("grid must be at least 1x1, got %dx%d",
			c.Horizontal, c.Vertical)
	}

	occupied := make(map[environment.Position]string)
	for i, t := range c.Terminals {
		p := environment.Position{X: t.X, Y: t.Y}
		if !c.inBounds(p) {
			return fmt.Errorf("terminal %d at %v out of bounds", i, p)
		}
		occupied[p] = fmt.Sprintf("terminal %d", i)
	}
	for i, b := range c.Boulders {
		p := environment.Position{X: b.X, Y: b.Y}
		if !c.inBounds(p) {
			return fmt.Errorf("boulder %d at %v out of bounds", i, p)
		}
		if other, ok := occupied[p]; ok {
			return fmt.Errorf("boulder %d at %v overlaps %v", i, p, other)
		}
		occupied[p] = fmt.Sprintf("boulder %d", i)
	}

	if !c.inBounds(c.Start) {
		return fmt.Errorf("start %v out of bounds", c.Start)
	}
	if other, ok := occupied[c.Start]; ok {
		return fmt.Errorf("start %v is on %v", c.Start, other)
	}

	for _, prob := range []struct {
		key   string
		value float64
	}{
		{NoiseKey, c.Noise},
		{DiscountKey, c.Discount},
		{LearningRateKey, c.LearningRate},
	} {
		if !floatutils.InInterval(prob.value, gridworld.Probability) {
			return fmt.Errorf("%v = %v not in [0, 1]", prob.key, prob.value)
		}
	}

	if c.Sweeps < 0 {
		return fmt.Errorf("%v cannot be lower than 0", SweepsKey)
	}
	if c.Episodes < 0 {
		return fmt.Errorf("%v cannot be lower than 0", EpisodesKey)
	}
	return nil
}

func (c Config) inBounds(p environment.Position) bool {
	return p.X >= 0 && p.X < c.Horizontal && p.Y >= 0 && p.Y < c.Vertical
}

// flip converts between Cartesian file rows and top-origin grid rows
func (c Config) flip(p environment.Position) environment.Position {
	return environment.Position{X: p.X, Y: c.Vertical - 1 - p.Y}
}

// GridPosition converts the grid file position p to grid coordinates
func (c Config) GridPosition(p environment.Position) environment.Position {
	return c.flip(p)
}

// GridStart returns the start position in grid coordinates
func (c Config) GridStart() environment.Position {
	return c.flip(c.Start)
}

// Grid builds the cells described by the Config, indexed [y][x] with
// y = 0 the top row
func (c Config) Grid() [][]*gridworld.Cell {
	grid := make([][]*gridworld.Cell, c.Vertical)
	for y := range grid {
		grid[y] = make([]*gridworld.Cell, c.Horizontal)
		for x := range grid[y] {
			grid[y][x] = gridworld.NewEmpty(x, y)
		}
	}

	for _, t := range c.Terminals {
		p := c.flip(environment.Position{X: t.X, Y: t.Y})
		grid[p.Y][p.X] = gridworld.NewExit(p.X, p.Y, t.Reward)
	}
	for _, b := range c.Boulders {
		p := c.flip(environment.Position{X: b.X, Y: b.Y})
		grid[p.Y][p.X] = gridworld.NewBoulder(p.X, p.Y)
	}
	return grid
}

// Create returns the GridWorld described by the Config. All randomness
// of the environment is drawn from source.
func (c Config) Create(source rand.Source) (*gridworld.GridWorld, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("create: %v", err)
	}

	g, err := gridworld.New(c.Grid(), c.GridStart(), c.Noise,
		c.TransitionCost, c.Discount, source)
	if err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}
	return g, nil
}

// parser reads typed values from a parsed grid file, remembering the
// first error encountered
type parser struct {
	values map[string]string
	err    error
}

func (p *parser) lookup(key string) (string, bool) {
	if p.err != nil {
		return "", false
	}
	value, ok := p.values[key]
	if !ok {
		p.err = fmt.Errorf("missing key %v", key)
		return "", false
	}
	return strings.TrimSpace(value), true
}

func (p *parser) int(key string) int {
	value, ok := p.lookup(key)
	if !ok {
		return 0
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		p.err = fmt.Errorf("%v: %q is not an integer", key, value)
	}
	return i
}

func (p *parser) float(key string) float64 {
	value, ok := p.lookup(key)
	if !ok {
		return 0
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		p.err = fmt.Errorf("%v: %q is not a number", key, value)
	}
	return f
}

// tuple parses a braced, comma separated list of n numbers such as
// {3,2,1}
func (p *parser) tuple(key, value string, n int) []float64 {
	if p.err != nil {
		return nil
	}

	value = strings.TrimSpace(value)
	if !strings.HasPrefix(value, "{") || !strings.HasSuffix(value, "}") {
		p.err = fmt.Errorf("%v: %q is not a braced list", key, value)
		return nil
	}

	fields := strings.Split(value[1:len(value)-1], ",")
	if len(fields) != n {
		p.err = fmt.Errorf("%v: %q has %d values, want %d", key, value,
			len(fields), n)
		return nil
	}

	tuple := make([]float64, n)
	for i, field := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			p.err = fmt.Errorf("%v: %q is not a number", key, field)
			return nil
		}
		tuple[i] = v
	}
	return tuple
}

// indexed parses an optional set of indexed tuples such as
// {0={3,2,1},1={3,1,-1}}. A missing key is an empty set.
func (p *parser) indexed(key string, n int) map[int][]float64 {
	items := make(map[int][]float64)
	value, ok := p.values[key]
	if !ok || p.err != nil {
		return items
	}

	value = strings.TrimSpace(value)
	if !strings.HasPrefix(value, "{") || !strings.HasSuffix(value, "}") {
		p.err = fmt.Errorf("%v: %q is not a braced list", key, value)
		return items
	}
	inner := strings.TrimSpace(value[1 : len(value)-1])
	if inner == "" {
		return items
	}

	for _, item := range strings.Split(inner, "},") {
		item = strings.TrimSpace(item)
		if !strings.HasSuffix(item, "}") {
			item += "}"
		}

		index, tuple, found := strings.Cut(item, "=")
		if !found {
			p.err = fmt.Errorf("%v: %q has no index", key, item)
			return items
		}

		i, err := strconv.Atoi(strings.TrimSpace(index))
		if err != nil {
			p.err = fmt.Errorf("%v: index %q is not an integer", key, index)
			return items
		}
		if _, dup := items[i]; dup {
			p.err = fmt.Errorf("%v: duplicate index %d", key, i)
			return items
		}

		t := p.tuple(key, tuple, n)
		if p.err != nil {
			return nil
		}
		items[i] = t
	}
	return items
}
