package main

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"
)

// ErrUnknownGenerator is returned for a generator name that is not registered.
var ErrUnknownGenerator = errors.New("unknown maze generator")

// Generator lays out a maze for a level spec.
// Generator строит лабиринт по описанию уровня.
type Generator interface {
	Generate(spec LevelSpec, rng *rand.Rand) *Maze
	Name() string
}

// Available generators
var (
	Corridor Generator = corridorGenerator{}
	Winding  Generator = windingGenerator{}
	Field    Generator = fieldGenerator{}
)

var generators = map[string]Generator{
	Corridor.Name(): Corridor,
	Winding.Name():  Winding,
	Field.Name():    Field,
}

func generatorFor(name string) (Generator, error) {
	g, ok := generators[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w (have %s)", name, ErrUnknownGenerator, strings.Join(GeneratorNames(), ", "))
	}
	return g, nil
}

// GeneratorNames lists the registered generators in sorted order.
func GeneratorNames() []string {
	names := make([]string, 0, len(generators))
	for name := range generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuildMaze generates the maze for spec. The same non-zero seed always gives
// the same maze.
// BuildMaze генерирует лабиринт по описанию уровня.
func BuildMaze(spec LevelSpec) (*Maze, error) {
	g, err := generatorFor(spec.Generator)
	if err != nil {
		return nil, err
	}
	if spec.Width < minMazeWidth {
		spec.Width = minMazeWidth
	}
	if spec.Height < minMazeHeight {
		spec.Height = minMazeHeight
	}
	seed := spec.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return g.Generate(spec, rand.New(rand.NewSource(seed))), nil
}

// placeObstacles numbers up to n obstacles along the route interior, one per
// equal stretch, in route order. Start and exit stay free.
func placeObstacles(m *Maze, n int, rng *rand.Rand) {
	interior := len(m.Route) - 2
	if n > interior {
		n = interior
	}
	if n <= 0 {
		return
	}
	stretch := interior / n
	for i := 0; i < n; i++ {
		offset := 0
		if stretch > 1 {
			offset = rng.Intn(stretch)
		}
		idx := 1 + i*stretch + offset
		m.Obstacles[m.Route[idx]] = i + 1
	}
}

// corridorGenerator draws the fixed staircase corridor of the first level,
// scaled to the maze size.
type corridorGenerator struct{}

func (corridorGenerator) Name() string { return "corridor" }

func (corridorGenerator) Generate(spec LevelSpec, rng *rand.Rand) *Maze {
	m := newMaze(spec.Number, spec.Width, spec.Height)
	w, h := spec.Width, spec.Height
	m.Start = Pos{Row: h - 2, Col: 2}
	exitCol := w - max(3, w/6)
	m.Exit = Pos{Row: 1, Col: exitCol}

	rise := (h - 4) / 3
	row1 := m.Start.Row - rise
	col1 := 2 + (exitCol-2)/3
	row2 := row1 - rise

	cur := m.Start
	m.addRoute(cur)
	walk := func(to Pos) {
		for cur != to {
			switch {
			case cur.Row > to.Row:
				cur.Row--
			case cur.Row < to.Row:
				cur.Row++
			case cur.Col < to.Col:
				cur.Col++
			default:
				cur.Col--
			}
			m.addRoute(cur)
		}
	}
	walk(Pos{Row: row1, Col: 2})
	walk(Pos{Row: row1, Col: col1})
	walk(Pos{Row: row2, Col: col1})
	walk(Pos{Row: row2, Col: exitCol})
	walk(m.Exit)

	m.wallInRoute()
	placeObstacles(m, spec.Obstacles, rng)
	return m
}

// windingGenerator walks from the start to the exit in straight runs with
// random 90 degree turns.
type windingGenerator struct{}

func (windingGenerator) Name() string { return "winding" }

func (windingGenerator) Generate(spec LevelSpec, rng *rand.Rand) *Maze {
	m := newMaze(spec.Number, spec.Width, spec.Height)
	m.Start = Pos{Row: spec.Height - 2, Col: 2}
	m.Exit = Pos{Row: 1, Col: spec.Width - 4}

	cur := m.Start
	m.addRoute(cur)
	for cur != m.Exit {
		vertical := cur.Col == m.Exit.Col || (cur.Row != m.Exit.Row && rng.Intn(2) == 0)
		for {
			if vertical {
				if cur.Row == m.Exit.Row {
					break
				}
				cur.Row--
			} else {
				if cur.Col == m.Exit.Col {
					break
				}
				cur.Col++
			}
			m.addRoute(cur)
			// Turn only after a run of at least two cells.
			if len(m.Route) > 2 && rng.Float64() < 0.3 && cur != m.Exit && runLength(m.Route, vertical) >= 2 {
				break
			}
		}
	}

	m.wallInRoute()
	placeObstacles(m, spec.Obstacles, rng)
	return m
}

// runLength counts how many trailing route steps moved in the same axis.
func runLength(route []Pos, vertical bool) int {
	n := 0
	for i := len(route) - 1; i > 0; i-- {
		a, b := route[i-1], route[i]
		if vertical != (a.Col == b.Col) {
			break
		}
		n++
	}
	return n
}

// fieldGenerator is an open walled field with scattered scenery. The route
// is the direct way to the exit and carries the obstacles.
type fieldGenerator struct{}

func (fieldGenerator) Name() string { return "field" }

func (fieldGenerator) Generate(spec LevelSpec, rng *rand.Rand) *Maze {
	m := newMaze(spec.Number, spec.Width, spec.Height)
	m.Open = true
	w, h := spec.Width, spec.Height
	m.Start = Pos{Row: h - 2, Col: 2}
	m.Exit = Pos{Row: 1, Col: w - 4}

	for c := 0; c < w; c++ {
		m.Walls.Put(Pos{Row: 0, Col: c})
		m.Walls.Put(Pos{Row: h - 1, Col: c})
	}
	for r := 0; r < h; r++ {
		m.Walls.Put(Pos{Row: r, Col: 0})
		m.Walls.Put(Pos{Row: r, Col: w - 1})
	}

	cur := m.Start
	m.addRoute(cur)
	for cur.Row > m.Exit.Row {
		cur.Row--
		m.addRoute(cur)
	}
	for cur.Col < m.Exit.Col {
		cur.Col++
		m.addRoute(cur)
	}

	free := make([]Pos, 0, w*h)
	for r := 1; r < h-1; r++ {
		for c := 1; c < w-1; c++ {
			p := Pos{Row: r, Col: c}
			if m.Path.Has(p) || manhattan(p, m.Start) < 3 || manhattan(p, m.Exit) < 3 {
				continue
			}
			free = append(free, p)
		}
	}
	rng.Shuffle(len(free), func(i, j int) { free[i], free[j] = free[j], free[i] })
	for i := 0; i < spec.Decorations && i < len(free); i++ {
		m.Decor.Put(free[i])
	}

	placeObstacles(m, spec.Obstacles, rng)
	return m
}

func manhattan(a, b Pos) int {
	return abs(a.Row-b.Row) + abs(a.Col-b.Col)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
