package main

import (
	"github.com/zyedidia/generic/mapset"
)

const (
	minMazeWidth  = 20
	minMazeHeight = 12
)

// LevelSpec describes how to lay out one level.
// LevelSpec описывает генерацию одного уровня.
type LevelSpec struct {
	Number    int    `toml:"number"`
	Generator string `toml:"generator"`
	// Seed 0 picks a new layout on every run.
	Seed        int64 `toml:"seed"`
	Width       int   `toml:"width"`
	Height      int   `toml:"height"`
	Obstacles   int   `toml:"obstacles"`
	Decorations int   `toml:"decorations"`
}

// specForLevel returns the spec for level n. Levels past the configured list
// reuse the last spec with a seed derived from n.
func specForLevel(levels []LevelSpec, n int) LevelSpec {
	if len(levels) == 0 {
		levels = defaultLevels()
	}
	for i, spec := range levels {
		num := spec.Number
		if num == 0 {
			num = i + 1
		}
		if num == n {
			spec.Number = n
			return spec
		}
	}
	spec := levels[len(levels)-1]
	spec.Number = n
	if spec.Seed != 0 {
		spec.Seed += int64(n) * 7919
	}
	return spec
}

// Maze is a generated level: the walkable route from Start to Exit, the
// walls around it, scenery and the numbered obstacles blocking the route.
// Maze - сгенерированный уровень.
type Maze struct {
	Level  int
	Width  int
	Height int
	Start  Pos
	Exit   Pos
	// Open mazes let the player walk on any cell that is not a wall or scenery.
	Open bool

	Route     []Pos
	Path      mapset.Set[Pos]
	Walls     mapset.Set[Pos]
	Decor     mapset.Set[Pos]
	Obstacles map[Pos]int
}

func newMaze(level, width, height int) *Maze {
	return &Maze{
		Level:     level,
		Width:     width,
		Height:    height,
		Path:      mapset.New[Pos](),
		Walls:     mapset.New[Pos](),
		Decor:     mapset.New[Pos](),
		Obstacles: make(map[Pos]int),
	}
}

// InBounds reports whether p is inside the maze.
func (m *Maze) InBounds(p Pos) bool {
	return p.Row >= 0 && p.Row < m.Height && p.Col >= 0 && p.Col < m.Width
}

// Passable reports whether the player may stand on p.
// Passable сообщает, может ли игрок встать на клетку p.
func (m *Maze) Passable(p Pos) bool {
	if !m.InBounds(p) || m.Walls.Has(p) || m.Decor.Has(p) {
		return false
	}
	if _, blocked := m.Obstacles[p]; blocked {
		return false
	}
	return m.Open || m.Path.Has(p)
}

// ObstacleNear returns an obstacle on p or next to it.
// ObstacleNear возвращает препятствие рядом с клеткой p.
func (m *Maze) ObstacleNear(p Pos) (Pos, int, bool) {
	for _, q := range []Pos{p, {p.Row - 1, p.Col}, {p.Row + 1, p.Col}, {p.Row, p.Col - 1}, {p.Row, p.Col + 1}} {
		if n, ok := m.Obstacles[q]; ok {
			return q, n, true
		}
	}
	return Pos{}, 0, false
}

// ClearObstacle removes the obstacle at p.
func (m *Maze) ClearObstacle(p Pos) {
	delete(m.Obstacles, p)
}

// ClearNumbered removes the obstacle with number n, if present.
func (m *Maze) ClearNumbered(n int) {
	for p, num := range m.Obstacles {
		if num == n {
			delete(m.Obstacles, p)
		}
	}
}

// Remaining returns the number of obstacles still standing.
func (m *Maze) Remaining() int {
	return len(m.Obstacles)
}

// addRoute appends p to the route when it is not already the last cell.
func (m *Maze) addRoute(p Pos) {
	if n := len(m.Route); n > 0 && m.Route[n-1] == p {
		return
	}
	m.Route = append(m.Route, p)
	m.Path.Put(p)
}

// wallInRoute surrounds the route with walls on its four-neighbourhood.
func (m *Maze) wallInRoute() {
	for _, p := range m.Route {
		for _, q := range []Pos{{p.Row - 1, p.Col}, {p.Row + 1, p.Col}, {p.Row, p.Col - 1}, {p.Row, p.Col + 1}} {
			if m.InBounds(q) && !m.Path.Has(q) {
				m.Walls.Put(q)
			}
		}
	}
}
