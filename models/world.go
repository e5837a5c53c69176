package models

// GameMap is the walkable tile grid for the realm.
type GameMap struct {
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Tiles  [][]int `json:"tiles"`
}

// Tile types represented as integers for memory efficiency.
const (
	TileGrass = iota
	TileWater
	TileBridge
	TileWall
	TilePath
)

// Walkable reports whether a tile can be stepped on. Out-of-bounds tiles
// are treated as walls.
func (g *GameMap) Walkable(x, y int) bool {
	if y < 0 || y >= g.Height || x < 0 || x >= g.Width {
		return false
	}
	switch g.Tiles[y][x] {
	case TileWater, TileWall:
		return false
	}
	return true
}

// View copies the square tile window of the given radius centered on a
// position. Out-of-bounds tiles come back as walls.
func (g *GameMap) View(center Position, radius int) [][]int {
	size := radius*2 + 1
	view := make([][]int, size)
	for i := 0; i < size; i++ {
		view[i] = make([]int, size)
		for j := 0; j < size; j++ {
			x := center.X - radius + j
			y := center.Y - radius + i
			if y < 0 || y >= g.Height || x < 0 || x >= g.Width {
				view[i][j] = TileWall
				continue
			}
			view[i][j] = g.Tiles[y][x]
		}
	}
	return view
}
