package mapgen

import (
	"log"
	"math/rand"
)

type Terrain string

const (
	TerrainForest   Terrain = "forest"
	TerrainHill     Terrain = "hill"
	TerrainMountain Terrain = "mountain"
	TerrainPlains   Terrain = "plains"
	TerrainSwamp    Terrain = "swamp"
	TerrainWater    Terrain = "water"
)

// Land terrains a generated region can be tagged with. Water is reserved for
// cells outside every region.
var LandTerrains = []Terrain{
	TerrainForest,
	TerrainHill,
	TerrainMountain,
	TerrainPlains,
	TerrainSwamp,
}

type Variant string

const (
	VariantFloodFill Variant = "floodfill"
	VariantVoronoi   Variant = "voronoi"
	VariantAutomaton Variant = "automaton"
)

// Cell is one board tile. RegionID 0 means no region (water).
type Cell struct {
	ID       int     `json:"id"`
	Terrain  Terrain `json:"terrain"`
	RegionID int     `json:"regionId"`
	Border   bool    `json:"border"`
}

// Region is a contiguous run of same-terrain cells.
type Region struct {
	ID      int      `json:"id"`
	Terrain Terrain  `json:"terrain"`
	Cells   [][2]int `json:"cells"` // [row, col] pairs in discovery order
}

// Board is indexed [row][col].
type Board [][]Cell

type Params struct {
	Variant Variant
	Width   int
	Height  int
	Seed    int64

	// floodfill: accepted region size range
	MinRegionSize int
	MaxRegionSize int

	// voronoi: number of seed points
	Regions int

	// automaton: initial presence chance and smoothing passes
	Density float64
	Smooth  int
}

const (
	defaultBoardSize = 20
	defaultMinRegion = 3
	defaultMaxRegion = 5
	defaultRegions   = 10
	defaultDensity   = 0.46
	defaultSmooth    = 2
	surviveNeighbors = 4 // 8-neighborhood survive threshold
	holdoutNeighbors = 3 // lower bar for cells already present
)

// clamp fills zero values with defaults and forces the rest into sane ranges.
// Bad parameters never error, they just get corrected.
func (p Params) clamp() Params {
	if p.Width <= 0 {
		p.Width = defaultBoardSize
	}
	if p.Height <= 0 {
		p.Height = defaultBoardSize
	}
	if p.MinRegionSize <= 0 {
		p.MinRegionSize = defaultMinRegion
	}
	if p.MaxRegionSize < p.MinRegionSize {
		p.MaxRegionSize = p.MinRegionSize + (defaultMaxRegion - defaultMinRegion)
	}
	if p.Regions <= 0 {
		p.Regions = defaultRegions
	}
	if cells := p.Width * p.Height; p.Regions > cells {
		p.Regions = cells
	}
	if p.Density <= 0 || p.Density > 1 {
		p.Density = defaultDensity
	}
	if p.Smooth < 0 {
		p.Smooth = 0
	} else if p.Smooth > 5 {
		p.Smooth = 5
	}
	return p
}

// Generate builds a board and its regions. The same params and seed always
// produce the same output.
func Generate(p Params) (Board, []Region) {
	p = p.clamp()
	rng := rand.New(rand.NewSource(p.Seed))

	var (
		board   Board
		regions []Region
	)
	switch p.Variant {
	case VariantVoronoi:
		board, regions = generateVoronoi(p, rng)
	case VariantAutomaton:
		board, regions = generateAutomaton(p, rng)
	case VariantFloodFill:
		board, regions = generateFloodFill(p, rng)
	default:
		log.Printf("Unknown map variant '%s', falling back to floodfill", p.Variant)
		board, regions = generateFloodFill(p, rng)
	}

	markBorders(board)
	return board, regions
}

// newWaterBoard returns a board of region-less water cells.
func newWaterBoard(width, height int) Board {
	board := make(Board, height)
	for r := range board {
		board[r] = make([]Cell, width)
		for c := range board[r] {
			board[r][c] = Cell{
				ID:      r*width + c,
				Terrain: TerrainWater,
			}
		}
	}
	return board
}

var orthogonal = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// markBorders flags every cell with at least one in-bounds orthogonal
// neighbor in a different region.
func markBorders(board Board) {
	for r := range board {
		for c := range board[r] {
			id := board[r][c].RegionID
			for _, d := range orthogonal {
				nr, nc := r+d[0], c+d[1]
				if nr < 0 || nr >= len(board) || nc < 0 || nc >= len(board[nr]) {
					continue
				}
				if board[nr][nc].RegionID != id {
					board[r][c].Border = true
					break
				}
			}
		}
	}
}
