package mapgen

import (
	"math/rand"
)

// generateFloodFill grows regions from interior cells by popping a shuffled
// frontier until the region hits a random target size. Patches that end up
// below the minimum size revert to water.
func generateFloodFill(p Params, rng *rand.Rand) (Board, []Region) {
	board := newWaterBoard(p.Width, p.Height)
	var regions []Region
	nextID := 1

	for r := 1; r < p.Height-1; r++ {
		for c := 1; c < p.Width-1; c++ {
			if board[r][c].RegionID != 0 {
				continue
			}

			target := p.MinRegionSize + rng.Intn(p.MaxRegionSize-p.MinRegionSize+1)
			terrain := LandTerrains[rng.Intn(len(LandTerrains))]
			var cells [][2]int

			frontier := [][2]int{{r, c}}
			for len(frontier) > 0 && len(cells) < target {
				cur := frontier[len(frontier)-1]
				frontier = frontier[:len(frontier)-1]
				cr, cc := cur[0], cur[1]
				if board[cr][cc].RegionID != 0 {
					continue
				}
				board[cr][cc].Terrain = terrain
				board[cr][cc].RegionID = nextID
				cells = append(cells, [2]int{cr, cc})

				next := make([][2]int, 0, 4)
				for _, d := range orthogonal {
					nr, nc := cr+d[0], cc+d[1]
					if nr < 0 || nr >= p.Height || nc < 0 || nc >= p.Width {
						continue
					}
					if board[nr][nc].RegionID == 0 {
						next = append(next, [2]int{nr, nc})
					}
				}
				rng.Shuffle(len(next), func(i, j int) {
					next[i], next[j] = next[j], next[i]
				})
				frontier = append(frontier, next...)
			}

			if len(cells) >= p.MinRegionSize {
				regions = append(regions, Region{ID: nextID, Terrain: terrain, Cells: cells})
				nextID++
			} else {
				// reset small patches back to water
				for _, cell := range cells {
					board[cell[0]][cell[1]].Terrain = TerrainWater
					board[cell[0]][cell[1]].RegionID = 0
				}
			}
		}
	}

	return board, regions
}

// generateVoronoi drops a fixed count of seed points and assigns every cell
// to its Manhattan-nearest seed, ties going to the lowest seed index.
func generateVoronoi(p Params, rng *rand.Rand) (Board, []Region) {
	board := newWaterBoard(p.Width, p.Height)

	type seed struct {
		r, c int
	}
	seeds := make([]seed, 0, p.Regions)
	taken := make(map[[2]int]bool, p.Regions)
	for len(seeds) < p.Regions {
		pos := [2]int{rng.Intn(p.Height), rng.Intn(p.Width)}
		if taken[pos] {
			continue
		}
		taken[pos] = true
		seeds = append(seeds, seed{r: pos[0], c: pos[1]})
	}

	regions := make([]Region, len(seeds))
	for i := range regions {
		regions[i] = Region{
			ID:      i + 1,
			Terrain: LandTerrains[rng.Intn(len(LandTerrains))],
		}
	}

	for r := 0; r < p.Height; r++ {
		for c := 0; c < p.Width; c++ {
			best := 0
			bestDist := 1 << 30
			for i, s := range seeds {
				dist := abs(r-s.r) + abs(c-s.c)
				if dist < bestDist {
					best = i
					bestDist = dist
				}
			}
			board[r][c].Terrain = regions[best].Terrain
			board[r][c].RegionID = regions[best].ID
			regions[best].Cells = append(regions[best].Cells, [2]int{r, c})
		}
	}

	return board, regions
}

// generateAutomaton seeds a random presence field, runs smoothing passes over
// the 8-neighborhood (survive on enough neighbors, a lower bar if already
// present), then extracts connected components as regions. Cells that never
// make it stay water.
func generateAutomaton(p Params, rng *rand.Rand) (Board, []Region) {
	board := newWaterBoard(p.Width, p.Height)

	present := make([][]bool, p.Height)
	for r := range present {
		present[r] = make([]bool, p.Width)
		for c := range present[r] {
			present[r][c] = rng.Float64() < p.Density
		}
	}

	for pass := 0; pass < p.Smooth; pass++ {
		next := make([][]bool, p.Height)
		for r := range next {
			next[r] = make([]bool, p.Width)
			for c := range next[r] {
				n := mooreCount(present, r, c)
				next[r][c] = n >= surviveNeighbors || (present[r][c] && n >= holdoutNeighbors)
			}
		}
		present = next
	}

	// connected components over surviving cells, orthogonal adjacency
	var regions []Region
	nextID := 1
	seen := make([][]bool, p.Height)
	for r := range seen {
		seen[r] = make([]bool, p.Width)
	}

	for r := 0; r < p.Height; r++ {
		for c := 0; c < p.Width; c++ {
			if !present[r][c] || seen[r][c] {
				continue
			}
			terrain := LandTerrains[rng.Intn(len(LandTerrains))]
			var cells [][2]int

			stack := [][2]int{{r, c}}
			seen[r][c] = true
			for len(stack) > 0 {
				cur := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				cr, cc := cur[0], cur[1]
				board[cr][cc].Terrain = terrain
				board[cr][cc].RegionID = nextID
				cells = append(cells, [2]int{cr, cc})

				for _, d := range orthogonal {
					nr, nc := cr+d[0], cc+d[1]
					if nr < 0 || nr >= p.Height || nc < 0 || nc >= p.Width {
						continue
					}
					if present[nr][nc] && !seen[nr][nc] {
						seen[nr][nc] = true
						stack = append(stack, [2]int{nr, nc})
					}
				}
			}

			regions = append(regions, Region{ID: nextID, Terrain: terrain, Cells: cells})
			nextID++
		}
	}

	return board, regions
}

func mooreCount(present [][]bool, r, c int) int {
	count := 0
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			nr, nc := r+dr, c+dc
			if nr < 0 || nr >= len(present) || nc < 0 || nc >= len(present[nr]) {
				continue
			}
			if present[nr][nc] {
				count++
			}
		}
	}
	return count
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
