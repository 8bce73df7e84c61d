// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package gen

import (
	"math"
	"sort"

	"github.com/SoftbearStudios/tileworld/server/terrain"
)

// River is a downhill path of tiles from a high source.
type River struct {
	Path         []terrain.Point `json:"path"`
	ReachedWater bool            `json:"reachedWater"`
}

// Source returns the first tile of the river.
func (r River) Source() terrain.Point {
	return r.Path[0]
}

type step struct {
	dx, dz   int
	distance float64
}

// neighbours in a fixed order so ties resolve the same way every time.
var neighbours = [8]step{
	{0, -1, 1}, {1, 0, 1}, {0, 1, 1}, {-1, 0, 1},
	{1, -1, math.Sqrt2}, {1, 1, math.Sqrt2}, {-1, 1, math.Sqrt2}, {-1, -1, math.Sqrt2},
}

// TraceRiverPath walks from a start tile to its steepest strictly lower unvisited neighbour
// until it reaches water level, maxLength tiles, or a local minimum.
func (g *Generator) TraceRiverPath(startX, startZ, maxLength int) []terrain.Point {
	path, _ := g.traceRiver(startX, startZ, maxLength)
	return path
}

func (g *Generator) traceRiver(startX, startZ, maxLength int) (path []terrain.Point, reachedWater bool) {
	if maxLength <= 0 {
		return nil, false
	}

	visited := make(map[terrain.Point]struct{}, 64)
	p := terrain.Point{X: startX, Z: startZ}
	h := g.GenerateHeight(p.X, p.Z)

	for len(path) < maxLength {
		path = append(path, p)
		visited[p] = struct{}{}

		if h <= g.waterLevel {
			reachedWater = true
			break
		}

		var (
			best      terrain.Point
			bestH     byte
			bestSlope float64
			found     bool
		)

		for _, n := range neighbours {
			next := terrain.Point{X: p.X + n.dx, Z: p.Z + n.dz}
			if _, ok := visited[next]; ok {
				continue
			}
			nh := g.GenerateHeight(next.X, next.Z)
			if nh >= h {
				continue
			}
			if slope := float64(h-nh) / n.distance; slope > bestSlope {
				best, bestH, bestSlope, found = next, nh, slope, true
			}
		}

		if !found {
			break
		}
		p, h = best, bestH
	}

	return
}

type riverCandidate struct {
	terrain.Point
	score float64
}

// GenerateRivers returns up to count rivers with sources inside region.
// Sources are sampled on a world-aligned grid so overlapping regions agree.
func (g *Generator) GenerateRivers(region terrain.Rect, count int) []River {
	if region.Empty() || count <= 0 {
		return nil
	}

	c := &g.config
	spacing := c.RiverSpacing
	x0 := terrain.FloorDiv(region.X+spacing-1, spacing) * spacing
	z0 := terrain.FloorDiv(region.Z+spacing-1, spacing) * spacing

	var candidates []riverCandidate
	for z := z0; z < region.Z+region.Depth; z += spacing {
		for x := x0; x < region.X+region.Width; x += spacing {
			elevation := c.Normalize(g.GenerateHeight(x, z))
			if elevation < c.RiverSourceThreshold {
				continue
			}
			jitter := g.riverJitter.Noise2D(float64(x)*0.05, float64(z)*0.05)
			candidates = append(candidates, riverCandidate{
				Point: terrain.Point{X: x, Z: z},
				score: elevation + jitter*0.1,
			})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.Z != b.Z {
			return a.Z < b.Z
		}
		return a.X < b.X
	})

	claimed := make(map[terrain.Point]struct{})
	var rivers []River

	for _, candidate := range candidates {
		if len(rivers) >= count {
			break
		}
		if _, ok := claimed[candidate.Point]; ok {
			continue
		}

		path, reached := g.traceRiver(candidate.X, candidate.Z, c.RiverMaxLength)
		if len(path) < c.RiverMinLength {
			// Too short to be anything but a noise artifact
			continue
		}

		for _, p := range path {
			claimed[p] = struct{}{}
		}
		rivers = append(rivers, River{Path: path, ReachedWater: reached})
	}

	return rivers
}

// RiverTiles flattens rivers into one list of tiles.
func RiverTiles(rivers []River) []terrain.Point {
	var tiles []terrain.Point
	for _, r := range rivers {
		tiles = append(tiles, r.Path...)
	}
	return tiles
}
