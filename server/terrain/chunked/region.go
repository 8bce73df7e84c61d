// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package chunked

// Region operations cover the tiles [x, x+width) x [z, z+depth).
// Empty or negative sized regions are no-ops.

type FlatResult struct {
	Flat       bool `json:"flat"`
	MinHeight  int  `json:"minHeight"`
	MaxHeight  int  `json:"maxHeight"`
	HeightDiff int  `json:"heightDiff"`
}

type FlattenResult struct {
	CellsChanged int  `json:"cellsChanged"`
	FlattenedTo  byte `json:"flattenedTo"`
}

type FlattenCost struct {
	CellsAffected int  `json:"cellsAffected"`
	TargetHeight  byte `json:"targetHeight"`
	TotalChange   int  `json:"totalChange"` // sum of absolute height changes
}

// IsRegionFlat reports whether every tile is within tolerance of every other.
func (t *Terrain) IsRegionFlat(x, z, width, depth, tolerance int) FlatResult {
	if width <= 0 || depth <= 0 {
		return FlatResult{Flat: true}
	}

	t.mutex.Lock()
	defer t.mutex.Unlock()

	lo, hi := 255, 0
	t.forEach(x, z, width, depth, func(x, z int) {
		h := int(t.at(x, z))
		lo = minInt(lo, h)
		hi = maxInt(hi, h)
	})

	diff := hi - lo
	return FlatResult{Flat: diff <= tolerance, MinHeight: lo, MaxHeight: hi, HeightDiff: diff}
}

// FlattenRegion sets every tile to the rounded average height of the region.
func (t *Terrain) FlattenRegion(x, z, width, depth int) FlattenResult {
	if width <= 0 || depth <= 0 {
		return FlattenResult{}
	}

	t.mutex.Lock()
	defer t.mutex.Unlock()

	return t.flatten(x, z, width, depth, t.average(x, z, width, depth))
}

// FlattenRegionTo sets every tile to target, clamped to the height range.
func (t *Terrain) FlattenRegionTo(x, z, width, depth, target int) FlattenResult {
	if width <= 0 || depth <= 0 {
		return FlattenResult{}
	}

	t.mutex.Lock()
	defer t.mutex.Unlock()

	return t.flatten(x, z, width, depth, t.config.Clamp(target))
}

// CalculateFlattenCost reports what FlattenRegion would change without changing anything.
func (t *Terrain) CalculateFlattenCost(x, z, width, depth int) FlattenCost {
	if width <= 0 || depth <= 0 {
		return FlattenCost{}
	}

	t.mutex.Lock()
	defer t.mutex.Unlock()

	return t.flattenCost(x, z, width, depth, t.average(x, z, width, depth))
}

// CalculateFlattenCostTo reports what FlattenRegionTo would change without changing anything.
func (t *Terrain) CalculateFlattenCostTo(x, z, width, depth, target int) FlattenCost {
	if width <= 0 || depth <= 0 {
		return FlattenCost{}
	}

	t.mutex.Lock()
	defer t.mutex.Unlock()

	return t.flattenCost(x, z, width, depth, t.config.Clamp(target))
}

// RaiseRegion adds amount to every tile, returning the number of tiles changed.
func (t *Terrain) RaiseRegion(x, z, width, depth, amount int) int {
	if width <= 0 || depth <= 0 || amount == 0 {
		return 0
	}

	t.mutex.Lock()
	defer t.mutex.Unlock()

	millis := t.millis()
	changed := 0
	t.forEach(x, z, width, depth, func(x, z int) {
		if t.set(x, z, int(t.at(x, z))+amount, millis) {
			changed++
		}
	})
	return changed
}

// LowerRegion subtracts amount from every tile, returning the number of tiles changed.
func (t *Terrain) LowerRegion(x, z, width, depth, amount int) int {
	return t.RaiseRegion(x, z, width, depth, -amount)
}

// SmoothRegion replaces every tile with the average of itself and its 4 neighbours.
// Each pass reads the whole region before writing any of it.
// It returns the number of tile changes summed over all passes.
func (t *Terrain) SmoothRegion(x, z, width, depth, iterations int) int {
	if width <= 0 || depth <= 0 || iterations <= 0 {
		return 0
	}

	t.mutex.Lock()
	defer t.mutex.Unlock()

	millis := t.millis()
	scratch := make([]byte, width*depth)
	changed := 0

	for pass := 0; pass < iterations; pass++ {
		for j := 0; j < depth; j++ {
			for i := 0; i < width; i++ {
				tx, tz := x+i, z+j
				sum := int(t.at(tx, tz)) + int(t.at(tx-1, tz)) + int(t.at(tx+1, tz)) + int(t.at(tx, tz-1)) + int(t.at(tx, tz+1))
				scratch[i+j*width] = t.config.Clamp(roundDiv(sum, 5))
			}
		}

		passChanged := 0
		for j := 0; j < depth; j++ {
			for i := 0; i < width; i++ {
				if t.set(x+i, z+j, int(scratch[i+j*width]), millis) {
					passChanged++
				}
			}
		}

		changed += passChanged
		if passChanged == 0 {
			// Converged, further passes are identical
			break
		}
	}

	return changed
}

// forEach must be called with the mutex held.
func (t *Terrain) forEach(x, z, width, depth int, f func(x, z int)) {
	for j := 0; j < depth; j++ {
		for i := 0; i < width; i++ {
			f(x+i, z+j)
		}
	}
}

// average must be called with the mutex held.
func (t *Terrain) average(x, z, width, depth int) byte {
	sum := 0
	t.forEach(x, z, width, depth, func(x, z int) {
		sum += int(t.at(x, z))
	})
	return t.config.Clamp(roundDiv(sum, width*depth))
}

// flatten must be called with the mutex held.
func (t *Terrain) flatten(x, z, width, depth int, target byte) FlattenResult {
	millis := t.millis()
	changed := 0
	t.forEach(x, z, width, depth, func(x, z int) {
		if t.set(x, z, int(target), millis) {
			changed++
		}
	})
	return FlattenResult{CellsChanged: changed, FlattenedTo: target}
}

// flattenCost must be called with the mutex held.
func (t *Terrain) flattenCost(x, z, width, depth int, target byte) FlattenCost {
	cost := FlattenCost{TargetHeight: target}
	t.forEach(x, z, width, depth, func(x, z int) {
		if diff := int(t.at(x, z)) - int(target); diff != 0 {
			cost.CellsAffected++
			cost.TotalChange += absInt(diff)
		}
	})
	return cost
}
