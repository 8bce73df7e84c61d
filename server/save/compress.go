// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package save

// Compress merges consecutive modifications on the same row with equal heights and
// contiguous increasing x into runs. Input is expected ordered by z then x.
func Compress(mods []Modification) []Modification {
	runs := make([]Modification, 0, len(mods)/2+1)

	for _, m := range mods {
		if n := len(runs); n > 0 {
			r := &runs[n-1]
			if r.Z == m.Z && r.Height == m.Height && r.X+r.Len() == m.X {
				r.Count = r.Len() + m.Len()
				continue
			}
		}
		m.Count = m.Len()
		if m.Count == 1 {
			m.Count = 0
		}
		runs = append(runs, m)
	}

	return runs
}

// Decompress expands runs into one modification per tile.
func Decompress(runs []Modification) ([]Modification, error) {
	if err := validateRuns(runs); err != nil {
		return nil, err
	}
	mods := make([]Modification, 0, Tiles(runs))
	for _, r := range runs {
		for i := 0; i < r.Len(); i++ {
			mods = append(mods, Modification{X: r.X + i, Z: r.Z, Height: r.Height})
		}
	}
	return mods, nil
}

// Tiles returns the number of tiles runs cover.
func Tiles(runs []Modification) int {
	n := 0
	for _, r := range runs {
		n += r.Len()
	}
	return n
}
