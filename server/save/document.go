// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package save

import (
	"errors"
	"fmt"
	"math"

	"github.com/SoftbearStudios/tileworld/server/terrain"
)

// CurrentVersion is the version written by Serialize.
const CurrentVersion = 2

// MaxRunLength bounds Modification.Count. Longer runs are rejected as invalid.
const MaxRunLength = 1 << 20

var (
	ErrInvalid = errors.New("invalid save")
	ErrVersion = errors.New("unsupported save version")
)

// Document is a save file. The world is the generator's output for Seed and
// WorldConfig with Modifications applied on top.
type Document struct {
	Version       int            `json:"version"`
	Seed          int64          `json:"seed"`
	WorldConfig   terrain.Config `json:"worldConfig"`
	Modifications []Modification `json:"modifications"`
	Metadata      *Metadata      `json:"metadata,omitempty"`
}

// Modification sets the height of Count tiles starting at X along the x axis.
// A Count of 0 or 1 is a single tile.
type Modification struct {
	X      int `json:"x"`
	Z      int `json:"z"`
	Height int `json:"height"`
	Count  int `json:"count,omitempty"`
}

// Len returns the number of tiles m covers.
func (m Modification) Len() int {
	if m.Count < 1 {
		return 1
	}
	return m.Count
}

// validateRuns rejects runs with a bad count or tiles outside int32 coordinates.
func validateRuns(runs []Modification) error {
	for _, m := range runs {
		switch {
		case m.Count < 0 || m.Count > MaxRunLength:
			return fmt.Errorf("%w: run at %d, %d has count %d", ErrInvalid, m.X, m.Z, m.Count)
		case m.X < math.MinInt32 || m.X > math.MaxInt32-m.Len()+1 || m.Z < math.MinInt32 || m.Z > math.MaxInt32:
			return fmt.Errorf("%w: run at %d, %d is out of range", ErrInvalid, m.X, m.Z)
		}
	}
	return nil
}

type Metadata struct {
	SavedAt            int64 `json:"savedAt"`            // unix millis
	TotalModifications int   `json:"totalModifications"` // tiles, before compression
	SaveTime           int64 `json:"saveTime"`           // millis spent serializing
}
