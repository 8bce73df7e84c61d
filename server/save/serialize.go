// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package save

import (
	"fmt"
	"time"

	"github.com/SoftbearStudios/tileworld/server/terrain/chunked"
	"github.com/SoftbearStudios/tileworld/server/terrain/gen"
)

type Options struct {
	Compress        bool // merge runs of equal heights
	IncludeMetadata bool
}

// DefaultOptions are used by the persister.
var DefaultOptions = Options{Compress: true, IncludeMetadata: true}

type DeserializeOptions struct {
	MigrateVersion bool             // accept older versions, upgrading them
	StoreOptions   []chunked.Option // passed to the rebuilt store
}

// seeded is implemented by generators that can be rebuilt from a seed.
type seeded interface {
	Seed() int64
}

// Serialize captures a store's seed, world config and edits.
// The seed is zero if the store's generator does not expose one.
func Serialize(store *chunked.Terrain, options Options) Document {
	start := time.Now()

	var seed int64
	if s, ok := store.Generator().(seeded); ok {
		seed = s.Seed()
	}

	edits := store.Edits()
	mods := make([]Modification, len(edits))
	for i, e := range edits {
		mods[i] = Modification{X: e.X, Z: e.Z, Height: int(e.Modified)}
	}
	if options.Compress {
		mods = Compress(mods)
	}

	doc := Document{
		Version:       CurrentVersion,
		Seed:          seed,
		WorldConfig:   store.Config(),
		Modifications: mods,
	}

	if options.IncludeMetadata {
		now := time.Now()
		doc.Metadata = &Metadata{
			SavedAt:            millis(now),
			TotalModifications: len(edits),
			SaveTime:           now.Sub(start).Milliseconds(),
		}
	}

	return doc
}

// Deserialize rebuilds a store from a document, regenerating from the seed and
// replaying every modification.
func Deserialize(doc Document, options DeserializeOptions) (*chunked.Terrain, error) {
	switch {
	case doc.Version < 1:
		return nil, fmt.Errorf("%w: version %d", ErrInvalid, doc.Version)
	case doc.Version > CurrentVersion:
		return nil, fmt.Errorf("%w: version %d is newer than %d", ErrVersion, doc.Version, CurrentVersion)
	case doc.Version < CurrentVersion:
		if !options.MigrateVersion {
			return nil, fmt.Errorf("%w: version %d requires migration", ErrVersion, doc.Version)
		}
		var err error
		if doc, err = Migrate(doc); err != nil {
			return nil, err
		}
	}

	config := doc.WorldConfig
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	if err := validateRuns(doc.Modifications); err != nil {
		return nil, err
	}

	store := chunked.New(gen.New(doc.Seed, config), config, options.StoreOptions...)
	apply(store, doc.Modifications)
	return store, nil
}
