// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package save

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SoftbearStudios/tileworld/server/cloud/db"
	"github.com/SoftbearStudios/tileworld/server/cloud/fs"
	"github.com/SoftbearStudios/tileworld/server/terrain/chunked"
	"github.com/klauspost/compress/zstd"
)

// Persister stores worlds as zstd compressed documents on a filesystem, optionally
// indexing them in a database.
type Persister struct {
	fs       fs.Filesystem
	database db.Database // may be nil
	log      *slog.Logger
	options  Options

	// Stateless EncodeAll and DecodeAll are safe for concurrent use
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func NewPersister(filesystem fs.Filesystem, database db.Database, log *slog.Logger) (*Persister, error) {
	if log == nil {
		log = slog.Default()
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, err
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		return nil, err
	}

	return &Persister{
		fs:       filesystem,
		database: database,
		log:      log,
		options:  DefaultOptions,
		encoder:  encoder,
		decoder:  decoder,
	}, nil
}

// Close releases the codecs. The persister must not be used afterwards.
func (p *Persister) Close() {
	_ = p.encoder.Close()
	p.decoder.Close()
}

// Save overwrites key with the store's current state.
func (p *Persister) Save(ctx context.Context, key string, store *chunked.Terrain) error {
	start := time.Now()

	doc := Serialize(store, p.options)
	buf, err := Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	blob := p.encoder.EncodeAll(buf, make([]byte, 0, len(buf)/4))

	if err := p.fs.Save(ctx, key, blob); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}

	if p.database != nil {
		var savedAt int64
		if doc.Metadata != nil {
			savedAt = doc.Metadata.SavedAt
		} else {
			savedAt = millis(time.Now())
		}
		if err := p.database.UpdateSave(ctx, db.Save{
			Key:           key,
			Seed:          doc.Seed,
			Modifications: store.EditCount(),
			Bytes:         len(blob),
			SavedAt:       savedAt,
		}); err != nil {
			return fmt.Errorf("indexing %s: %w", key, err)
		}
	}

	p.log.Info("saved world",
		"key", key,
		"modifications", store.EditCount(),
		"bytes", len(blob),
		"elapsed", time.Since(start),
	)
	return nil
}

// Load rebuilds the world saved under key, migrating older versions.
// It returns an error wrapping fs.ErrNotFound if nothing was saved.
func (p *Persister) Load(ctx context.Context, key string, options ...chunked.Option) (*chunked.Terrain, error) {
	start := time.Now()

	blob, err := p.fs.Load(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", key, err)
	}

	buf, err := p.decoder.DecodeAll(blob, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: decompressing %s: %v", ErrInvalid, key, err)
	}

	doc, err := Unmarshal(buf)
	if err != nil {
		return nil, err
	}

	store, err := Deserialize(doc, DeserializeOptions{MigrateVersion: true, StoreOptions: options})
	if err != nil {
		return nil, err
	}

	p.log.Info("loaded world",
		"key", key,
		"version", doc.Version,
		"modifications", store.EditCount(),
		"bytes", len(blob),
		"elapsed", time.Since(start),
	)
	return store, nil
}

func (p *Persister) Has(ctx context.Context, key string) (bool, error) {
	return p.fs.Has(ctx, key)
}

// Clear deletes the blob and its index record.
func (p *Persister) Clear(ctx context.Context, key string) error {
	if err := p.fs.Clear(ctx, key); err != nil {
		return fmt.Errorf("clearing %s: %w", key, err)
	}
	if p.database != nil {
		if err := p.database.DeleteSave(ctx, key); err != nil {
			return fmt.Errorf("unindexing %s: %w", key, err)
		}
	}
	p.log.Debug("cleared world", "key", key)
	return nil
}

// List returns the saved worlds ordered by key. Without a database only keys are known.
func (p *Persister) List(ctx context.Context) ([]db.Save, error) {
	if p.database != nil {
		return p.database.ReadSaves(ctx)
	}

	keys, err := p.fs.List(ctx)
	if err != nil {
		return nil, err
	}
	saves := make([]db.Save, len(keys))
	for i, key := range keys {
		saves[i] = db.Save{Key: key}
	}
	return saves, nil
}
