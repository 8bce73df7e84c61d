// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package save

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/SoftbearStudios/tileworld/server/cloud/db"
	"github.com/SoftbearStudios/tileworld/server/cloud/fs"
	"github.com/klauspost/compress/zstd"
)

func testPersisters(t *testing.T) map[string]*Persister {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	local, err := fs.NewLocalFilesystem(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	sqlite, err := fs.NewSQLiteFilesystem(filepath.Join(t.TempDir(), "saves.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = sqlite.Close() })

	persisters := make(map[string]*Persister)
	for name, backend := range map[string]struct {
		fs fs.Filesystem
		db db.Database
	}{
		"memory":  {fs.NewMemoryFilesystem(), nil},
		"local":   {local, nil},
		"sqlite":  {sqlite, nil},
		"indexed": {fs.NewMemoryFilesystem(), db.NewMemoryDatabase()},
	} {
		p, err := NewPersister(backend.fs, backend.db, log)
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(p.Close)
		persisters[name] = p
	}
	return persisters
}

func TestPersister(t *testing.T) {
	ctx := context.Background()

	for name, p := range testPersisters(t) {
		t.Run(name, func(t *testing.T) {
			store := newTestStore()
			store.SetHeight(100, 100, 9)
			store.FlattenRegionTo(10, 10, 8, 8, 60)

			if ok, err := p.Has(ctx, "world"); err != nil || ok {
				t.Fatalf("Has before save = %v, %v", ok, err)
			}
			if _, err := p.Load(ctx, "world"); !errors.Is(err, fs.ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}

			if err := p.Save(ctx, "world", store); err != nil {
				t.Fatal(err)
			}
			if ok, err := p.Has(ctx, "world"); err != nil || !ok {
				t.Fatalf("Has after save = %v, %v", ok, err)
			}

			restored, err := p.Load(ctx, "world")
			if err != nil {
				t.Fatal(err)
			}
			if restored.Height(100, 100) != 9 || restored.Height(13, 13) != 60 {
				t.Error("restored heights differ")
			}
			if restored.Height(500, 500) != store.Height(500, 500) {
				t.Error("restored baseline differs")
			}

			// Overwrite
			store.SetHeight(100, 100, 10)
			if err := p.Save(ctx, "world", store); err != nil {
				t.Fatal(err)
			}
			if restored, err = p.Load(ctx, "world"); err != nil || restored.Height(100, 100) != 10 {
				t.Errorf("overwrite not loaded, err %v", err)
			}

			saves, err := p.List(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if len(saves) != 1 || saves[0].Key != "world" {
				t.Errorf("unexpected saves %+v", saves)
			}

			if err := p.Clear(ctx, "world"); err != nil {
				t.Fatal(err)
			}
			if ok, _ := p.Has(ctx, "world"); ok {
				t.Error("Has after clear")
			}
			if err := p.Clear(ctx, "world"); err != nil {
				t.Errorf("clearing a missing key: %v", err)
			}
			if saves, _ = p.List(ctx); len(saves) != 0 {
				t.Errorf("saves after clear %+v", saves)
			}
		})
	}
}

func TestPersister_Index(t *testing.T) {
	ctx := context.Background()
	database := db.NewMemoryDatabase()
	p, err := NewPersister(fs.NewMemoryFilesystem(), database, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	store := newTestStore()
	for x := 0; x < 16; x++ {
		store.SetHeight(x, 0, (int(store.Height(x, 0))+1)%256)
	}
	if err := p.Save(ctx, "a", store); err != nil {
		t.Fatal(err)
	}

	saves, err := database.ReadSaves(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(saves) != 1 {
		t.Fatalf("expected 1 save, got %+v", saves)
	}
	if s := saves[0]; s.Key != "a" || s.Seed != testSeed || s.Modifications != 16 || s.Bytes <= 0 || s.SavedAt <= 0 {
		t.Errorf("unexpected index record %+v", s)
	}
}

func TestPersister_Invalid(t *testing.T) {
	ctx := context.Background()
	filesystem := fs.NewMemoryFilesystem()
	p, err := NewPersister(filesystem, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	_ = filesystem.Save(ctx, "garbage", []byte("not zstd"))
	if _, err := p.Load(ctx, "garbage"); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}

	encoder, _ := zstd.NewWriter(nil)
	_ = filesystem.Save(ctx, "noseed", encoder.EncodeAll([]byte(`{"version":2,"worldConfig":{}}`), nil))
	_ = encoder.Close()
	if _, err := p.Load(ctx, "noseed"); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}

	if err := p.Save(ctx, "../escape", newTestStore()); !errors.Is(err, fs.ErrKey) {
		t.Errorf("expected ErrKey, got %v", err)
	}
}
