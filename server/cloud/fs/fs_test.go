// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package fs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func testFilesystems(t *testing.T) map[string]Filesystem {
	t.Helper()

	local, err := NewLocalFilesystem(filepath.Join(t.TempDir(), "nested", "saves"))
	if err != nil {
		t.Fatal(err)
	}
	sqlite, err := NewSQLiteFilesystem(filepath.Join(t.TempDir(), "saves.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = sqlite.Close() })

	return map[string]Filesystem{
		"memory": NewMemoryFilesystem(),
		"local":  local,
		"sqlite": sqlite,
	}
}

func TestFilesystem(t *testing.T) {
	ctx := context.Background()

	for name, filesystem := range testFilesystems(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := filesystem.Load(ctx, "a"); !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
			if ok, err := filesystem.Has(ctx, "a"); ok || err != nil {
				t.Errorf("Has = %v, %v", ok, err)
			}

			data := []byte{0, 1, 2, 255}
			for _, key := range []string{"b", "a", "world-1.v2"} {
				if err := filesystem.Save(ctx, key, data); err != nil {
					t.Fatal(err)
				}
			}
			if err := filesystem.Save(ctx, "a", []byte("new")); err != nil {
				t.Fatal(err)
			}

			if loaded, err := filesystem.Load(ctx, "a"); err != nil || string(loaded) != "new" {
				t.Errorf("Load(a) = %q, %v", loaded, err)
			}
			if loaded, err := filesystem.Load(ctx, "b"); err != nil || !reflect.DeepEqual(loaded, data) {
				t.Errorf("Load(b) = %v, %v", loaded, err)
			}
			if ok, err := filesystem.Has(ctx, "b"); !ok || err != nil {
				t.Errorf("Has = %v, %v", ok, err)
			}

			keys, err := filesystem.List(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if expected := []string{"a", "b", "world-1.v2"}; !reflect.DeepEqual(keys, expected) {
				t.Errorf("List = %v, expected %v", keys, expected)
			}

			if err := filesystem.Clear(ctx, "b"); err != nil {
				t.Fatal(err)
			}
			if err := filesystem.Clear(ctx, "b"); err != nil {
				t.Errorf("clearing twice: %v", err)
			}
			if ok, _ := filesystem.Has(ctx, "b"); ok {
				t.Error("Has after Clear")
			}
		})
	}
}

func TestFilesystem_Keys(t *testing.T) {
	ctx := context.Background()

	for name, filesystem := range testFilesystems(t) {
		for _, key := range []string{"", "../a", "a/b", ".hidden", "a b"} {
			if err := filesystem.Save(ctx, key, nil); !errors.Is(err, ErrKey) {
				t.Errorf("%s: Save(%q) expected ErrKey, got %v", name, key, err)
			}
			if _, err := filesystem.Load(ctx, key); !errors.Is(err, ErrKey) {
				t.Errorf("%s: Load(%q) expected ErrKey, got %v", name, key, err)
			}
			if _, err := filesystem.Has(ctx, key); !errors.Is(err, ErrKey) {
				t.Errorf("%s: Has(%q) expected ErrKey, got %v", name, key, err)
			}
			if err := filesystem.Clear(ctx, key); !errors.Is(err, ErrKey) {
				t.Errorf("%s: Clear(%q) expected ErrKey, got %v", name, key, err)
			}
		}
	}
}

func TestLocalFilesystem_NoTempFiles(t *testing.T) {
	dir := t.TempDir()
	local, err := NewLocalFilesystem(dir)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		if err := local.Save(context.Background(), "world", []byte{byte(i)}); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "world" {
		t.Errorf("unexpected files %v", entries)
	}
}
