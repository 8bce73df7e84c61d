// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package fs

import (
	"context"
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

// ErrKey is returned for keys that are empty or contain characters other than
// letters, digits, '-', '_' and '.'.
var ErrKey = errors.New("invalid key")

// Filesystem is a flat key value store of blobs.
type Filesystem interface {
	Save(ctx context.Context, key string, data []byte) error
	// Load returns ErrNotFound if key has not been saved.
	Load(ctx context.Context, key string) ([]byte, error)
	Has(ctx context.Context, key string) (bool, error)
	// Clear does nothing if key has not been saved.
	Clear(ctx context.Context, key string) error
	// List returns all keys in sorted order.
	List(ctx context.Context) ([]string, error)
}

func checkKey(key string) error {
	if key == "" || key[0] == '.' || len(key) > 128 {
		return fmt.Errorf("%w: %q", ErrKey, key)
	}
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
		default:
			return fmt.Errorf("%w: %q", ErrKey, key)
		}
	}
	return nil
}
