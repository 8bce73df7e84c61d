// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package fs

import (
	"context"
	"sort"
	"sync"
)

// MemoryFilesystem keeps blobs in memory, for tests and offline play.
type MemoryFilesystem struct {
	mutex sync.RWMutex
	blobs map[string][]byte
}

func NewMemoryFilesystem() *MemoryFilesystem {
	return &MemoryFilesystem{blobs: make(map[string][]byte)}
}

func (m *MemoryFilesystem) Save(_ context.Context, key string, data []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.blobs[key] = append([]byte(nil), data...)
	return nil
}

func (m *MemoryFilesystem) Load(_ context.Context, key string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	data, ok := m.blobs[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (m *MemoryFilesystem) Has(_ context.Context, key string) (bool, error) {
	if err := checkKey(key); err != nil {
		return false, err
	}
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	_, ok := m.blobs[key]
	return ok, nil
}

func (m *MemoryFilesystem) Clear(_ context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.blobs, key)
	return nil
}

func (m *MemoryFilesystem) List(_ context.Context) ([]string, error) {
	m.mutex.RLock()
	keys := make([]string, 0, len(m.blobs))
	for key := range m.blobs {
		keys = append(keys, key)
	}
	m.mutex.RUnlock()

	sort.Strings(keys)
	return keys, nil
}
