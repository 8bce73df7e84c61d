// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package db

import (
	"context"
	"sync"
)

// MemoryDatabase is a Database for tests and offline play.
type MemoryDatabase struct {
	mutex sync.Mutex
	saves map[string]Save
}

func NewMemoryDatabase() *MemoryDatabase {
	return &MemoryDatabase{saves: make(map[string]Save)}
}

func (m *MemoryDatabase) UpdateSave(_ context.Context, save Save) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if old, ok := m.saves[save.Key]; ok && old.SavedAt >= save.SavedAt {
		return nil
	}
	m.saves[save.Key] = save
	return nil
}

func (m *MemoryDatabase) ReadSaves(_ context.Context) ([]Save, error) {
	m.mutex.Lock()
	saves := make([]Save, 0, len(m.saves))
	for _, save := range m.saves {
		saves = append(saves, save)
	}
	m.mutex.Unlock()

	sortSaves(saves)
	return saves, nil
}

func (m *MemoryDatabase) DeleteSave(_ context.Context, key string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	delete(m.saves, key)
	return nil
}
