// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package stream

// position is in world units, like the camera.
type position struct {
	x, z float32
}

// TrackEntity starts pulling chunks around an entity into residency.
// Tracking an already tracked id moves it.
func (m *Manager) TrackEntity(id string, x, z float32) {
	m.entities[id] = position{x: x, z: z}
}

// UpdateEntityPosition moves a tracked entity. It returns false if id is not tracked.
func (m *Manager) UpdateEntityPosition(id string, x, z float32) bool {
	if _, ok := m.entities[id]; !ok {
		return false
	}
	m.entities[id] = position{x: x, z: z}
	return true
}

// UntrackEntity stops tracking an entity. It returns false if id was not tracked.
func (m *Manager) UntrackEntity(id string) bool {
	if _, ok := m.entities[id]; !ok {
		return false
	}
	delete(m.entities, id)
	return true
}

// Entities returns the number of tracked entities.
func (m *Manager) Entities() int {
	return len(m.entities)
}
