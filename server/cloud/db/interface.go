// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package db

import "context"

type Database interface {
	// UpdateSave stores save unless a record with a later SavedAt exists.
	UpdateSave(ctx context.Context, save Save) error
	ReadSaves(ctx context.Context) (saves []Save, err error)
	DeleteSave(ctx context.Context, key string) error
}
