// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package db

// Save indexes one saved world.
type Save struct {
	Key           string `dynamo:"key"`
	Seed          int64  `dynamo:"seed"`
	Preset        string `dynamo:"preset,omitempty"`
	Modifications int    `dynamo:"modifications"` // edited tiles
	Bytes         int    `dynamo:"bytes"`         // stored blob size
	SavedAt       int64  `dynamo:"savedAt"`       // unix millis
	TTL           int64  `dynamo:"ttl,omitempty"`
}
