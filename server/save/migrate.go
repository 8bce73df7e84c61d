// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package save

import (
	"fmt"
	"math"

	"github.com/SoftbearStudios/tileworld/server/terrain"
)

// Migrate upgrades a document to CurrentVersion.
func Migrate(doc Document) (Document, error) {
	for doc.Version < CurrentVersion {
		switch doc.Version {
		case 1:
			doc = migrateV1(doc)
		default:
			return doc, fmt.Errorf("%w: cannot migrate version %d", ErrVersion, doc.Version)
		}
	}
	return doc, nil
}

// Version 1 had a fixed chunk size, no beach or hills bands, no detail layer and no rivers.
func migrateV1(doc Document) Document {
	d := terrain.DefaultConfig()
	c := doc.WorldConfig

	if c.OceanThreshold == 0 {
		c.OceanThreshold = d.OceanThreshold
	}
	if c.MountainsThreshold == 0 {
		c.MountainsThreshold = d.MountainsThreshold
	}

	// Keep the default band widths relative to the thresholds version 1 did have.
	if c.BeachThreshold == 0 {
		c.BeachThreshold = math.Min(c.OceanThreshold+d.BeachThreshold-d.OceanThreshold, c.MountainsThreshold)
	}
	if c.HillsThreshold == 0 {
		c.HillsThreshold = math.Max(c.MountainsThreshold-(d.MountainsThreshold-d.HillsThreshold), c.BeachThreshold)
	}

	doc.WorldConfig = c.Fill()
	doc.Version = 2
	return doc
}
