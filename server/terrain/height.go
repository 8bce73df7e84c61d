// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package terrain

import "math"

// Clamp clamps h to the configured height range.
func (c Config) Clamp(h int) byte {
	if h < c.MinHeight {
		h = c.MinHeight
	}
	if h > c.MaxHeight {
		h = c.MaxHeight
	}
	return byte(h)
}

// Normalize maps a height onto [0, 1].
func (c Config) Normalize(h byte) float64 {
	span := c.MaxHeight - c.MinHeight
	if span <= 0 {
		return 0
	}
	n := float64(int(h)-c.MinHeight) / float64(span)
	return Clamp01(n)
}

// Denormalize maps [0, 1] onto the height range, rounding to the nearest integer.
func (c Config) Denormalize(n float64) byte {
	n = Clamp01(n)
	return c.Clamp(c.MinHeight + int(math.Round(n*float64(c.MaxHeight-c.MinHeight))))
}

// Clamp01 clamps f to [0, 1].
func Clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
