// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package chunked

import "math"

// key packs two signed 32 bit coordinates into one map key.
type key uint64

func makeKey(x, z int) key {
	return key(uint64(uint32(int32(x)))<<32 | uint64(uint32(int32(z))))
}

// inRange reports whether a coordinate pair survives packing into a key.
// Tiles and chunks outside it are treated as absent.
func inRange(x, z int) bool {
	return x >= math.MinInt32 && x <= math.MaxInt32 && z >= math.MinInt32 && z <= math.MaxInt32
}

func (k key) unpack() (x, z int) {
	return int(int32(uint32(k >> 32))), int(int32(uint32(k)))
}

func roundDiv(sum, n int) int {
	return int(math.Round(float64(sum) / float64(n)))
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func minInt(x, y int) int {
	if x < y {
		return x
	}
	return y
}

func maxInt(x, y int) int {
	if x > y {
		return x
	}
	return y
}
