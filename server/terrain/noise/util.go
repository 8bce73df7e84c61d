// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package noise

// grad3 are the simplex gradient vectors, projected onto the xz plane.
var grad3 = [12][2]float64{
	{1, 1}, {-1, 1}, {1, -1}, {-1, -1},
	{1, 0}, {-1, 0}, {1, 0}, {-1, 0},
	{0, 1}, {0, -1}, {0, 1}, {0, -1},
}

func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(t, a, b float64) float64 {
	return a + t*(b-a)
}

// grad2 picks one of 8 gradients from the hash and dots it with (x, z).
func grad2(hash byte, x, z float64) float64 {
	switch hash & 7 {
	case 0:
		return x + z
	case 1:
		return -x + z
	case 2:
		return x - z
	case 3:
		return -x - z
	case 4:
		return x
	case 5:
		return -x
	case 6:
		return z
	default:
		return -z
	}
}

// corner is one simplex corner's contribution.
func corner(gi byte, x, z float64) float64 {
	t := 0.5 - x*x - z*z
	if t < 0 {
		return 0
	}
	t *= t
	g := grad3[gi]
	return t * t * (g[0]*x + g[1]*z)
}

func clampUnit(f float64) float64 {
	if f < -1 {
		return -1
	}
	if f > 1 {
		return 1
	}
	return f
}
