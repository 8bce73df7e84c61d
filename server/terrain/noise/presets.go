// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package noise

// Fixed recipes for the convenience signals. Each uses a different kind, scale and
// octave count so that the three signals are decorrelated even on one seed.
var (
	HeightOptions      = Options{Kind: Perlin, Scale: 0.01, Octaves: 4, Persistence: 0.5, Lacunarity: 2}
	MoistureOptions    = Options{Kind: Simplex, Scale: 0.005, Octaves: 3, Persistence: 0.55, Lacunarity: 2.1}
	TemperatureOptions = Options{Kind: Perlin, Scale: 0.002, Octaves: 2, Persistence: 0.6, Lacunarity: 1.9}
)

// Height returns the height recipe in [0, 1].
func (n *Noise) Height(x, z float64) float64 {
	return Unit(n.Sample(x, z, HeightOptions))
}

// Moisture returns the moisture recipe in [0, 1].
func (n *Noise) Moisture(x, z float64) float64 {
	return Unit(n.Sample(x, z, MoistureOptions))
}

// Temperature returns the temperature recipe in [0, 1].
func (n *Noise) Temperature(x, z float64) float64 {
	return Unit(n.Sample(x, z, TemperatureOptions))
}

// Unit maps [-1, 1] onto [0, 1].
func Unit(v float64) float64 {
	return (v + 1) / 2
}
