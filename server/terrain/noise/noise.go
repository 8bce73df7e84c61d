// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package noise

import (
	"math"
	"strconv"
)

// Kind selects the noise function used by Sample.
type Kind uint8

const (
	Perlin Kind = iota
	Simplex
)

// Options control a single or fractal (multi-octave) evaluation.
// Zero fields take their defaults.
type Options struct {
	Kind        Kind
	Octaves     int     // default 1
	Persistence float64 // amplitude multiplier per octave, default 0.5
	Lacunarity  float64 // frequency multiplier per octave, default 2
	Scale       float64 // base frequency, default 1
}

func (o Options) withDefaults() Options {
	if o.Octaves <= 0 {
		o.Octaves = 1
	}
	if o.Persistence == 0 {
		o.Persistence = 0.5
	}
	if o.Lacunarity == 0 {
		o.Lacunarity = 2
	}
	if o.Scale == 0 {
		o.Scale = 1
	}
	return o
}

// Noise is seeded gradient noise. Its only state is the seed; the permutation table
// is rebuilt from it and never persisted.
type Noise struct {
	seed int64
	perm [512]byte
}

// New creates a Noise with a permutation table shuffled by seed.
func New(seed int64) *Noise {
	n := &Noise{}
	n.reseed(seed)
	return n
}

func (n *Noise) reseed(seed int64) {
	n.seed = seed

	var p [256]byte
	for i := range p {
		p[i] = byte(i)
	}

	// Fisher-Yates driven by a 64 bit LCG
	s := uint64(seed)
	for i := 255; i > 0; i-- {
		s = s*6364136223846793005 + 1442695040888963407
		j := int((s >> 33) % uint64(i+1))
		p[i], p[j] = p[j], p[i]
	}

	for i := range n.perm {
		n.perm[i] = p[i&255]
	}
}

// Seed returns the seed n was created with.
func (n *Noise) Seed() int64 {
	return n.seed
}

func (n *Noise) MarshalText() ([]byte, error) {
	return strconv.AppendInt(nil, n.seed, 10), nil
}

func (n *Noise) UnmarshalText(text []byte) error {
	seed, err := strconv.ParseInt(string(text), 10, 64)
	if err != nil {
		return err
	}
	n.reseed(seed)
	return nil
}

// Perlin2D returns Perlin noise in [-1, 1].
func (n *Noise) Perlin2D(x, z float64, o Options) float64 {
	return n.fractal(n.perlin, x, z, o)
}

// Simplex2D returns simplex noise in [-1, 1].
func (n *Noise) Simplex2D(x, z float64, o Options) float64 {
	return n.fractal(n.simplex, x, z, o)
}

// Sample evaluates the noise function selected by o.Kind.
func (n *Noise) Sample(x, z float64, o Options) float64 {
	if o.Kind == Simplex {
		return n.Simplex2D(x, z, o)
	}
	return n.Perlin2D(x, z, o)
}

// fractal sums octaves of f and normalizes by the total amplitude.
func (n *Noise) fractal(f func(x, z float64) float64, x, z float64, o Options) float64 {
	o = o.withDefaults()

	amplitude := 1.0
	frequency := o.Scale
	var total, norm float64

	for i := 0; i < o.Octaves; i++ {
		total += amplitude * f(x*frequency, z*frequency)
		norm += amplitude
		amplitude *= o.Persistence
		frequency *= o.Lacunarity
	}

	return clampUnit(total / norm)
}

func (n *Noise) perlin(x, z float64) float64 {
	xf := math.Floor(x)
	zf := math.Floor(z)
	xi := int(int64(xf) & 255)
	zi := int(int64(zf) & 255)
	x -= xf
	z -= zf

	u := fade(x)
	v := fade(z)

	p := &n.perm
	a := int(p[xi]) + zi
	b := int(p[xi+1]) + zi

	return lerp(v,
		lerp(u, grad2(p[a], x, z), grad2(p[b], x-1, z)),
		lerp(u, grad2(p[a+1], x, z-1), grad2(p[b+1], x-1, z-1)),
	)
}

func (n *Noise) simplex(x, z float64) float64 {
	const (
		f2 = 0.36602540378443864676 // (sqrt(3) - 1) / 2
		g2 = 0.21132486540518711775 // (3 - sqrt(3)) / 6
	)

	// Skew input space to determine simplex cell.
	s := (x + z) * f2
	i := math.Floor(x + s)
	j := math.Floor(z + s)

	t := (i + j) * g2
	x0 := x - (i - t)
	z0 := z - (j - t)

	// Determine which simplex we are in.
	var i1, j1 int
	if x0 > z0 {
		i1 = 1
	} else {
		j1 = 1
	}

	x1 := x0 - float64(i1) + g2
	z1 := z0 - float64(j1) + g2
	x2 := x0 - 1.0 + 2.0*g2
	z2 := z0 - 1.0 + 2.0*g2

	p := &n.perm
	ii := int(int64(i) & 255)
	jj := int(int64(j) & 255)
	gi0 := p[ii+int(p[jj])] % 12
	gi1 := p[ii+i1+int(p[jj+j1])] % 12
	gi2 := p[ii+1+int(p[jj+1])] % 12

	return 70.0 * (corner(gi0, x0, z0) + corner(gi1, x1, z1) + corner(gi2, x2, z2))
}
