// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"errors"
	"flag"
	"image"
	"image/color"
	"image/png"
	"log"
	"os"
	"runtime/pprof"

	"github.com/SoftbearStudios/tileworld/server/config"
	"github.com/SoftbearStudios/tileworld/server/terrain"
	"github.com/SoftbearStudios/tileworld/server/terrain/chunked"
	"github.com/SoftbearStudios/tileworld/server/terrain/gen"
	"github.com/SoftbearStudios/tileworld/server/terrain/noise"
)

type options struct {
	config string
	preset string
	seed   int64
	rect   terrain.Rect
	rivers int
	layer  string
	out    string
}

func main() {
	var (
		cpuProfile string
		o          options
	)
	flag.StringVar(&cpuProfile, "cpuprofile", "", "write cpu profile to `file`")
	flag.StringVar(&o.config, "config", "", "world config `file` (yaml)")
	flag.StringVar(&o.preset, "preset", "", "world preset, overrides config")
	flag.Int64Var(&o.seed, "seed", 0, "world seed, overrides config")
	flag.IntVar(&o.rect.X, "x", -512, "left tile")
	flag.IntVar(&o.rect.Z, "z", -512, "top tile")
	flag.IntVar(&o.rect.Width, "width", 1024, "width in tiles")
	flag.IntVar(&o.rect.Depth, "depth", 1024, "depth in tiles")
	flag.IntVar(&o.rivers, "rivers", 32, "maximum number of rivers to draw")
	flag.StringVar(&o.layer, "layer", "terrain", "terrain, height, moisture or temperature")
	flag.StringVar(&o.out, "out", "out.png", "output `file`")
	flag.Parse()

	if o.rect.Empty() {
		log.Fatal("invalid size: ", o.rect.Width, "x", o.rect.Depth)
	}

	if cpuProfile != "" {
		f, err := os.Create(cpuProfile)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}

	if err := run(o); err != nil {
		log.Fatal(err)
	}
}

func run(o options) error {
	c := config.Default()
	if o.config != "" {
		var err error
		if c, err = config.Load(o.config); err != nil {
			return err
		}
	}
	if o.preset != "" {
		c.Preset = o.preset
		c.World = terrain.Preset(o.preset)
	}
	if o.seed != 0 {
		c.Seed = o.seed
	}
	if err := c.World.Validate(); err != nil {
		return err
	}

	var img image.Image
	switch o.layer {
	case "terrain":
		g := gen.New(c.Seed, c.World)
		t := chunked.New(g, c.World)

		var overlay []terrain.Point
		if o.rivers > 0 {
			rivers := g.GenerateRivers(o.rect, o.rivers)
			overlay = gen.RiverTiles(rivers)
			log.Printf("%d rivers, %d tiles", len(rivers), len(overlay))
		}
		img = terrain.Render(t, c.World, o.rect, overlay)
	case "height", "moisture", "temperature":
		img = renderLayer(noise.New(c.Seed), o.layer, o.rect)
	default:
		return errors.New("unknown layer: " + o.layer)
	}

	file, err := os.Create(o.out)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}

// renderLayer draws a raw noise preset as grayscale.
func renderLayer(n *noise.Noise, layer string, rect terrain.Rect) image.Image {
	sample := n.Height
	switch layer {
	case "moisture":
		sample = n.Moisture
	case "temperature":
		sample = n.Temperature
	}

	img := image.NewGray(image.Rect(0, 0, rect.Width, rect.Depth))
	for j := 0; j < rect.Depth; j++ {
		for i := 0; i < rect.Width; i++ {
			v := noise.Unit(sample(float64(rect.X+i), float64(rect.Z+j)))
			img.SetGray(i, j, color.Gray{Y: uint8(v * 255)})
		}
	}
	return img
}
