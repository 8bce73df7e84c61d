// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/SoftbearStudios/tileworld/server/cloud"
	"github.com/SoftbearStudios/tileworld/server/cloud/fs"
	"github.com/SoftbearStudios/tileworld/server/config"
	"github.com/SoftbearStudios/tileworld/server/save"
	"github.com/SoftbearStudios/tileworld/server/stream"
	"github.com/SoftbearStudios/tileworld/server/terrain/chunked"
	"github.com/SoftbearStudios/tileworld/server/terrain/gen"
	"github.com/chewxy/math32"
)

func main() {
	var (
		configPath string
		frames     int
		speed      float64
		clearSave  bool
		list       bool
		verbose    bool
	)
	flag.StringVar(&configPath, "config", "", "world config `file` (yaml)")
	flag.IntVar(&frames, "frames", 600, "number of frames to simulate")
	flag.Float64Var(&speed, "speed", 400, "camera speed in world units per second")
	flag.BoolVar(&clearSave, "clear", false, "delete the save before starting")
	flag.BoolVar(&list, "list", false, "list saves and exit")
	flag.BoolVar(&verbose, "v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, log, configPath, frames, float32(speed), clearSave, list); err != nil {
		log.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger, configPath string, frames int, speed float32, clearSave, list bool) error {
	c := config.Default()
	if configPath != "" {
		var err error
		if c, err = config.Load(configPath); err != nil {
			return err
		}
	}
	if err := c.Validate(); err != nil {
		return err
	}

	storage, err := cloud.New(c.Storage)
	if err != nil {
		return err
	}
	defer storage.Close()
	log.Info("opened storage", "storage", storage.String())

	persister, err := save.NewPersister(storage.Filesystem(), storage.Database(), log)
	if err != nil {
		return err
	}
	defer persister.Close()

	if list {
		saves, err := persister.List(ctx)
		if err != nil {
			return err
		}
		for _, s := range saves {
			fmt.Printf("%s\tseed=%d\tmodifications=%d\tbytes=%d\n", s.Key, s.Seed, s.Modifications, s.Bytes)
		}
		return nil
	}

	if clearSave {
		if err := persister.Clear(ctx, c.SaveKey); err != nil {
			return err
		}
	}

	store, err := persister.Load(ctx, c.SaveKey)
	if errors.Is(err, fs.ErrNotFound) {
		log.Info("generating new world", "seed", c.Seed, "preset", c.Preset)
		store = chunked.New(gen.New(c.Seed, c.World), c.World)
	} else if err != nil {
		return err
	}

	manager := stream.New(store, c.Stream, log)
	simulate(ctx, log, store, manager, frames, speed)

	return persister.Save(ctx, c.SaveKey, store)
}

// simulate walks the camera in a widening square, levelling a pad wherever it is flat enough.
func simulate(ctx context.Context, log *slog.Logger, store *chunked.Terrain, manager *stream.Manager, frames int, speed float32) {
	const (
		dt            = float32(1.0 / 60)
		viewportW     = 1280
		viewportH     = 720
		padSize       = 6
		flatTolerance = 12
	)

	tileSize := manager.Config().TileSize
	var x, z, heading float32
	leg, legLength := 0, float32(256)

	for frame := 0; frame < frames; frame++ {
		if ctx.Err() != nil {
			log.Info("interrupted", "frame", frame)
			break
		}

		sin, cos := math32.Sincos(heading)
		x += cos * speed * dt
		z += sin * speed * dt
		if legLength -= speed * dt; legLength <= 0 {
			heading += math32.Pi / 2
			leg++
			legLength = float32(256 * (leg/2 + 1))
		}

		stats := manager.Update(x, z, viewportW, viewportH, dt)

		if frame%60 == 0 {
			tx, tz := int(math32.Floor(x/tileSize)), int(math32.Floor(z/tileSize))
			if flat := store.IsRegionFlat(tx, tz, padSize, padSize, flatTolerance); flat.Flat {
				result := store.FlattenRegion(tx, tz, padSize, padSize)
				log.Debug("built pad", "x", tx, "z", tz, "height", result.FlattenedTo, "changed", result.CellsChanged)
			}

			log.Debug("frame",
				"frame", stats.Frame,
				"loaded", stats.ChunksLoaded,
				"unloaded", stats.ChunksUnloaded,
				"chunks", stats.ActiveChunks,
				"elapsed", stats.UpdateTime,
			)
		}
	}

	s := store.Stats()
	log.Info("simulated", "frames", frames, "chunks", s.Chunks, "generated", s.Generated, "edits", s.Edits)
}
