package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/bruce5f/buddhabrotCLU/internal/config"
	"github.com/bruce5f/buddhabrotCLU/internal/progress"
	"github.com/bruce5f/buddhabrotCLU/internal/render"
	"github.com/bruce5f/buddhabrotCLU/internal/sampler"
	"github.com/bruce5f/buddhabrotCLU/internal/seedfile"
	"github.com/bruce5f/buddhabrotCLU/internal/sink"
)

// parseConfig builds the run configuration from command line arguments and
// the environment.
func parseConfig(args []string, getenv func(string) string) (config.Config, error) {
	cfg := config.Default()
	fs := flag.NewFlagSet("buddhabrot", flag.ContinueOnError)
	cfg.Bind(fs)
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if fs.NArg() > 0 {
		return cfg, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	cfg.ApplyEnv(getenv)
	return cfg, cfg.Validate()
}

// run samples seeds, renders them and writes the image. Progress goes to
// stdout.
func run(ctx context.Context, args []string, stdout io.Writer, getenv func(string) string) error {
	cfg, err := parseConfig(args, getenv)
	if err != nil {
		return err
	}
	if cfg.Debug {
		log.Printf("Config: %+v", cfg)
	}

	palette, err := render.ParsePalette(cfg.Palette)
	if err != nil {
		return err
	}

	writer := progress.NewWriter(stdout)
	sinks := []progress.Sink{writer}
	if cfg.ProgressAddr != "" {
		hub := progress.NewHub(log.Default())
		stopFeed := serveProgress(cfg.ProgressAddr, hub)
		defer stopFeed()
		sinks = append(sinks, hub)
	}

	var seeds []complex128
	if cfg.SeedsIn != "" {
		if seeds, err = seedfile.Load(cfg.SeedsIn); err != nil {
			return err
		}
		log.Printf("Loaded %d seeds from %s", len(seeds), cfg.SeedsIn)
	}

	smp := sampler.FromConfig(cfg, sampler.WithProgress(progress.Multi(sinks...)))
	start := time.Now()
	seeds, err = smp.Sample(ctx, seeds, cfg.Goal, cfg.MinDepth, cfg.MaxDepth)
	writer.Finish()
	switch {
	case errors.Is(err, sampler.ErrGoalUnreachable):
		log.Printf("Error: %v; rendering the %d seeds found", err, len(seeds))
	case err != nil:
		return err
	}
	if cfg.Debug {
		log.Printf("Sampling took %v", time.Since(start))
	}

	if cfg.SeedsOut != "" {
		if err := seedfile.Save(cfg.SeedsOut, seeds); err != nil {
			return err
		}
		log.Printf("Stored %d seeds in %s", len(seeds), cfg.SeedsOut)
	}

	start = time.Now()
	res, err := render.Render(ctx, seeds, render.Options{
		PlotDepth:   cfg.PlotDepth,
		Resolution:  cfg.Resolution,
		Exponent:    cfg.Exponent,
		Brightness:  cfg.Brightness,
		Workers:     cfg.Workers,
		IncludeEdge: cfg.IncludeEdge,
		Palette:     palette,
	})
	if err != nil {
		return err
	}
	if res.Degenerate() {
		log.Printf("Warning: no orbit reached the image; writing a blank image")
	}
	if cfg.Debug {
		log.Printf("Rendering took %v: %+v", time.Since(start), res.Stats)
	}

	out := sink.OutputPath(cfg.Output)
	if err := sink.WritePNG(out, res.Image); err != nil {
		return err
	}
	if cfg.Thumbnail > 0 {
		if err := sink.WriteThumbnail(sink.ThumbnailPath(cfg.Output), res.Image, cfg.Thumbnail); err != nil {
			return err
		}
	}

	sum := sink.Summarize(res.Image)
	log.Printf("Wrote %s (%dx%d, mean luminance %.3f, %.1f%% white)",
		out, sum.Width, sum.Height, sum.MeanLuminance, 100*sum.WhiteFraction)
	return nil
}

// serveProgress exposes hub on addr and returns a function that disconnects
// the clients and stops the listener.
func serveProgress(addr string, hub *progress.Hub) func() {
	mux := http.NewServeMux()
	mux.Handle("/progress", hub)
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Progress feed stopped: %v", err)
		}
	}()
	log.Printf("Progress feed on ws://%s/progress", addr)

	return func() {
		hub.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Progress feed shutdown: %v", err)
		}
	}
}
