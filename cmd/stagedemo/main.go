// Command stagedemo runs the director inside an ebiten window with a title
// scene, stacked play scenes and fade transitions between them.
package main

import (
	"context"
	"flag"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/rs/zerolog"

	"github.com/younwookim/stagehand/internal/application/director"
	"github.com/younwookim/stagehand/internal/application/trace"
	"github.com/younwookim/stagehand/internal/infrastructure/cache"
	"github.com/younwookim/stagehand/internal/infrastructure/config"
	"github.com/younwookim/stagehand/internal/infrastructure/ebitenhost"
	"github.com/younwookim/stagehand/internal/infrastructure/logging"
	"github.com/younwookim/stagehand/internal/infrastructure/metrics"
)

func main() {
	// Parse command line flags
	configFlag := flag.String("config", "", "Director config file, .toml or .json (default: embedded configs/director.toml)")
	traceFlag := flag.String("trace", "", "Record a frame trace to file (e.g., -trace trace.json, or -trace auto)")
	metricsFlag := flag.String("metrics", "", "Serve /metrics and /stats on this address (e.g., -metrics :9090)")
	flag.Parse()

	cfg, err := loadConfig(*configFlag)
	if err != nil {
		boot := logging.New(logging.DefaultConfig(logging.ProfileRuntime))
		boot.Fatal().Err(err).Msg("failed to load config")
	}
	log := logging.Configure(logging.FromSettings(logging.ProfileRuntime, cfg.Log))

	registry := cache.NewRegistry(logging.Component(log, "cache"))
	a := &assets{
		textures: cache.NewTextureStore(64),
		files:    cache.NewFileCache(configFS, 16),
		log:      logging.Component(log, "scene"),
	}
	registry.Register(cache.StageTextures, "textures", a.textures)
	registry.Register(cache.StageFiles, "files", a.files)

	// frames flow through the metrics collector into the trace recorder
	var frames director.FrameRecorder
	var recorder *trace.Recorder
	traceFile := *traceFlag
	if traceFile != "" {
		if traceFile == "auto" {
			traceFile = trace.GenerateFilename()
		}
		recorder = trace.NewRecorder(cfg.FPS)
		frames = recorder
		log.Info().Str("file", traceFile).Msg("frame trace enabled")
	}
	var collector *metrics.Collector
	if *metricsFlag != "" {
		collector = metrics.NewCollector(frames)
		frames = collector
	}

	w, h := cfg.Window.Width, cfg.Window.Height
	renderer := ebitenhost.NewRenderer(w, h, colorBG)

	var d *director.Director
	opts := director.Options{
		Config:   cfg,
		Renderer: renderer,
		Platform: ebitenhost.NewPlatform(),
		Caches:   registry,
		Logger:   &log,
		Recorder: frames,
		OnEnd: func() {
			log.Info().Uint64("frames", d.TotalFrames()).Msg("director ended")
		},
		OnRestart: func() {
			d.RunWithScene(newTitleScene(d, a))
		},
	}
	d = director.New(opts)

	var server *metrics.Server
	if collector != nil {
		collector.Bind(d)
		server = metrics.NewServer(*metricsFlag, collector, logging.Component(log, "metrics"))
		server.Start()
	}

	// Ctrl+C ends the director at the top of the next loop iteration
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info().Str("signal", sig.String()).Msg("shutting down")
		d.End()
	}()

	host := ebitenhost.NewHost(d, renderer, w, h, logging.Component(log, "host"))
	host.OnInput(globalKeys(d, log))

	d.RunWithScene(newTitleScene(d, a))

	// Set up ebiten
	ebiten.SetWindowSize(int(float64(w)*cfg.Window.Scale), int(float64(h)*cfg.Window.Scale))
	ebiten.SetWindowTitle(cfg.Window.Title)

	runErr := ebiten.RunGame(host)
	signal.Stop(sigCh)

	if server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := server.Shutdown(ctx); err != nil {
			log.Warn().Err(err).Msg("metrics server shutdown")
		}
		cancel()
	}

	if recorder != nil {
		saveTrace(recorder, traceFile, log)
	}
	if runErr != nil {
		log.Fatal().Err(runErr).Msg("game loop failed")
	}
}

// loadConfig reads path from disk, or the embedded config when path is
// empty.
func loadConfig(path string) (config.DirectorConfig, error) {
	if path == "" {
		fsys, err := fs.Sub(configFS, "configs")
		if err != nil {
			return config.DirectorConfig{}, err
		}
		return config.NewFSLoader(fsys, "configs").LoadDefault()
	}
	return config.NewLoader(filepath.Dir(path)).Load(filepath.Base(path))
}

// globalKeys handles keys that must work while the director is paused.
func globalKeys(d *director.Director, log zerolog.Logger) func() {
	return func() {
		switch {
		case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
			d.End()
		case inpututil.IsKeyJustPressed(ebiten.KeyP):
			if d.IsPaused() {
				d.Resume()
			} else {
				d.Pause()
			}
			log.Info().Bool("paused", d.IsPaused()).Msg("pause toggled")
		case inpututil.IsKeyJustPressed(ebiten.KeyR):
			d.Restart()
		case inpututil.IsKeyJustPressed(ebiten.KeyF3):
			d.SetDisplayStats(!d.IsDisplayStats())
		case inpututil.IsKeyJustPressed(ebiten.KeyF5):
			d.PurgeCachedData()
		}
	}
}

func saveTrace(r *trace.Recorder, filename string, log zerolog.Logger) {
	r.Stop()
	if err := r.Save(filename); err != nil {
		log.Error().Err(err).Str("file", filename).Msg("failed to save frame trace")
		return
	}
	log.Info().Str("file", filename).Int("frames", r.FrameCount()).Msg("frame trace saved")
}
