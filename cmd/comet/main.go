package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"comet/internal/audio"
	"comet/internal/config"
	"comet/internal/desktop"
	"comet/internal/game"
	"comet/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logCfg := cfg.Logging
	if cfg.Renderer == config.RendererTerminal && logCfg.File == "" {
		logCfg.File = "comet.log"
	}
	log, err := newLogger(logCfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	catalog := config.NewCatalog()
	n, err := catalog.LoadFile(cfg.PresetsFile)
	if err != nil {
		return fmt.Errorf("load presets: %w", err)
	}
	log.Debug("presets loaded", zap.Int("from_file", n), zap.Strings("names", catalog.Names()))

	preset, err := catalog.Lookup(cfg.Preset)
	if err != nil {
		return err
	}
	seed := cfg.ResolveSeed(time.Now())
	sceneCfg, err := preset.Scene(seed)
	if err != nil {
		return fmt.Errorf("preset %s: %w", preset.Name, err)
	}

	scene, err := game.NewScene(sceneCfg, game.SystemClock{}, game.NewEventBus(), log)
	if err != nil {
		return fmt.Errorf("scene: %w", err)
	}
	log.Info("scene ready",
		zap.String("preset", preset.Name),
		zap.Uint64("seed", seed),
		zap.String("renderer", cfg.Renderer),
		zap.Int("tps", cfg.TPS),
	)

	if cfg.Audio.Enabled {
		snd, err := audio.New(cfg.Audio.SampleRate, cfg.Audio.Volume, log)
		if err != nil {
			log.Warn("audio init failed, continuing without sound", zap.Error(err))
		} else {
			defer snd.Close()
			snd.Attach(scene.Bus())
			snd.StartDrone()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cam := startCamera(cfg, preset)

	switch cfg.Renderer {
	case config.RendererTerminal:
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("open terminal: %w", err)
		}
		go func() {
			if err := <-scene.BuildStructureAsync(); err != nil {
				log.Error("build structure", zap.Error(err))
			}
		}()
		return tui.Run(ctx, scene, screen, cam, tui.Options{
			TickInterval: cfg.TickInterval(),
			Shake:        cfg.Camera.Shake,
		}, log)
	default:
		return desktop.Run(ctx, scene, cfg, cam, log)
	}
}

func startCamera(cfg *config.Config, preset config.Preset) game.Camera {
	pos, target := preset.CameraPose()
	if cfg.Camera.Override {
		pos, target = mgl64.Vec3(cfg.Camera.Position), mgl64.Vec3(cfg.Camera.Target)
	}
	return game.NewCameraLookingAt(pos, target, cfg.Camera.FOV)
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := cfg.ZapLevel()
	if err != nil {
		return nil, fmt.Errorf("logging.level: %w", err)
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	if cfg.File != "" {
		zapCfg.OutputPaths = []string{cfg.File}
		zapCfg.ErrorOutputPaths = []string{cfg.File}
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
