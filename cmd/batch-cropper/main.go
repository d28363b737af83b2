package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"

	batchcropper "github.com/menta2k/batch-cropper"
	"github.com/menta2k/batch-cropper/internal/config"
	"github.com/menta2k/batch-cropper/internal/server"
	"github.com/menta2k/batch-cropper/internal/utils"
	"github.com/menta2k/batch-cropper/pkg/pixel"
	"github.com/menta2k/batch-cropper/pkg/processing"
	"github.com/menta2k/batch-cropper/pkg/types"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Send()
	}
}

func run() error {
	var args cliArgs
	cliCtx := kong.Parse(
		&args,
		kong.Name("batch-cropper"),
		kong.UsageOnError(),
	)

	level := zerolog.InfoLevel
	if args.Verbose {
		level = zerolog.DebugLevel
	}
	log.Logger = log.Output(zerolog.NewConsoleWriter()).Level(level)
	zerolog.DefaultContextLogger = &log.Logger

	return cliCtx.Run(loadConfig(args.Config))
}

type cliArgs struct {
	Verbose bool   `help:"Enable verbose logging" default:"false"`
	Config  string `help:"Path to a JSON config file" type:"path"`

	Detect   detectCmd   `cmd:"" help:"Auto-detect object bounding boxes in an image"`
	Removebg removeBgCmd `cmd:"" help:"Remove a background color from one or more images"`
	Export   exportCmd   `cmd:"" help:"Apply crop rectangles to images and write ZIP archives"`
	Serve    serveCmd    `cmd:"" help:"Serve the cropping API over HTTP"`
}

func loadConfig(path string) *config.Config {
	if path == "" {
		path = config.GetConfigPath()
		if !utils.FileExists(path) {
			return config.Default()
		}
	}
	cfg, err := config.LoadFromFile(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("cannot load config, using defaults")
		return config.Default()
	}
	if err := cfg.Validate(); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("invalid config, using defaults")
		return config.Default()
	}
	return cfg
}

type detectCmd struct {
	Image string `arg:"" help:"Image path or URL" type:"string"`
	Color string `help:"Background hex color (#RRGGBB); when empty, transparency is used"`
}

func (cmd *detectCmd) Run(cfg *config.Config) error {
	proc := processing.NewProcessor()
	engine := batchcropper.New()

	img, err := proc.LoadImageSmart(cmd.Image)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", cmd.Image, err)
	}
	rec := batchcropper.NewImageRecord(filepath.Base(cmd.Image), pixel.FromImage(img))

	var regions []types.CropRect
	if cmd.Color != "" {
		regions = engine.DetectRegionsByColor(rec, cmd.Color)
	} else {
		regions = engine.DetectRegionsTransparent(rec)
	}

	if len(regions) == 0 {
		log.Info().Msg("nothing detected")
	}
	enc := json.NewEncoder(os.Stdout)
	for _, r := range regions {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}

type removeBgCmd struct {
	Images  []string `arg:"" help:"Image paths" type:"existingfile"`
	Color   string   `help:"Background hex color (#RRGGBB)" default:""`
	Feather int      `help:"Feather width in color-distance units (0-100)" default:"-1"`
	Out     string   `help:"Output directory" default:"output"`
}

func (cmd *removeBgCmd) Run(cfg *config.Config) error {
	color := cmd.Color
	if color == "" {
		color = cfg.Matte.DefaultColor
	}
	feather := cmd.Feather
	if feather < 0 {
		feather = cfg.Matte.DefaultFeather
	}

	if err := utils.EnsureDir(cmd.Out); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", cmd.Out, err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	engine := batchcropper.New()
	proc := processing.NewProcessor()

	pooler := pool.New().WithErrors().WithContext(ctx).WithMaxGoroutines(runtime.NumCPU())
	for _, path := range cmd.Images {
		pooler.Go(func(ctx context.Context) error {
			buf, err := proc.LoadBuffer(path)
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", path, err)
			}
			rec := batchcropper.NewImageRecord(filepath.Base(path), buf)
			out := engine.RemoveBackground(rec, color, feather)

			pixels, err := out.Source.Pixels()
			if err != nil {
				return err
			}
			// Matte output needs alpha, so removebg always writes PNG.
			dst := filepath.Join(cmd.Out, utils.BaseName(path)+".png")
			if err := proc.SaveImage(pixels.Image(), dst, "png", cfg.Output.Quality, false); err != nil {
				return fmt.Errorf("failed to save %s: %w", dst, err)
			}
			log.Ctx(ctx).Info().Str("file", dst).Msg("background removed")
			return nil
		})
	}
	return pooler.Wait()
}

type exportCmd struct {
	Images []string `arg:"" help:"Image paths or a directory" type:"string"`
	Crop   []string `help:"Crop rectangle as x,y,w,h (repeatable)" required:""`
	Out    string   `help:"Output directory for ZIP archives" default:"output"`
}

func (cmd *exportCmd) Run(cfg *config.Config) error {
	crops, err := parseCrops(cmd.Crop)
	if err != nil {
		return err
	}

	paths, err := expandImageArgs(cmd.Images)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no images to export")
	}

	proc := processing.NewProcessor()
	records := make([]types.ImageRecord, 0, len(paths))
	for _, path := range paths {
		src, w, h, err := proc.FileSource(path)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
		records = append(records, types.NewLazyImageRecord(filepath.Base(path), w, h, src))
	}

	if err := utils.EnsureDir(cmd.Out); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", cmd.Out, err)
	}

	engine := batchcropper.New()
	engine.Pipeline().ArchiveBaseName = cfg.Export.ArchiveBaseName
	engine.Pipeline().SettleDelay = time.Duration(cfg.Export.SettleDelayMS) * time.Millisecond

	archives := engine.ExportCrops(crops, records, func(done, total int) {
		log.Debug().Int("done", done).Int("total", total).Msg("export progress")
	})

	for _, archive := range archives {
		dst := filepath.Join(cmd.Out, utils.SanitizeFilename(archive.Name)+".zip")
		if err := writeZip(dst, archive); err != nil {
			return fmt.Errorf("failed to write %s: %w", dst, err)
		}
		log.Info().Str("archive", dst).Int("files", len(archive.Files)).Msg("archive written")
	}
	return nil
}

type serveCmd struct {
	Addr string `help:"Listen address" default:""`
}

func (cmd *serveCmd) Run(cfg *config.Config) error {
	if cmd.Addr != "" {
		cfg.Server.Addr = cmd.Addr
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	ctx = log.Logger.WithContext(ctx)

	return server.New(*cfg).Run(ctx)
}

// parseCrops turns repeated "x,y,w,h" flags into crop rectangles.
func parseCrops(specs []string) ([]types.CropRect, error) {
	crops := make([]types.CropRect, 0, len(specs))
	for _, spec := range specs {
		parts := strings.Split(spec, ",")
		if len(parts) != 4 {
			return nil, fmt.Errorf("invalid crop %q, expected x,y,w,h", spec)
		}
		vals := make([]int, 4)
		for i, part := range parts {
			v, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return nil, fmt.Errorf("invalid crop %q: %w", spec, err)
			}
			vals[i] = v
		}
		if vals[2] <= 0 || vals[3] <= 0 {
			return nil, fmt.Errorf("invalid crop %q: width and height must be positive", spec)
		}
		crops = append(crops, types.NewCropRect(vals[0], vals[1], vals[2], vals[3]))
	}
	return crops, nil
}

func expandImageArgs(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot stat %s: %w", arg, err)
		}
		if info.IsDir() {
			found, err := utils.ListImageFiles(arg)
			if err != nil {
				return nil, fmt.Errorf("cannot list %s: %w", arg, err)
			}
			paths = append(paths, found...)
		} else {
			paths = append(paths, arg)
		}
	}
	return paths, nil
}
