// Package server exposes the cropping engine over HTTP for the browser
// UI: image upload, crop editing, region detection, background removal
// and ZIP export download.
package server

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	batchcropper "github.com/menta2k/batch-cropper"
	"github.com/menta2k/batch-cropper/internal/config"
	"github.com/menta2k/batch-cropper/pkg/pixel"
	"github.com/menta2k/batch-cropper/pkg/processing"
	"github.com/menta2k/batch-cropper/pkg/types"
	"github.com/menta2k/batch-cropper/pkg/viewport"
)

// Server wires a fiber app around one in-memory session.
type Server struct {
	cfg     config.Config
	engine  *batchcropper.Engine
	proc    *processing.Processor
	session *Session

	shutdownCh   chan struct{}
	shutdownOnce sync.Once
}

// New creates a server with an empty session.
func New(cfg config.Config) *Server {
	engine := batchcropper.New()
	engine.Pipeline().ArchiveBaseName = cfg.Export.ArchiveBaseName
	engine.Pipeline().SettleDelay = time.Duration(cfg.Export.SettleDelayMS) * time.Millisecond

	return &Server{
		cfg:        cfg,
		engine:     engine,
		proc:       processing.NewProcessor(),
		session:    NewSession(),
		shutdownCh: make(chan struct{}),
	}
}

// Shutdown stops the server once.
func (s *Server) Shutdown() {
	s.shutdownOnce.Do(func() {
		close(s.shutdownCh)
	})
}

// Run serves until the context is canceled or Shutdown is called.
func (s *Server) Run(ctx context.Context) error {
	app := fiber.New(fiber.Config{
		BodyLimit:             s.cfg.Server.MaxUploadMB * 1024 * 1024,
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Ctx(c.Context()).Error().
				Err(err).
				Str("path", c.Path()).
				Str("method", c.Method()).
				Msg("Request failed")
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
			}
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
		},
	})

	go func() {
		select {
		case <-ctx.Done():
		case <-s.shutdownCh:
		}
		if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("Failed to shutdown server")
		}
	}()

	s.routes(app)

	log.Ctx(ctx).Info().Str("addr", s.cfg.Server.Addr).Msg("Server listening")
	if err := app.Listen(s.cfg.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func (s *Server) routes(app *fiber.App) {
	app.Post("/api/images", s.handleUpload)
	app.Get("/api/images", s.handleListImages)
	app.Delete("/api/images", s.handleClear)

	app.Get("/api/crops", s.handleGetCrops)
	app.Put("/api/crops", s.handleSetCrops)

	app.Post("/api/detect", s.handleDetect)
	app.Post("/api/removebg", s.handleRemoveBackground)
	app.Post("/api/project", s.handleProject)

	app.Get("/api/export", s.handleExport)
	app.Post("/api/shutdown", func(c *fiber.Ctx) error {
		s.Shutdown()
		return c.SendStatus(http.StatusNoContent)
	})
}

func (s *Server) handleUpload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "expected multipart form")
	}

	files := form.File["files"]
	if len(files) == 0 {
		return fiber.NewError(http.StatusBadRequest, "no files in upload")
	}

	// Decode everything before touching the session so a failed upload
	// leaves prior state intact.
	recs := make([]types.ImageRecord, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, fmt.Sprintf("cannot open %s", fh.Filename))
		}
		data, readErr := io.ReadAll(f)
		f.Close()
		if readErr != nil {
			return fiber.NewError(http.StatusBadRequest, fmt.Sprintf("cannot read %s", fh.Filename))
		}

		img, err := s.proc.DecodeBytes(data)
		if err != nil {
			return fiber.NewError(http.StatusUnprocessableEntity, fmt.Sprintf("cannot decode %s", fh.Filename))
		}
		recs = append(recs, batchcropper.NewImageRecord(fh.Filename, pixel.FromImage(img)))
	}

	s.session.AddImages(recs)
	log.Ctx(c.Context()).Info().Int("count", len(recs)).Msg("images uploaded")
	return c.Status(http.StatusCreated).JSON(s.session.Images())
}

func (s *Server) handleListImages(c *fiber.Ctx) error {
	return c.JSON(s.session.Images())
}

func (s *Server) handleClear(c *fiber.Ctx) error {
	s.session.Clear()
	return c.SendStatus(http.StatusNoContent)
}

func (s *Server) handleGetCrops(c *fiber.Ctx) error {
	return c.JSON(s.session.Crops())
}

func (s *Server) handleSetCrops(c *fiber.Ctx) error {
	var crops []types.CropRect
	if err := c.BodyParser(&crops); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid crop list")
	}
	s.session.SetCrops(crops)
	return c.JSON(s.session.Crops())
}

func (s *Server) handleDetect(c *fiber.Ctx) error {
	var req struct {
		ImageID string `json:"image_id"`
		Color   string `json:"color"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request")
	}

	rec, ok := s.session.FindImage(req.ImageID)
	if !ok {
		return fiber.NewError(http.StatusNotFound, "image not found")
	}

	var regions []types.CropRect
	if req.Color != "" {
		regions = s.engine.DetectRegionsByColor(rec, req.Color)
	} else {
		regions = s.engine.DetectRegionsTransparent(rec)
	}

	// Empty is a valid answer: the UI falls back to manual crop entry.
	if regions == nil {
		regions = []types.CropRect{}
	}
	return c.JSON(regions)
}

func (s *Server) handleRemoveBackground(c *fiber.Ctx) error {
	var req struct {
		ImageID string `json:"image_id"`
		Color   string `json:"color"`
		Feather int    `json:"feather"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request")
	}

	rec, ok := s.session.FindImage(req.ImageID)
	if !ok {
		return fiber.NewError(http.StatusNotFound, "image not found")
	}

	next := s.engine.RemoveBackground(rec, req.Color, req.Feather)
	s.session.ReplaceImage(rec.ID, next)
	return c.JSON(next)
}

func (s *Server) handleProject(c *fiber.Ctx) error {
	var req struct {
		Crop      types.CropRect `json:"crop"`
		ViewportW int            `json:"viewport_w"`
		ViewportH int            `json:"viewport_h"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request")
	}
	proj, ok := s.engine.ProjectCropToViewport(req.Crop, viewport.Size{Width: req.ViewportW, Height: req.ViewportH})
	return c.JSON(fiber.Map{"projection": proj, "ok": ok})
}

func (s *Server) handleExport(c *fiber.Ctx) error {
	crops := s.session.Crops()
	images := s.session.Images()
	if len(crops) == 0 || len(images) == 0 {
		return fiber.NewError(http.StatusConflict, "need at least one crop and one image")
	}

	ctx := c.Context()
	archives := s.engine.ExportCrops(crops, images, func(done, total int) {
		log.Ctx(ctx).Debug().Int("done", done).Int("total", total).Msg("export progress")
	})

	data, name, err := bundleArchives(archives)
	if err != nil {
		return fmt.Errorf("failed to assemble archive: %w", err)
	}

	c.Set(fiber.HeaderContentType, "application/zip")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, name))
	return c.Send(data)
}

// bundleArchives serializes export results as ZIP bytes. A single archive
// becomes one flat ZIP of PNG entries; several archives are nested as
// per-crop ZIPs inside an outer export bundle.
func bundleArchives(archives []types.Archive) ([]byte, string, error) {
	if len(archives) == 1 {
		data, err := zipArchive(archives[0])
		return data, archives[0].Name + ".zip", err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, archive := range archives {
		inner, err := zipArchive(archive)
		if err != nil {
			return nil, "", err
		}
		w, err := zw.Create(archive.Name + ".zip")
		if err != nil {
			return nil, "", err
		}
		if _, err := w.Write(inner); err != nil {
			return nil, "", err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), "export.zip", nil
}

func zipArchive(archive types.Archive) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, file := range archive.Files {
		w, err := zw.Create(file.Name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(file.Data); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
