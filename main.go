package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/ByLCY/dietreport/config"
	"github.com/ByLCY/dietreport/layout"
	"github.com/ByLCY/dietreport/renderer"
	canvasrenderer "github.com/ByLCY/dietreport/renderer/canvas"
	fpdfrenderer "github.com/ByLCY/dietreport/renderer/fpdf"
	"github.com/ByLCY/dietreport/report"
	"github.com/ByLCY/dietreport/server"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	input := flag.String("in", "", "report content (JSON or YAML)")
	output := flag.String("out", "", "PDF output path (default: the report file name)")
	themePath := flag.String("theme", "", "theme file overriding render.theme")
	backendName := flag.String("backend", "", "rendering backend: canvas or fpdf")
	debug := flag.String("debug", "", "write the laid-out document as JSON to this path")
	serve := flag.String("serve", "", "serve the HTTP API on this address instead of generating once")
	flag.Parse()

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *themePath != "" {
		cfg.Render.Theme = *themePath
	}
	if *backendName != "" {
		cfg.Render.Backend = *backendName
	}
	if *serve != "" {
		cfg.Server.Addr = *serve
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid settings: %v", err)
	}

	theme, err := loadTheme(cfg.Render.Theme)
	if err != nil {
		log.Fatalf("load theme: %v", err)
	}
	backend := newBackend(cfg.Render, theme)

	if *serve != "" {
		if err := listen(cfg, theme, backend); err != nil {
			log.Fatalf("serve: %v", err)
		}
		return
	}

	if *input == "" {
		log.Fatalf("missing -in (or use -serve)")
	}
	path, err := run(*input, *output, *debug, theme, backend)
	if err != nil {
		log.Fatalf("generate report: %v", err)
	}
	fmt.Printf("wrote %s\n", path)
}

func loadTheme(path string) (report.Theme, error) {
	if path == "" {
		return report.DefaultTheme(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return report.Theme{}, fmt.Errorf("open theme %s: %w", path, err)
	}
	defer f.Close()
	return report.LoadTheme(f)
}

func newBackend(rc config.RenderConfig, theme report.Theme) renderer.Backend {
	if rc.Backend == config.BackendFpdf {
		return fpdfrenderer.NewRenderer()
	}
	return canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{
		BaseDir: rc.FontDir,
		Fonts:   theme.FontSources(),
	})
}

// run generates one report from a content file and returns the written path.
func run(inputPath, outputPath, debugPath string, theme report.Theme, backend renderer.Backend) (string, error) {
	file, err := os.Open(inputPath)
	if err != nil {
		return "", fmt.Errorf("open content %s: %w", inputPath, err)
	}
	defer file.Close()

	content, err := report.DecodeContent(file)
	if err != nil {
		return "", err
	}

	now := time.Now()
	opts := report.Options{Now: func() time.Time { return now }}
	if debugPath != "" {
		doc, err := report.Assemble(content, theme, backend, opts)
		if err != nil {
			return "", fmt.Errorf("layout: %w", err)
		}
		if err := writeDebug(doc, debugPath); err != nil {
			return "", err
		}
	}

	art, err := report.Generate(content, theme, backend, opts)
	if err != nil {
		return "", err
	}
	if outputPath == "" {
		outputPath = art.FileName
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(outputPath, art.Data, 0o644); err != nil {
		return "", fmt.Errorf("write pdf: %w", err)
	}
	return outputPath, nil
}

func writeDebug(doc *layout.Document, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("create debug directory: %w", err)
	}
	if err := layout.WriteDebugJSON(doc, debugPath); err != nil {
		return fmt.Errorf("write debug json: %w", err)
	}
	return nil
}

func listen(cfg *config.Config, theme report.Theme, backend renderer.Backend) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	h, err := server.New(server.Options{
		Theme:          theme,
		Backend:        backend,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
		Logger:         logger,
	})
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info("listening", "addr", cfg.Server.Addr, "backend", cfg.Render.Backend, "route", server.Route)
	return srv.ListenAndServe()
}
