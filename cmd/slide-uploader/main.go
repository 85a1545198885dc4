package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lmittmann/tint"

	slideuploader "github.com/menta2k/slide-uploader"
	"github.com/menta2k/slide-uploader/internal/config"
	"github.com/menta2k/slide-uploader/internal/utils"
	"github.com/menta2k/slide-uploader/pkg/clarifai"
)

func main() {
	var key, cfgPath, refFile, format string
	var scale int
	var verbose bool

	flag.StringVar(&key, "key", "", "API key for the catalog app the slides are posted to")
	flag.StringVar(&cfgPath, "config", "", "path to a JSON config file (default: none)")
	flag.StringVar(&refFile, "ref", "", "path to the specimen reference table (CSV)")
	flag.IntVar(&scale, "scale", 0, "scale divisor override (default from config)")
	flag.StringVar(&format, "format", "", "scaled output format: png|jpg|webp")
	flag.BoolVar(&verbose, "v", false, "verbose logging")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [-key API_KEY] [-config file] [-ref table.csv] [-scale N] [-format png|jpg|webp] [-v] slide.svs\n",
			filepath.Base(os.Args[0]))
		os.Exit(2)
	}
	slidePath := flag.Arg(0)

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: level}))
	slog.SetDefault(logger)

	cfg := config.Default()
	if cfgPath != "" {
		loaded, err := config.LoadFromFile(cfgPath)
		if err != nil {
			logger.Error("failed to load config", "err", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	// Flags override config file values
	if key != "" {
		cfg.APIKey = key
	}
	if refFile != "" {
		cfg.ReferenceFile = refFile
	}
	if scale > 0 {
		cfg.ScaleFactor = scale
	}
	if format != "" {
		cfg.OutputFormat = format
	}
	cfg.Verbose = verbose

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	if !utils.IsSlideFile(slidePath) {
		logger.Warn("input does not look like a slide file", "path", slidePath)
	}
	if !utils.FileExists(cfg.ReferenceFile) {
		logger.Error("reference table not found", "path", cfg.ReferenceFile)
		os.Exit(1)
	}

	uploadClient, err := clarifai.NewClient(cfg.Endpoint, cfg.APIKey)
	if err != nil {
		logger.Error("failed to create upload client", "err", err)
		os.Exit(1)
	}
	defer uploadClient.Close()

	pipe := slideuploader.New(cfg, uploadClient, logger)
	if err := pipe.Run(context.Background(), slidePath); err != nil {
		logger.Error("run failed", "slide", slidePath, "err", err)
		os.Exit(1)
	}
}
