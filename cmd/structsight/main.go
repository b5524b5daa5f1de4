package main

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/insightstudio/structsight/internal/analysis"
	"github.com/insightstudio/structsight/internal/catalog"
	"github.com/insightstudio/structsight/internal/config"
	"github.com/insightstudio/structsight/internal/logger"
	"github.com/insightstudio/structsight/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("structsight %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("structsight - construction site photo analysis service")
			fmt.Println()
			fmt.Println("Usage: structsight [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  STRUCTSIGHT_ADDR=:8080              HTTP listen address")
			fmt.Println("  STRUCTSIGHT_LOG_MODE=development    Logger mode (development|production)")
			fmt.Println("  STRUCTSIGHT_UPLOAD_DIR=uploads      Upload archive directory")
			fmt.Println("  STRUCTSIGHT_MAX_UPLOAD_BYTES=N      Maximum upload size")
			fmt.Println("  STRUCTSIGHT_CATALOG_PATH=path       Override the embedded material catalog")
			fmt.Println("  STRUCTSIGHT_SEED=N                  Pin the analysis random seed")
			fmt.Println("  STRUCTSIGHT_DISABLE_JITTER=true     Disable completion jitter")
			return
		}
	}

	bootLog, err := logger.New("development")
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	cfg := config.FromEnv(bootLog)

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		bootLog.Fatal("logger init failed", "mode", cfg.LogMode, "error", err)
	}
	defer log.Sync()

	cat := catalog.Default()
	if cfg.CatalogPath != "" {
		cat, err = catalog.Load(cfg.CatalogPath)
		if err != nil {
			log.Fatal("failed to load material catalog", "path", cfg.CatalogPath, "error", err)
		}
		log.Info("loaded material catalog", "path", cfg.CatalogPath, "materials", len(cat.Materials))
	}

	if cfg.UploadDir != "" {
		if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
			log.Fatal("failed to create upload directory", "dir", cfg.UploadDir, "error", err)
		}
	}

	handlerCfg := server.HandlerConfig{
		UploadDir:      cfg.UploadDir,
		MaxUploadBytes: cfg.MaxUploadBytes,
		DisableJitter:  cfg.DisableJitter,
	}
	if cfg.SeedSet {
		handlerCfg.NewRand = func() *rand.Rand {
			return rand.New(rand.NewSource(cfg.Seed))
		}
		log.Info("analysis seed pinned", "seed", cfg.Seed)
	}

	analyzer := analysis.New(cat, log)
	h := server.NewHandler(analyzer, log, handlerCfg)
	router := server.NewRouter(h)

	log.Info("starting server",
		"addr", cfg.Addr,
		"version", Version,
		"upload_dir", cfg.UploadDir,
	)
	if err := router.Run(cfg.Addr); err != nil {
		log.Fatal("server error", "error", err)
	}
}
