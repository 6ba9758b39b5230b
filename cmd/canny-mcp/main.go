package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/ironsheep/canny-edge-mcp/internal/config"
	"github.com/ironsheep/canny-edge-mcp/internal/logging"
	"github.com/ironsheep/canny-edge-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func usage() {
	fmt.Println("canny-mcp - Canny edge detection as an MCP server")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  canny-mcp                 Serve MCP over stdin/stdout")
	fmt.Println("  canny-mcp detect [flags]  Run the pipeline once on a file (see detect -h)")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables (also read from ./.env):")
	fmt.Println("  CANNY_MCP_CONFIG=path.yaml   YAML defaults file")
	fmt.Println("  CANNY_MCP_LOG_LEVEL=debug    debug, info, warn or error")
	fmt.Println("  CANNY_MCP_LOG_FILE=path      Also log JSON to a rotated file")
	fmt.Println("  CANNY_MCP_WORKERS=n          Pipeline worker goroutines")
	fmt.Println("  CANNY_MCP_KERNEL_CACHE=n     Cached Gaussian kernels")
	fmt.Println("  CANNY_MCP_RADIUS, CANNY_MCP_SIGMA, CANNY_MCP_LOW, CANNY_MCP_HIGH,")
	fmt.Println("  CANNY_MCP_GRAYSCALE          Default detection parameters")
}

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("canny-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			usage()
			return
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "canny-mcp: %v\n", err)
		os.Exit(2)
	}

	logger := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	defer func() { _ = logger.Sync() }()

	if len(os.Args) > 1 && os.Args[1] == "detect" {
		if err := runDetect(os.Args[2:], cfg, logger, os.Stdout); err != nil {
			logger.Error("detect failed", zap.Error(err))
			_ = logger.Sync()
			os.Exit(1)
		}
		return
	}

	logger.Debug("build info",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("commit", GitCommit))

	srv := server.New(cfg, server.WithLogger(logger), server.WithVersion(Version))
	if err := srv.Run(); err != nil {
		logger.Error("server error", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}
