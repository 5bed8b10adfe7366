package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/bruce5f/buddhabrotCLU/internal/config"
	"github.com/bruce5f/buddhabrotCLU/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version, --help and subcommands
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("buddhabrot %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		}
	}

	// Configure logging to stderr (stdout carries progress or the MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(os.Args) > 1 && os.Args[1] == "serve" {
		if os.Getenv(config.LogLevelEnv) == "debug" {
			log.Printf("Buddhabrot MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		}
		srv := server.New(server.WithVersion(Version))
		if err := srv.Run(ctx); err != nil {
			log.Fatalf("Server error: %v", err)
		}
		return
	}

	if err := run(ctx, os.Args[1:], os.Stdout, os.Getenv); err != nil {
		log.Fatalf("Render failed: %v", err)
	}
}

func printHelp() {
	fmt.Println("buddhabrot - Buddhabrot density renderer")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  buddhabrot [options]    Sample seeds and render an image")
	fmt.Println("  buddhabrot serve        Run as an MCP tool server on stdin/stdout")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -d int             minimum iteration depth (default 10000)")
	fmt.Println("  -D int             maximum iteration depth (default 100000)")
	fmt.Println("  -j int             plot depth for escape orbits (default 1000000)")
	fmt.Println("  -g int             goal number of seeds (default 100)")
	fmt.Println("  -o name            output image name (default defaultBuddha)")
	fmt.Println("  -r int             image resolution (default 1000)")
	fmt.Println("  -e float           tone exponent (default 1.0)")
	fmt.Println("  -b float           brightness (default 0.2)")
	fmt.Println("  -passes int        raster passes before giving up (default 1000)")
	fmt.Println("  -no-jitter         sample the exact raster")
	fmt.Println("  -seed int          random seed for jitter")
	fmt.Println("  -include-edge      count visits on the first row and column")
	fmt.Println("  -palette #a:#b     two-color palette")
	fmt.Println("  -thumb int         also write a thumbnail of this width")
	fmt.Println("  -seeds-in path     resume from a seed file")
	fmt.Println("  -seeds-out path    store accepted seeds")
	fmt.Println("  -workers int       worker goroutines (default NumCPU)")
	fmt.Println("  -progress-addr a   serve a websocket progress feed")
	fmt.Println("  --version, -v      Print version information")
	fmt.Println("  --help, -h         Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Printf("  %s=debug    Enable debug logging\n", config.LogLevelEnv)
}
