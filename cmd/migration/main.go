package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/riskibarqy/mlbb-analytics/internal/app"
	"github.com/riskibarqy/mlbb-analytics/internal/config"
	"github.com/riskibarqy/mlbb-analytics/internal/platform/logging"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	logger := logging.NewConsole(os.Stderr, logging.LevelInfo).Named("migration")
	fail := func(msg string, args ...any) {
		logger.Error(msg, args...)
		_ = logger.Sync()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fail("load config", "error", err)
	}

	migrator, err := app.NewMigrator(cfg)
	if err != nil {
		fail("create migrator", "error", err)
	}
	defer func() {
		if err := migrator.Close(); err != nil {
			logger.Warn("close migrator", "error", err)
		}
	}()

	switch strings.ToLower(strings.TrimSpace(os.Args[1])) {
	case "up":
		if err := migrator.Up(); err != nil {
			fail("apply migrations", "error", err)
		}
		logger.Info("migrations applied", "source", migrator.Source)
	case "down":
		steps := 1
		if len(os.Args) > 2 {
			steps, err = strconv.Atoi(strings.TrimSpace(os.Args[2]))
			if err != nil {
				fail("invalid down steps", "value", os.Args[2], "error", err)
			}
		}
		if err := migrator.Down(steps); err != nil {
			fail("roll back migrations", "steps", steps, "error", err)
		}
		logger.Info("migrations rolled back", "steps", steps)
	case "version":
		version, dirty, ok, err := migrator.Version()
		if err != nil {
			fail("read version", "error", err)
		}
		if !ok {
			fmt.Println("version: none")
			fmt.Println("dirty: false")
			return
		}
		fmt.Printf("version: %d\n", version)
		fmt.Printf("dirty: %t\n", dirty)
	case "force":
		if len(os.Args) < 3 {
			fail("force requires a version argument")
		}
		version, err := strconv.Atoi(strings.TrimSpace(os.Args[2]))
		if err != nil {
			fail("invalid version", "value", os.Args[2], "error", err)
		}
		if err := migrator.Force(version); err != nil {
			fail("force version", "error", err)
		}
		logger.Info("version forced", "version", version)
	case "goto":
		if len(os.Args) < 3 {
			fail("goto requires a target version argument")
		}
		target, err := strconv.ParseUint(strings.TrimSpace(os.Args[2]), 10, 64)
		if err != nil {
			fail("invalid target version", "value", os.Args[2], "error", err)
		}
		if err := migrator.Goto(uint(target)); err != nil {
			fail("migrate to version", "target", target, "error", err)
		}
		logger.Info("migrated", "version", target)
	default:
		printUsage()
		os.Exit(2)
	}
}

func printUsage() {
	name := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "usage: %s <up|down|version|force|goto> [args]\n", name)
	fmt.Fprintln(os.Stderr, "examples:")
	fmt.Fprintf(os.Stderr, "  %s up\n", name)
	fmt.Fprintf(os.Stderr, "  %s down 1\n", name)
	fmt.Fprintf(os.Stderr, "  %s version\n", name)
	fmt.Fprintf(os.Stderr, "  %s goto 20260301000000\n", name)
}
