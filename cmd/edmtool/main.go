// edmtool exports scene descriptions to EDM binary files.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/edm-exporter/internal/config"
	"github.com/Faultbox/edm-exporter/internal/export"
	"github.com/Faultbox/edm-exporter/internal/logger"
	"github.com/Faultbox/edm-exporter/internal/source"
	"github.com/Faultbox/edm-exporter/pkg/edm"
	"github.com/Faultbox/edm-exporter/pkg/scene"
)

// Exit codes by error kind.
const (
	exitFailure  = 1
	exitInvalid  = 2
	exitResource = 3
	exitIO       = 4
)

func main() {
	config.ParseFlags()

	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(exitFailure)
	}

	command := args[0]
	args = args[1:]

	switch command {
	case "help", "-h", "--help":
		printUsage()
		return
	case "init-config":
		cmdInitConfig(args)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(exitFailure)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(exitFailure)
	}
	defer logger.Sync()
	logger.Sugar.Debugf("Config: %+v", cfg)

	opts, err := cfg.ExportOptions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(exitFailure)
	}

	switch command {
	case "export", "x":
		err = cmdExport(args, opts)
	case "validate", "check":
		err = cmdValidate(args, opts)
	case "dump":
		err = cmdDump(args, opts)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(exitFailure)
	}

	if err != nil {
		logger.Error("command failed", zap.String("command", command), zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		logger.Sync()
		os.Exit(exitCode(err))
	}
}

func printUsage() {
	fmt.Println(`edmtool - EDM scene exporter

Usage:
  edmtool [flags] <command> [options]

Commands:
  export <scene> [output.edm]   Export a scene (.yaml, .yml, .gltf, .glb)
  validate <scene>              Build the EDM graph without writing it
  dump [-geometry] <scene>      Print the assembled EDM graph
  init-config [path]            Write a default config file
  help                          Show this help

Flags:
  -config <path>        Config file (default ./edmtool.yaml or user config dir)
  -debug                Enable debug logging
  -apply-modifiers      Export modifier-evaluated geometry
  -encoding <name>      Name encoding: utf-8, windows-1251, windows-1252
  -log-file <path>      Also write logs to a rotating file

Examples:
  edmtool export models/cubes.yaml
  edmtool -encoding windows-1251 export hangar.glb out/hangar.edm
  edmtool dump -geometry models/cubes.yaml`)
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, edm.ErrInputValidation):
		return exitInvalid
	case errors.Is(err, edm.ErrResource):
		return exitResource
	case errors.Is(err, edm.ErrIO):
		return exitIO
	default:
		return exitFailure
	}
}

func loadScene(path string) (*scene.Scene, error) {
	if !source.Supported(path) {
		return nil, edm.InvalidInput("%s: unsupported scene file (want .yaml, .yml, .gltf or .glb)", path)
	}

	sc, err := source.Load(path)
	if err != nil {
		return nil, err
	}
	logger.Info("scene loaded",
		zap.String("path", path),
		zap.String("scene", sc.Name),
		zap.Int("objects", len(sc.Objects)),
		zap.Int("materials", len(sc.Materials)),
	)
	return sc, nil
}

func cmdExport(args []string, opts export.Options) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: edmtool export <scene> [output.edm]")
		os.Exit(exitFailure)
	}

	input := fs.Arg(0)
	output := strings.TrimSuffix(input, filepath.Ext(input)) + ".edm"
	if fs.NArg() > 1 {
		output = fs.Arg(1)
	}

	sc, err := loadScene(input)
	if err != nil {
		return err
	}

	f, err := export.Export(sc, output, opts)
	if err != nil {
		return err
	}

	fmt.Printf("Exported %s -> %s\n", input, output)
	printStats(f)
	return nil
}

func cmdValidate(args []string, opts export.Options) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: edmtool validate <scene>")
		os.Exit(exitFailure)
	}

	sc, err := loadScene(fs.Arg(0))
	if err != nil {
		return err
	}

	f, err := export.Build(sc, opts)
	if err != nil {
		return err
	}
	encoded, err := edm.Encode(f, opts.Codepage)
	if err != nil {
		return err
	}

	fmt.Printf("%s: OK (%d bytes)\n", fs.Arg(0), len(encoded))
	printStats(f)
	return nil
}

func cmdDump(args []string, opts export.Options) error {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	geometry := fs.Bool("geometry", false, "Include vertex and index data")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: edmtool dump [-geometry] <scene>")
		os.Exit(exitFailure)
	}

	sc, err := loadScene(fs.Arg(0))
	if err != nil {
		return err
	}

	f, err := export.Build(sc, opts)
	if err != nil {
		return err
	}

	export.Dump(os.Stdout, f, *geometry)
	return nil
}

func cmdInitConfig(args []string) {
	cfg := config.Default()

	var err error
	path := filepath.Join(config.ConfigDir(), "config.yaml")
	if len(args) > 0 {
		path = args[0]
		err = cfg.SaveTo(path)
	} else {
		err = cfg.Save()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitIO)
	}
	fmt.Printf("Wrote %s\n", path)
}

func printStats(f *edm.File) {
	vertices, triangles := 0, 0
	for _, rn := range f.RenderNodes {
		vertices += len(rn.Vertices)
		triangles += rn.TriangleCount()
	}

	counts := f.TypeCounts()
	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Strings(types)

	for _, t := range types {
		fmt.Printf("  %-20s %d\n", t, counts[t])
	}
	fmt.Printf("  %-20s %d\n", "vertices", vertices)
	fmt.Printf("  %-20s %d\n", "triangles", triangles)
	fmt.Printf("  %-20s %v .. %v\n", "bounds", f.Root.BoundsMin, f.Root.BoundsMax)
}
