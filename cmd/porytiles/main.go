package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	kingpin "gopkg.in/alecthomas/kingpin.v2"

	"github.com/grunt-lucas/porytiles/cmd/internal/errlist"
	"github.com/grunt-lucas/porytiles/porytiles"
)

const (
	programName = "porytiles"
	version     = "1.0.0"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	app := kingpin.New(programName,
		"Compile layered RGBA tilesheets into a 4bpp indexed tileset PNG, JASC palette files, and binary metatile data for pokeemerald-family projects.")
	app.Terminate(nil)
	app.Version(programName + " " + version)
	app.VersionFlag.Short('V')
	app.HelpFlag.Short('h')
	app.UsageWriter(os.Stdout)
	app.ErrorWriter(os.Stderr)

	verbose := app.Flag("verbose", "Enable verbose logging to stderr.").Short('v').Bool()
	output := app.Flag("output", "Output build files to the directory specified by PATH. If any element of PATH does not exist, it will be created. Defaults to the current working directory.").
		Short('o').Default(".").PlaceHolder("PATH").String()

	numTilesPrimary := app.Flag("num-tiles-primary",
		"Set the number of tiles in a primary set. This value should match the corresponding value in your project's fieldmap.h. Defaults to 512 (the pokeemerald default).").Default("-1").Int()
	numTilesTotal := app.Flag("num-tiles-total",
		"Set the total number of tiles (primary + secondary). Defaults to 1024 (the pokeemerald default).").Default("-1").Int()
	numMetatilesPrimary := app.Flag("num-metatiles-primary",
		"Set the number of metatiles in a primary set. Defaults to 512 (the pokeemerald default).").Default("-1").Int()
	numMetatilesTotal := app.Flag("num-metatiles-total",
		"Set the total number of metatiles (primary + secondary). Defaults to 1024 (the pokeemerald default).").Default("-1").Int()
	numPalsPrimary := app.Flag("num-pals-primary",
		"Set the number of palettes in a primary set. Defaults to 6 (the pokeemerald default).").Default("-1").Int()
	numPalsTotal := app.Flag("num-pals-total",
		"Set the total number of palettes (primary + secondary). Defaults to 13 (the pokeemerald default).").Default("-1").Int()

	palMode := app.Flag("tiles-png-pal-mode",
		"Set the palette mode for the output tiles.png: pal0, true-color, or greyscale. These settings are for human visual purposes only and have no effect on the final in-game tiles. Defaults to greyscale.").
		Default("greyscale").Enum("pal0", "true-color", "greyscale")
	secondary := app.Flag("secondary",
		"Treat this tileset as a secondary tileset. Secondary tilesets are able to reuse tiles and palettes from their paired primary tileset.").Bool()

	presetEmerald := app.Flag("preset-emerald", "Set the fieldmap parameters to match pokeemerald. This is the default preset.").Bool()
	presetFirered := app.Flag("preset-firered", "Set the fieldmap parameters to match pokefirered.").Bool()
	presetRuby := app.Flag("preset-ruby", "Set the fieldmap parameters to match pokeruby.").Bool()

	compileCmd := app.Command("compile", "Compile layered metatile sheets (bottom, middle, top).")
	cBottomPrimary := compileCmd.Arg("bottom-primary", "Bottom primary layer PNG.").Required().String()
	cMiddlePrimary := compileCmd.Arg("middle-primary", "Middle primary layer PNG.").Required().String()
	cTopPrimary := compileCmd.Arg("top-primary", "Top primary layer PNG.").Required().String()
	cBottomSecondary := compileCmd.Arg("bottom-secondary", "Bottom secondary layer PNG (requires --secondary).").String()
	cMiddleSecondary := compileCmd.Arg("middle-secondary", "Middle secondary layer PNG (requires --secondary).").String()
	cTopSecondary := compileCmd.Arg("top-secondary", "Top secondary layer PNG (requires --secondary).").String()

	compileRawCmd := app.Command("compile-raw", "Compile a raw tilesheet with no metatile layering.")
	rPrimary := compileRawCmd.Arg("primary", "Primary tilesheet PNG.").Required().String()
	rSecondary := compileRawCmd.Arg("secondary", "Secondary tilesheet PNG (requires --secondary).").String()

	cmd, err := app.Parse(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", programName, err)
		return 1
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.WarnLevel)
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	cfg := porytiles.DefaultConfig()
	switch {
	case *presetFirered:
		porytiles.SetPokefireredDefaultTilesetParams(&cfg)
	case *presetRuby:
		porytiles.SetPokerubyDefaultTilesetParams(&cfg)
	case *presetEmerald:
		// Already the default.
	}
	override := func(dst *int, v int) {
		if v >= 0 {
			*dst = v
		}
	}
	override(&cfg.NumTilesInPrimary, *numTilesPrimary)
	override(&cfg.NumTilesTotal, *numTilesTotal)
	override(&cfg.NumMetatilesInPrimary, *numMetatilesPrimary)
	override(&cfg.NumMetatilesTotal, *numMetatilesTotal)
	override(&cfg.NumPalettesInPrimary, *numPalsPrimary)
	override(&cfg.NumPalettesTotal, *numPalsTotal)

	switch *palMode {
	case "true-color":
		cfg.TilesPNGPaletteMode = porytiles.PaletteModeTrueColor
	case "pal0":
		cfg.TilesPNGPaletteMode = porytiles.PaletteModePal0
	}
	cfg.Secondary = *secondary
	cfg.Log = log

	d := &driver{log: log, outputPath: *output}

	var runErr error
	switch cmd {
	case compileCmd.FullCommand():
		d.primarySheets = []string{*cBottomPrimary, *cMiddlePrimary, *cTopPrimary}
		if cfg.Secondary {
			if *cBottomSecondary == "" || *cMiddleSecondary == "" || *cTopSecondary == "" {
				fmt.Fprintf(os.Stderr, "%s: --secondary requires bottom, middle, and top secondary sheets\n", programName)
				return 1
			}
			d.secondarySheets = []string{*cBottomSecondary, *cMiddleSecondary, *cTopSecondary}
		}
		d.cfg = cfg
		runErr = d.compile()
	case compileRawCmd.FullCommand():
		cfg.NumTilesPerMetatile = 1
		d.primarySheets = []string{*rPrimary}
		if cfg.Secondary {
			if *rSecondary == "" {
				fmt.Fprintf(os.Stderr, "%s: --secondary requires a secondary sheet\n", programName)
				return 1
			}
			d.secondarySheets = []string{*rSecondary}
		}
		d.cfg = cfg
		runErr = d.compileRaw()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n", color.New(color.FgRed).Sprint("error:"), runErr)
		return exitCode(runErr)
	}
	return 0
}

// exitCode maps input validation failures to 2 per the CLI contract;
// any other failure is 1.
func exitCode(err error) int {
	var list errlist.List
	if errors.As(err, &list) {
		return 2
	}
	var invalid *porytiles.InvalidInputError
	if errors.As(err, &invalid) {
		return 2
	}
	return 1
}
