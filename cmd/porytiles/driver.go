package main

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/grunt-lucas/porytiles/cmd/internal/errlist"
	"github.com/grunt-lucas/porytiles/porytiles"
)

// driver wires one CLI invocation: validate the inputs, import, hand
// off to the compiler, write the output files.
type driver struct {
	cfg porytiles.Config
	log *logrus.Logger

	outputPath string

	// Layer paths, bottom first. secondarySheets is set with
	// --secondary and pairs position-wise with primarySheets.
	primarySheets   []string
	secondarySheets []string
}

func (d *driver) validateInputs() error {
	errs := errlist.New()
	if info, err := os.Stat(d.outputPath); err == nil && !info.IsDir() {
		errs = errs.Add(&porytiles.InvalidInputError{Path: d.outputPath, Reason: "exists but is not a directory"})
	}
	for _, path := range d.primarySheets {
		errs = errs.Add(checkSheet(path))
	}
	for _, path := range d.secondarySheets {
		errs = errs.Add(checkSheet(path))
	}
	return errs.Err()
}

func checkSheet(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return &porytiles.InvalidInputError{Path: path, Reason: "file does not exist"}
	}
	if !info.Mode().IsRegular() {
		return &porytiles.InvalidInputError{Path: path, Reason: "exists but was not a regular file"}
	}
	return nil
}

// readSheet decodes one layer. Inputs are probed as PNG here so a bad
// file is reported by name before its tiles are imported. Secondary
// sheets are read only after the primary has been compiled.
func readSheet(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &porytiles.InvalidInputError{Path: path, Reason: err.Error()}
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, &porytiles.InvalidInputError{Path: path, Reason: "is not a valid PNG file"}
	}
	return img, nil
}

func readSheets(paths []string) ([]image.Image, error) {
	imgs := make([]image.Image, 0, len(paths))
	for _, path := range paths {
		img, err := readSheet(path)
		if err != nil {
			return nil, err
		}
		imgs = append(imgs, img)
	}
	return imgs, nil
}

func (d *driver) compile() error {
	if err := d.validateInputs(); err != nil {
		return err
	}

	primaryImgs, err := readSheets(d.primarySheets)
	if err != nil {
		return err
	}
	primaryTiles, err := porytiles.ImportLayeredTiles(primaryImgs...)
	if err != nil {
		return err
	}
	numPrimaryMetatiles := len(primaryTiles.Tiles) / d.cfg.NumTilesPerMetatile
	if numPrimaryMetatiles > d.cfg.NumMetatilesInPrimary {
		return &porytiles.InvalidInputError{Reason: fmt.Sprintf(
			"primary sheet has %d metatiles, max %d", numPrimaryMetatiles, d.cfg.NumMetatilesInPrimary)}
	}
	d.log.Debugf("imported %d primary metatiles from %v", numPrimaryMetatiles, d.primarySheets)

	compiled, err := porytiles.CompilePrimary(d.cfg, primaryTiles)
	if err != nil {
		return err
	}

	if d.cfg.Secondary {
		secondaryImgs, err := readSheets(d.secondarySheets)
		if err != nil {
			return err
		}
		secondaryTiles, err := porytiles.ImportLayeredTiles(secondaryImgs...)
		if err != nil {
			return err
		}
		numSecondaryMetatiles := len(secondaryTiles.Tiles) / d.cfg.NumTilesPerMetatile
		if numPrimaryMetatiles+numSecondaryMetatiles > d.cfg.NumMetatilesTotal {
			return &porytiles.InvalidInputError{Reason: fmt.Sprintf(
				"%d metatiles across primary and secondary sheets, max %d",
				numPrimaryMetatiles+numSecondaryMetatiles, d.cfg.NumMetatilesTotal)}
		}
		d.log.Debugf("imported %d secondary metatiles from %v", numSecondaryMetatiles, d.secondarySheets)

		compiled, err = porytiles.CompileSecondary(d.cfg, secondaryTiles, compiled)
		if err != nil {
			return err
		}
	}

	return d.emit(compiled, true)
}

// compileRaw compiles a single sheet with no metatile layering; every
// 8x8 tile stands alone, so there is no metatiles.bin to write.
func (d *driver) compileRaw() error {
	if err := d.validateInputs(); err != nil {
		return err
	}

	sheet, err := readSheet(d.primarySheets[0])
	if err != nil {
		return err
	}
	tiles, err := porytiles.ImportRawTiles(sheet)
	if err != nil {
		return err
	}

	compiled, err := porytiles.CompilePrimary(d.cfg, tiles)
	if err != nil {
		return err
	}

	if d.cfg.Secondary {
		secondarySheet, err := readSheet(d.secondarySheets[0])
		if err != nil {
			return err
		}
		secondaryTiles, err := porytiles.ImportRawTiles(secondarySheet)
		if err != nil {
			return err
		}
		compiled, err = porytiles.CompileSecondary(d.cfg, secondaryTiles, compiled)
		if err != nil {
			return err
		}
	}

	return d.emit(compiled, false)
}

func (d *driver) emit(compiled *porytiles.CompiledTileset, metatiles bool) error {
	palettesDir := filepath.Join(d.outputPath, "palettes")
	tilesetPath := filepath.Join(d.outputPath, "tiles.png")
	metatilesPath := filepath.Join(d.outputPath, "metatiles.bin")

	errs := errlist.New()
	if info, err := os.Stat(tilesetPath); err == nil && !info.Mode().IsRegular() {
		errs = errs.Add(&porytiles.InvalidInputError{Path: tilesetPath, Reason: "exists in output directory but is not a file"})
	}
	if metatiles {
		if info, err := os.Stat(metatilesPath); err == nil && !info.Mode().IsRegular() {
			errs = errs.Add(&porytiles.InvalidInputError{Path: metatilesPath, Reason: "exists in output directory but is not a file"})
		}
	}
	if info, err := os.Stat(palettesDir); err == nil && !info.IsDir() {
		errs = errs.Add(&porytiles.InvalidInputError{Path: palettesDir, Reason: "exists in output directory but is not a directory"})
	}
	if err := errs.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(palettesDir, 0o755); err != nil {
		return errors.Wrap(err, "create output directories")
	}

	for i := 0; i < d.cfg.NumPalettesTotal; i++ {
		path := filepath.Join(palettesDir, fmt.Sprintf("%02d.pal", i))
		err := writeFile(path, func(w io.Writer) error {
			if i < len(compiled.Palettes) {
				return porytiles.EmitPalette(w, &compiled.Palettes[i])
			}
			return porytiles.EmitZeroedPalette(w, d.cfg.TransparencyColor)
		})
		if err != nil {
			return err
		}
	}
	d.log.Debugf("wrote %d palette files to %s", d.cfg.NumPalettesTotal, palettesDir)

	err := writeFile(tilesetPath, func(w io.Writer) error {
		return porytiles.EmitTilesPNG(w, &d.cfg, compiled)
	})
	if err != nil {
		return err
	}

	if metatiles {
		err := writeFile(metatilesPath, func(w io.Writer) error {
			return porytiles.EmitMetatilesBin(w, compiled)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, emit func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, path)
	}
	if err := emit(f); err != nil {
		f.Close()
		return errors.Wrap(err, path)
	}
	return errors.Wrap(f.Close(), path)
}
