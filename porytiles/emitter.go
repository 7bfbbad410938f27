package porytiles

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/pkg/errors"
)

// TilesPNGWidthInTiles is the fixed width of the emitted tiles.png.
const TilesPNGWidthInTiles = 16

// EmitPalette writes one palette as JASC-PAL text. All 16 slots are
// written; channels print as multiples of 8, the precision the hardware
// actually keeps.
func EmitPalette(w io.Writer, pal *GBAPalette) error {
	if _, err := io.WriteString(w, "JASC-PAL\n0100\n16\n"); err != nil {
		return errors.Wrap(err, "palette header")
	}
	for i := 0; i < PalSize; i++ {
		c := BGRToRGBA(pal.Colors[i])
		if _, err := fmt.Fprintf(w, "%d %d %d\n", c.R, c.G, c.B); err != nil {
			return errors.Wrapf(err, "palette slot %d", i)
		}
	}
	return nil
}

// EmitZeroedPalette writes a placeholder palette: slot 0 holds the
// transparency color, the rest are black. Palette files past the
// compiled count are emitted this way so the target project always sees
// its full complement of files.
func EmitZeroedPalette(w io.Writer, transparency RGBA32) error {
	pal := GBAPalette{Size: 1}
	pal.Colors[0] = RGBAToBGR(transparency)
	return EmitPalette(w, &pal)
}

// EmitTilesPNG writes the stored tiles as an indexed PNG, 16 tiles
// wide. In greyscale mode (and the reserved pal0 mode) each pixel is
// the 4-bit palette index against a grey ramp; in true-color mode the
// high 4 bits select the tile's palette, which downstream tooling
// ignores but viewers resolve to the real colors.
func EmitTilesPNG(w io.Writer, cfg *Config, tileset *CompiledTileset) error {
	rows := (len(tileset.Tiles) + TilesPNGWidthInTiles - 1) / TilesPNGWidthInTiles
	if rows == 0 {
		rows = 1
	}

	var pngPal color.Palette
	switch cfg.TilesPNGPaletteMode {
	case PaletteModeTrueColor:
		for pi := range tileset.Palettes {
			for _, bgr := range tileset.Palettes[pi].Colors {
				c := BGRToRGBA(bgr)
				pngPal = append(pngPal, color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
			}
		}
	default:
		// Greyscale; pal0 is reserved and emits the same ramp.
		for i := 0; i < PalSize; i++ {
			v := uint8(16 * i)
			pngPal = append(pngPal, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}

	img := image.NewPaletted(image.Rect(0, 0, TilesPNGWidthInTiles*TileSideLength, rows*TileSideLength), pngPal)
	for tileIndex := 0; tileIndex < TilesPNGWidthInTiles*rows; tileIndex++ {
		tileRow := tileIndex / TilesPNGWidthInTiles
		tileCol := tileIndex % TilesPNGWidthInTiles
		for pixelIndex := 0; pixelIndex < TileNumPix; pixelIndex++ {
			pixelRow := tileRow*TileSideLength + pixelIndex/TileSideLength
			pixelCol := tileCol*TileSideLength + pixelIndex%TileSideLength
			var value uint8
			if tileIndex < len(tileset.Tiles) {
				tile := &tileset.Tiles[tileIndex]
				value = tile.Pixel(pixelIndex)
				if cfg.TilesPNGPaletteMode == PaletteModeTrueColor {
					value |= tileset.PaletteIndexOfTile[tileIndex] << 4
				}
			}
			// Trailing slots in the last row stay transparent (0).
			img.SetColorIndex(pixelCol, pixelRow, value)
		}
	}

	return errors.Wrap(png.Encode(w, img), "encode tiles.png")
}

// EmitMetatilesBin writes one little-endian 16-bit word per assignment:
// bits 0-9 tile index, bit 10 hFlip, bit 11 vFlip, bits 12-15 palette.
func EmitMetatilesBin(w io.Writer, tileset *CompiledTileset) error {
	buf := make([]byte, 2*len(tileset.Assignments))
	for i := range tileset.Assignments {
		a := &tileset.Assignments[i]
		word := uint16(a.TileIndex & 0x3FF)
		if a.HFlip {
			word |= 1 << 10
		}
		if a.VFlip {
			word |= 1 << 11
		}
		word |= uint16(a.PaletteIndex&0xF) << 12
		binary.LittleEndian.PutUint16(buf[2*i:], word)
	}
	_, err := w.Write(buf)
	return errors.Wrap(err, "write metatiles.bin")
}
