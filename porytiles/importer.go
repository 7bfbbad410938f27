package porytiles

import (
	"fmt"
	"image"
	"image/color"
)

const (
	// Metatiles are 2x2 tiles, repeated on every layer.
	metatileSideInTiles = 2
	tilesPerLayer       = metatileSideInTiles * metatileSideInTiles
	metatileSidePix     = metatileSideInTiles * TileSideLength

	// MaxLayers is bottom, middle, top.
	MaxLayers = 3
)

// DecompiledTileset holds raw tiles in the order the compiler and the
// emitters agree on: the emitted metatile entries line up one to one
// with these tiles.
type DecompiledTileset struct {
	Tiles []RGBATile
}

// ImportLayeredTiles slices up to three equally sized sheets, ordered
// bottom to top, into metatile-ordered tiles: metatiles row-major
// across the sheet, the four subtiles of each metatile in reading
// order, layers bottom to top. Three layers yield twelve tiles per
// metatile.
func ImportLayeredTiles(layers ...image.Image) (DecompiledTileset, error) {
	if len(layers) == 0 || len(layers) > MaxLayers {
		return DecompiledTileset{}, &InvalidInputError{Reason: fmt.Sprintf("expected 1 to %d layers, got %d", MaxLayers, len(layers))}
	}

	bounds := layers[0].Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	for i, layer := range layers[1:] {
		b := layer.Bounds()
		if b.Dx() != w || b.Dy() != h {
			return DecompiledTileset{}, &InvalidInputError{Reason: fmt.Sprintf(
				"layer %d is %dx%d, layer 0 is %dx%d: all layers must match", i+1, b.Dx(), b.Dy(), w, h)}
		}
	}
	if w == 0 || h == 0 || w%metatileSidePix != 0 || h%metatileSidePix != 0 {
		return DecompiledTileset{}, &InvalidInputError{Reason: fmt.Sprintf(
			"sheet is %dx%d: dimensions must be nonzero multiples of %d", w, h, metatileSidePix)}
	}

	widthInMetatiles := w / metatileSidePix
	heightInMetatiles := h / metatileSidePix
	numMetatiles := widthInMetatiles * heightInMetatiles

	out := DecompiledTileset{Tiles: make([]RGBATile, 0, numMetatiles*tilesPerLayer*len(layers))}
	for mt := 0; mt < numMetatiles; mt++ {
		mtRow := mt / widthInMetatiles
		mtCol := mt % widthInMetatiles
		for _, layer := range layers {
			for sub := 0; sub < tilesPerLayer; sub++ {
				tileRow := mtRow*metatileSideInTiles + sub/metatileSideInTiles
				tileCol := mtCol*metatileSideInTiles + sub%metatileSideInTiles
				out.Tiles = append(out.Tiles, tileAt(layer, tileRow, tileCol))
			}
		}
	}
	return out, nil
}

// ImportRawTiles slices a single sheet into row-major tiles with no
// metatile grouping; each tile stands alone.
func ImportRawTiles(sheet image.Image) (DecompiledTileset, error) {
	bounds := sheet.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 || w%TileSideLength != 0 || h%TileSideLength != 0 {
		return DecompiledTileset{}, &InvalidInputError{Reason: fmt.Sprintf(
			"sheet is %dx%d: dimensions must be nonzero multiples of %d", w, h, TileSideLength)}
	}

	widthInTiles := w / TileSideLength
	heightInTiles := h / TileSideLength
	out := DecompiledTileset{Tiles: make([]RGBATile, 0, widthInTiles*heightInTiles)}
	for row := 0; row < heightInTiles; row++ {
		for col := 0; col < widthInTiles; col++ {
			out.Tiles = append(out.Tiles, tileAt(sheet, row, col))
		}
	}
	return out, nil
}

// tileAt copies the 8x8 block at the given tile coordinates. Colors are
// read unassociated so the alpha channel survives as authored.
func tileAt(img image.Image, tileRow, tileCol int) RGBATile {
	var t RGBATile
	min := img.Bounds().Min
	for row := 0; row < TileSideLength; row++ {
		for col := 0; col < TileSideLength; col++ {
			x := min.X + tileCol*TileSideLength + col
			y := min.Y + tileRow*TileSideLength + row
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			t.SetPixel(row, col, RGBA32{R: c.R, G: c.G, B: c.B, A: c.A})
		}
	}
	return t
}
