package porytiles

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nrgba(c RGBA32) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// sheetOf fills a w x h sheet with one solid color per 8x8 tile, taken
// row-major from colors.
func sheetOf(w, h int, colors []RGBA32) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	widthInTiles := w / TileSideLength
	for i, c := range colors {
		row := i / widthInTiles
		col := i % widthInTiles
		rect := image.Rect(col*TileSideLength, row*TileSideLength, (col+1)*TileSideLength, (row+1)*TileSideLength)
		draw.Draw(img, rect, image.NewUniform(nrgba(c)), image.Point{}, draw.Src)
	}
	return img
}

func TestImportLayeredTilesOrder(t *testing.T) {
	// One metatile, three layers, every subtile its own color. The
	// import order is: subtiles of the metatile in reading order, for
	// the bottom, then middle, then top layer.
	bottom := sheetOf(16, 16, []RGBA32{{8, 0, 0, 255}, {16, 0, 0, 255}, {24, 0, 0, 255}, {32, 0, 0, 255}})
	middle := sheetOf(16, 16, []RGBA32{{0, 8, 0, 255}, {0, 16, 0, 255}, {0, 24, 0, 255}, {0, 32, 0, 255}})
	top := sheetOf(16, 16, []RGBA32{{0, 0, 8, 255}, {0, 0, 16, 255}, {0, 0, 24, 255}, {0, 0, 32, 255}})

	got, err := ImportLayeredTiles(bottom, middle, top)
	require.NoError(t, err)
	require.Len(t, got.Tiles, 12)

	want := []RGBA32{
		{8, 0, 0, 255}, {16, 0, 0, 255}, {24, 0, 0, 255}, {32, 0, 0, 255},
		{0, 8, 0, 255}, {0, 16, 0, 255}, {0, 24, 0, 255}, {0, 32, 0, 255},
		{0, 0, 8, 255}, {0, 0, 16, 255}, {0, 0, 24, 255}, {0, 0, 32, 255},
	}
	for i, c := range want {
		assert.Equal(t, solidTile(c), got.Tiles[i], "tile %d", i)
	}
}

func TestImportLayeredTilesMetatileRowMajor(t *testing.T) {
	// Two metatiles side by side on a single layer: all four subtiles
	// of the left metatile come before any of the right one.
	colors := []RGBA32{
		{8, 0, 0, 255}, {16, 0, 0, 255}, {104, 0, 0, 255}, {112, 0, 0, 255},
		{24, 0, 0, 255}, {32, 0, 0, 255}, {120, 0, 0, 255}, {128, 0, 0, 255},
	}
	sheet := sheetOf(32, 16, colors)

	got, err := ImportLayeredTiles(sheet)
	require.NoError(t, err)
	require.Len(t, got.Tiles, 8)

	want := []RGBA32{
		{8, 0, 0, 255}, {16, 0, 0, 255}, {24, 0, 0, 255}, {32, 0, 0, 255},
		{104, 0, 0, 255}, {112, 0, 0, 255}, {120, 0, 0, 255}, {128, 0, 0, 255},
	}
	for i, c := range want {
		assert.Equal(t, solidTile(c), got.Tiles[i], "tile %d", i)
	}
}

func TestImportLayeredTilesValidation(t *testing.T) {
	tests := []struct {
		name   string
		layers []image.Image
	}{
		{
			name:   "no layers",
			layers: nil,
		},
		{
			name: "too many layers",
			layers: []image.Image{
				image.NewNRGBA(image.Rect(0, 0, 16, 16)),
				image.NewNRGBA(image.Rect(0, 0, 16, 16)),
				image.NewNRGBA(image.Rect(0, 0, 16, 16)),
				image.NewNRGBA(image.Rect(0, 0, 16, 16)),
			},
		},
		{
			name: "mismatched layer sizes",
			layers: []image.Image{
				image.NewNRGBA(image.Rect(0, 0, 16, 16)),
				image.NewNRGBA(image.Rect(0, 0, 32, 16)),
			},
		},
		{
			name: "width not a metatile multiple",
			layers: []image.Image{
				image.NewNRGBA(image.Rect(0, 0, 24, 16)),
			},
		},
		{
			name: "height not a metatile multiple",
			layers: []image.Image{
				image.NewNRGBA(image.Rect(0, 0, 16, 8)),
			},
		},
		{
			name: "empty image",
			layers: []image.Image{
				image.NewNRGBA(image.Rect(0, 0, 0, 0)),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ImportLayeredTiles(tt.layers...)
			var invalid *InvalidInputError
			assert.ErrorAs(t, err, &invalid)
		})
	}
}

func TestImportRawTiles(t *testing.T) {
	sheet := sheetOf(16, 8, []RGBA32{{8, 0, 0, 255}, {16, 0, 0, 255}})

	got, err := ImportRawTiles(sheet)
	require.NoError(t, err)
	require.Len(t, got.Tiles, 2)
	assert.Equal(t, solidTile(RGBA32{8, 0, 0, 255}), got.Tiles[0])
	assert.Equal(t, solidTile(RGBA32{16, 0, 0, 255}), got.Tiles[1])
}

func TestImportRawTilesValidation(t *testing.T) {
	_, err := ImportRawTiles(image.NewNRGBA(image.Rect(0, 0, 10, 8)))
	var invalid *InvalidInputError
	assert.ErrorAs(t, err, &invalid)
}

func TestImportPreservesAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	img.SetNRGBA(3, 4, color.NRGBA{R: 10, G: 20, B: 30, A: 128})

	got, err := ImportLayeredTiles(img)
	require.NoError(t, err)
	// Tile 0 covers the top-left 8x8 block.
	assert.Equal(t, RGBA32{10, 20, 30, 128}, got.Tiles[0].Pixel(4, 3))
}

func TestImportNonZeroOriginBounds(t *testing.T) {
	img := image.NewNRGBA(image.Rect(4, 4, 20, 20))
	img.SetNRGBA(4, 4, nrgba(RGBAWhite))

	got, err := ImportLayeredTiles(img)
	require.NoError(t, err)
	require.Len(t, got.Tiles, 4)
	assert.Equal(t, RGBAWhite, got.Tiles[0].Pixel(0, 0))
}
