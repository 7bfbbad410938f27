package porytiles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// transparentTile is all alpha 0.
func transparentTile() RGBATile {
	return RGBATile{}
}

func solidTile(c RGBA32) RGBATile {
	var t RGBATile
	for i := range t.Pixels {
		t.Pixels[i] = c
	}
	return t
}

func hFlipTile(t RGBATile) RGBATile {
	var out RGBATile
	for row := 0; row < TileSideLength; row++ {
		for col := 0; col < TileSideLength; col++ {
			out.SetPixel(row, col, t.Pixel(row, TileSideLength-1-col))
		}
	}
	return out
}

func vFlipTile(t RGBATile) RGBATile {
	var out RGBATile
	for row := 0; row < TileSideLength; row++ {
		for col := 0; col < TileSideLength; col++ {
			out.SetPixel(row, col, t.Pixel(TileSideLength-1-row, col))
		}
	}
	return out
}

func TestNormalizeTransparentTile(t *testing.T) {
	tile := transparentTile()
	n, err := Normalize(&tile)
	require.NoError(t, err)

	assert.True(t, n.Transparent())
	assert.Equal(t, 1, n.Palette.Size)
	assert.False(t, n.HFlip)
	assert.False(t, n.VFlip)
	assert.Equal(t, NormalizedPixels{}, n.Pixels)
}

func TestNormalizeCanonicalOrdering(t *testing.T) {
	// Every row is "red, then seven whites". Read unflipped the first
	// byte packs indices (1, 2); read h-flipped it packs (1, 1), which
	// is lexicographically smaller, so the h-flipped orientation is the
	// normal form.
	var tile RGBATile
	for row := 0; row < TileSideLength; row++ {
		tile.SetPixel(row, 0, RGBARed)
		for col := 1; col < TileSideLength; col++ {
			tile.SetPixel(row, col, RGBAWhite)
		}
	}

	n, err := Normalize(&tile)
	require.NoError(t, err)

	assert.True(t, n.HFlip)
	assert.False(t, n.VFlip)
	assert.Equal(t, byte(0x11), n.Pixels[0])
	// In the flipped walk white is seen first.
	assert.Equal(t, RGBAToBGR(RGBAWhite), n.Palette.Colors[1])
	assert.Equal(t, RGBAToBGR(RGBARed), n.Palette.Colors[2])
	assert.Equal(t, 3, n.Palette.Size)
}

func TestNormalizeFlipInvariance(t *testing.T) {
	// An asymmetric tile and its flips must all normalize to the same
	// pixels and palette; only the flip flags may differ.
	var tile RGBATile
	tile.SetPixel(0, 0, RGBARed)
	tile.SetPixel(0, 1, RGBAGreen)
	tile.SetPixel(3, 5, RGBABlue)
	tile.SetPixel(7, 7, RGBAWhite)

	base, err := Normalize(&tile)
	require.NoError(t, err)

	variants := []RGBATile{
		hFlipTile(tile),
		vFlipTile(tile),
		hFlipTile(vFlipTile(tile)),
	}
	for i, v := range variants {
		v := v
		n, err := Normalize(&v)
		require.NoError(t, err)
		assert.Equal(t, base.Pixels, n.Pixels, "variant %d pixels", i)
		assert.Equal(t, base.Palette, n.Palette, "variant %d palette", i)
	}
}

func TestNormalizeInvalidAlpha(t *testing.T) {
	tile := transparentTile()
	tile.SetPixel(2, 3, RGBA32{10, 20, 30, 128})

	_, err := Normalize(&tile)
	var alphaErr *InvalidAlphaError
	require.ErrorAs(t, err, &alphaErr)
	assert.Equal(t, 2*TileSideLength+3, alphaErr.Pixel)
	assert.Equal(t, uint8(128), alphaErr.Alpha)
}

func TestNormalizeTooManyColors(t *testing.T) {
	var tile RGBATile
	for i := 0; i < PalSize+1; i++ {
		// Steps of 8 survive the 5-bit truncation as distinct colors.
		tile.SetPixel(i/TileSideLength, i%TileSideLength, RGBA32{uint8(8 * i), 0, 0, 255})
	}

	_, err := Normalize(&tile)
	var colorsErr *TooManyColorsError
	require.ErrorAs(t, err, &colorsErr)
}

func TestNormalizeSixteenColorsFits(t *testing.T) {
	// 15 opaque colors plus the transparent slot exactly fill a local
	// palette.
	var tile RGBATile
	for i := 0; i < PalSize-1; i++ {
		tile.SetPixel(i/TileSideLength, i%TileSideLength, RGBA32{uint8(8 * i), 0, 0, 255})
	}

	n, err := Normalize(&tile)
	require.NoError(t, err)
	assert.Equal(t, PalSize, n.Palette.Size)
}
