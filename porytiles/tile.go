package porytiles

import (
	"bytes"

	"github.com/cespare/xxhash/v2"
)

// RGBATile is an 8x8 block of true color pixels in row-major order.
type RGBATile struct {
	Pixels [TileNumPix]RGBA32
}

// Pixel returns the pixel at the given row and column.
func (t *RGBATile) Pixel(row, col int) RGBA32 {
	return t.Pixels[row*TileSideLength+col]
}

// SetPixel sets the pixel at the given row and column.
func (t *RGBATile) SetPixel(row, col int, c RGBA32) {
	t.Pixels[row*TileSideLength+col] = c
}

// GBATile is a 4bpp tile as char block VRAM wants it: 64 palette indices
// packed two per byte, the earlier pixel in the low nibble.
type GBATile struct {
	PaletteIndexPairs [32]byte
}

// Pixel returns the 4-bit palette index of the i'th pixel, i in [0, 64).
func (t *GBATile) Pixel(i int) uint8 {
	pair := t.PaletteIndexPairs[i/2]
	if i%2 == 1 {
		return pair >> 4
	}
	return pair & 0xF
}

// GBAPalette is one hardware palette. Slot 0 is the transparency
// sentinel; assigned colors occupy slots [1, Size); slots past Size hold
// the slot 0 value.
type GBAPalette struct {
	Size   int
	Colors [PalSize]BGR15
}

// slotOf returns the slot holding c, or -1 if the palette lacks it.
// Slot 0 is never a match, it is reserved for transparency.
func (p *GBAPalette) slotOf(c BGR15) int {
	for i := 1; i < p.Size; i++ {
		if p.Colors[i] == c {
			return i
		}
	}
	return -1
}

// Assignment ties one input tile occurrence to a stored tile: which
// tile, under which palette, read with which flips.
type Assignment struct {
	TileIndex    int
	PaletteIndex int
	HFlip        bool
	VFlip        bool
}

// CompiledTileset is the final product of a compilation. It exclusively
// owns its vectors. For a secondary compilation the primary's tiles and
// palettes appear as a prefix, so indices form one logical namespace
// with the primary's range first.
type CompiledTileset struct {
	Tiles              []GBATile
	Palettes           []GBAPalette
	PaletteIndexOfTile []uint8
	Assignments        []Assignment
}

// compareTiles orders tiles lexicographically over their 32 bytes.
func compareTiles(a, b GBATile) int {
	return bytes.Compare(a.PaletteIndexPairs[:], b.PaletteIndexPairs[:])
}

func hashTile(t GBATile) uint64 {
	return xxhash.Sum64(t.PaletteIndexPairs[:])
}

// tileIndex is a content-addressed index over a tile vector. Buckets are
// keyed by the 64-bit xxhash of the tile bytes; hits are verified by
// byte equality so a hash collision cannot alias two tiles.
type tileIndex struct {
	buckets map[uint64][]int
}

func newTileIndex() tileIndex {
	return tileIndex{buckets: make(map[uint64][]int)}
}

func (ix *tileIndex) find(tiles []GBATile, t GBATile) (int, bool) {
	for _, i := range ix.buckets[hashTile(t)] {
		if tiles[i] == t {
			return i, true
		}
	}
	return 0, false
}

func (ix *tileIndex) add(t GBATile, i int) {
	h := hashTile(t)
	ix.buckets[h] = append(ix.buckets[h], i)
}
