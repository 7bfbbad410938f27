package porytiles

import "bytes"

// NormalizedPixels is a tile's 64 local palette indices packed two per
// byte, the earlier pixel in the low nibble.
type NormalizedPixels [TileNumPix / 2]byte

// NormalizedPalette is a tile-local palette. Slot 0 is the transparency
// sentinel and its value is irrelevant; assigned colors occupy slots
// [1, Size) in first-seen order.
type NormalizedPalette struct {
	Size   int
	Colors [PalSize]BGR15
}

// Normalized is a tile in canonical form: the pixels read in the flip
// orientation whose packed bytes compare lexicographically smallest,
// ties broken in the order (ff, tf, ft, tt).
type Normalized struct {
	Pixels  NormalizedPixels
	Palette NormalizedPalette
	HFlip   bool
	VFlip   bool
}

// Transparent reports whether the tile holds no opaque pixels.
func (n *Normalized) Transparent() bool {
	return n.Palette.Size == 1
}

// insertRGBA assigns c a local palette index: 0 for transparent pixels,
// the matching or next free slot for opaque ones. pixel is the source
// pixel offset, carried for error context.
func insertRGBA(p *NormalizedPalette, c RGBA32, pixel int) (uint8, error) {
	switch c.A {
	case alphaTransparent:
		return 0, nil
	case alphaOpaque:
		bgr := RGBAToBGR(c)
		for i := 1; i < p.Size; i++ {
			if p.Colors[i] == bgr {
				return uint8(i), nil
			}
		}
		if p.Size == PalSize {
			return 0, &TooManyColorsError{}
		}
		p.Colors[p.Size] = bgr
		p.Size++
		return uint8(p.Size - 1), nil
	default:
		return 0, &InvalidAlphaError{Pixel: pixel, Alpha: c.A}
	}
}

// candidate reads t in the given orientation, assigning local palette
// indices in first-seen order. A different orientation may still be the
// normal form.
func candidate(t *RGBATile, hFlip, vFlip bool) (Normalized, error) {
	n := Normalized{HFlip: hFlip, VFlip: vFlip}
	n.Palette.Size = 1

	for i := 0; i < TileNumPix; i++ {
		row := i / TileSideLength
		col := i % TileSideLength
		if vFlip {
			row = TileSideLength - 1 - row
		}
		if hFlip {
			col = TileSideLength - 1 - col
		}
		src := row*TileSideLength + col
		idx, err := insertRGBA(&n.Palette, t.Pixels[src], src)
		if err != nil {
			return Normalized{}, err
		}
		if i%2 == 0 {
			n.Pixels[i/2] = idx
		} else {
			n.Pixels[i/2] |= idx << 4
		}
	}
	return n, nil
}

// Normalize converts a raw tile into its canonical form. Flipped
// duplicates of the same art normalize to identical pixels, so the
// deduplication map sees a single representative key.
func Normalize(t *RGBATile) (Normalized, error) {
	best, err := candidate(t, false, false)
	if err != nil {
		return Normalized{}, err
	}

	// Transparent tiles are common in metatiles and trivially in
	// normal form.
	if best.Transparent() {
		return best, nil
	}

	for _, o := range [3][2]bool{{true, false}, {false, true}, {true, true}} {
		c, err := candidate(t, o[0], o[1])
		if err != nil {
			return Normalized{}, err
		}
		if bytes.Compare(c.Pixels[:], best.Pixels[:]) < 0 {
			best = c
		}
	}
	return best, nil
}
