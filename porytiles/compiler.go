package porytiles

import (
	humanize "github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

// CompilerMode selects which fieldmap caps apply to a compilation.
type CompilerMode int

const (
	ModePrimary CompilerMode = iota
	ModeSecondary
)

// compilerContext is the only mutable state of one compilation. It is
// created per call and never aliased. A secondary compilation borrows
// the primary result for the duration of the call and never mutates it.
type compilerContext struct {
	cfg     *Config
	mode    CompilerMode
	primary *CompiledTileset
}

func (ctx *compilerContext) caps() (maxPalettes, maxTiles int) {
	if ctx.mode == ModeSecondary {
		return ctx.cfg.NumPalettesTotal, ctx.cfg.NumTilesTotal
	}
	return ctx.cfg.NumPalettesInPrimary, ctx.cfg.NumTilesInPrimary
}

// CompilePrimary compiles a freestanding tileset.
func CompilePrimary(cfg Config, decompiled DecompiledTileset) (*CompiledTileset, error) {
	ctx := compilerContext{cfg: &cfg, mode: ModePrimary}
	return compile(&ctx, decompiled)
}

// CompileSecondary compiles a tileset against an already-compiled
// primary. The result embeds the primary's tiles and palettes as a
// prefix and only ever appends; the primary must outlive the call.
func CompileSecondary(cfg Config, decompiled DecompiledTileset, primary *CompiledTileset) (*CompiledTileset, error) {
	ctx := compilerContext{cfg: &cfg, mode: ModeSecondary, primary: primary}
	return compile(&ctx, decompiled)
}

// colorUniverse assigns each distinct non-transparent color a stable
// index, in first-seen order.
type colorUniverse struct {
	index  map[BGR15]int
	colors []BGR15
}

func newColorUniverse() *colorUniverse {
	return &colorUniverse{index: make(map[BGR15]int)}
}

func (u *colorUniverse) add(c BGR15) int {
	if i, ok := u.index[c]; ok {
		return i
	}
	i := len(u.colors)
	u.index[c] = i
	u.colors = append(u.colors, c)
	return i
}

// colorSet maps a tile-local palette onto the universe. Every color must
// already be in the universe.
func (u *colorUniverse) colorSet(p *NormalizedPalette) ColorSet {
	var s ColorSet
	for i := 1; i < p.Size; i++ {
		s.Set(u.index[p.Colors[i]])
	}
	return s
}

// coveredBy returns the first bin fully containing s, or -1.
func coveredBy(s ColorSet, bins []ColorSet) int {
	for j := range bins {
		if s.SubsetOf(bins[j]) {
			return j
		}
	}
	return -1
}

// withTile stamps the offending tile index onto a normalization error.
func withTile(err error, tile int) error {
	switch e := err.(type) {
	case *InvalidAlphaError:
		e.Tile = tile
	case *TooManyColorsError:
		e.Tile = tile
	}
	return err
}

func compile(ctx *compilerContext, decompiled DecompiledTileset) (*CompiledTileset, error) {
	cfg := ctx.cfg
	maxPalettes, maxTiles := ctx.caps()
	if maxPalettes > MaxBGPalettes {
		return nil, errors.Errorf("porytiles: config allows %d palettes, hardware tops out at %d", maxPalettes, MaxBGPalettes)
	}

	normalized := make([]Normalized, len(decompiled.Tiles))
	for i := range decompiled.Tiles {
		n, err := Normalize(&decompiled.Tiles[i])
		if err != nil {
			return nil, withTile(err, i)
		}
		normalized[i] = n
	}

	// Build the color universe. In secondary mode the primary's palette
	// colors come first and pre-seed their bins, which are pinned.
	universe := newColorUniverse()
	bins := make([]ColorSet, maxPalettes)
	pinned := 0
	if ctx.mode == ModeSecondary {
		pinned = len(ctx.primary.Palettes)
		if pinned > maxPalettes {
			return nil, errors.Errorf("porytiles: primary has %d palettes, total budget is %d", pinned, maxPalettes)
		}
		for pi := range ctx.primary.Palettes {
			pal := &ctx.primary.Palettes[pi]
			for s := 1; s < pal.Size; s++ {
				bins[pi].Set(universe.add(pal.Colors[s]))
			}
		}
	}
	for i := range normalized {
		p := &normalized[i].Palette
		for s := 1; s < p.Size; s++ {
			universe.add(p.Colors[s])
		}
	}
	colorCap := colorsPerPalette * maxPalettes
	if len(universe.colors) > colorCap {
		return nil, &TooManyUniqueColorsError{Count: len(universe.colors), Cap: colorCap}
	}

	// Distinct color sets feed the search. Sets already covered by a
	// pinned bin are assigned to that primary palette and stay out.
	tileSets := make([]ColorSet, len(normalized))
	seen := make(map[ColorSet]struct{})
	var distinct []ColorSet
	for i := range normalized {
		s := universe.colorSet(&normalized[i].Palette)
		tileSets[i] = s
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		if coveredBy(s, bins[:pinned]) < 0 {
			distinct = append(distinct, s)
		}
	}
	cfg.debugf("normalized %s tiles: %s distinct colors, %s color sets to pack into %d palettes",
		humanize.Comma(int64(len(normalized))),
		humanize.Comma(int64(len(universe.colors))),
		humanize.Comma(int64(len(distinct))),
		maxPalettes)

	packed, err := packPalettes(cfg, distinct, bins, pinned)
	if err != nil {
		return nil, err
	}

	// Materialize the hardware palettes. Primary palettes carry over
	// verbatim; new bins lay their colors out in first-seen order with
	// unused slots holding the transparency color.
	transparency := RGBAToBGR(cfg.TransparencyColor)
	numPalettes := pinned
	for j := pinned; j < len(packed); j++ {
		if !packed[j].Empty() {
			numPalettes = j + 1
		}
	}
	if numPalettes == 0 && len(normalized) > 0 {
		// A fully transparent tileset still references palette 0.
		numPalettes = 1
	}
	palettes := make([]GBAPalette, numPalettes)
	if ctx.mode == ModeSecondary {
		copy(palettes, ctx.primary.Palettes)
	}
	for j := pinned; j < numPalettes; j++ {
		pal := GBAPalette{Size: 1}
		pal.Colors[0] = transparency
		for _, ci := range packed[j].Indices() {
			pal.Colors[pal.Size] = universe.colors[ci]
			pal.Size++
		}
		for s := pal.Size; s < PalSize; s++ {
			pal.Colors[s] = pal.Colors[0]
		}
		palettes[j] = pal
	}

	// Re-render each tile against its palette, deduplicate, and record
	// the assignments in input order.
	out := &CompiledTileset{
		Palettes:    palettes,
		Assignments: make([]Assignment, len(normalized)),
	}
	index := newTileIndex()
	if ctx.mode == ModeSecondary {
		out.Tiles = append(out.Tiles, ctx.primary.Tiles...)
		out.PaletteIndexOfTile = append(out.PaletteIndexOfTile, ctx.primary.PaletteIndexOfTile...)
		for i := range out.Tiles {
			index.add(out.Tiles[i], i)
		}
	}
	for i := range normalized {
		j := coveredBy(tileSets[i], packed)
		if j < 0 {
			return nil, errors.Errorf("porytiles: internal: tile %d has no covering palette", i)
		}
		tile, err := makeTile(&normalized[i], &palettes[j])
		if err != nil {
			return nil, errors.Wrapf(err, "tile %d", i)
		}
		ti, ok := index.find(out.Tiles, tile)
		if !ok {
			ti = len(out.Tiles)
			out.Tiles = append(out.Tiles, tile)
			out.PaletteIndexOfTile = append(out.PaletteIndexOfTile, uint8(j))
			index.add(tile, ti)
			if len(out.Tiles) > maxTiles {
				return nil, &TooManyTilesError{Count: len(out.Tiles), Cap: maxTiles}
			}
		}
		out.Assignments[i] = Assignment{
			TileIndex:    ti,
			PaletteIndex: j,
			HFlip:        normalized[i].HFlip,
			VFlip:        normalized[i].VFlip,
		}
	}
	cfg.debugf("deduplicated %s input tiles into %s stored tiles across %d palettes",
		humanize.Comma(int64(len(normalized))),
		humanize.Comma(int64(len(out.Tiles))),
		len(out.Palettes))

	return out, nil
}

// makeTile re-renders a normalized tile against its assigned palette by
// mapping local palette indices to palette slots. Local 0 stays 0.
func makeTile(n *Normalized, pal *GBAPalette) (GBATile, error) {
	var slots [PalSize]uint8
	for i := 1; i < n.Palette.Size; i++ {
		s := pal.slotOf(n.Palette.Colors[i])
		if s < 0 {
			return GBATile{}, errors.Errorf("porytiles: internal: %v missing from assigned palette", n.Palette.Colors[i])
		}
		slots[i] = uint8(s)
	}

	var t GBATile
	for i, pair := range n.Pixels {
		t.PaletteIndexPairs[i] = slots[pair&0xF] | slots[pair>>4]<<4
	}
	return t, nil
}
