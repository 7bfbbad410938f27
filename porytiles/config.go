package porytiles

import "github.com/sirupsen/logrus"

// TilesPNGPaletteMode selects the palette attached to the emitted
// tiles.png. Purely for human viewing; the in-game data only depends on
// the low 4 bits of each pixel.
type TilesPNGPaletteMode int

const (
	// PaletteModeGreyscale attaches a linear grey ramp.
	PaletteModeGreyscale TilesPNGPaletteMode = iota
	// PaletteModeTrueColor packs every compiled palette into the PNG
	// palette and selects between them with the high 4 bits.
	PaletteModeTrueColor
	// PaletteModePal0 is reserved and currently emits greyscale.
	PaletteModePal0
)

// Config carries one compilation's settings. It is threaded through
// every call; there is no package-level state.
type Config struct {
	// Fieldmap parameters, matching the target project's fieldmap.h.
	NumTilesInPrimary     int
	NumTilesTotal         int
	NumMetatilesInPrimary int
	NumMetatilesTotal     int
	NumPalettesInPrimary  int
	NumPalettesTotal      int

	NumTilesPerMetatile int
	Secondary           bool

	// TransparencyColor marks slot 0 of every emitted palette. Pixels
	// are recognized as transparent by alpha, not by this color.
	TransparencyColor RGBA32

	TilesPNGPaletteMode TilesPNGPaletteMode

	// MaxRecurseCount bounds the palette packing search; each visited
	// search frame counts as one step.
	MaxRecurseCount int

	// Log, when set, receives per-stage compilation stats at debug
	// level.
	Log *logrus.Logger
}

// DefaultConfig returns the pokeemerald-flavored defaults.
func DefaultConfig() Config {
	cfg := Config{
		NumTilesPerMetatile: 12,
		TransparencyColor:   RGBAMagenta,
		TilesPNGPaletteMode: PaletteModeGreyscale,
		MaxRecurseCount:     2_000_000,
	}
	SetPokeemeraldDefaultTilesetParams(&cfg)
	return cfg
}

// SetPokeemeraldDefaultTilesetParams sets the fieldmap parameters to the
// pokeemerald values.
func SetPokeemeraldDefaultTilesetParams(cfg *Config) {
	cfg.NumTilesInPrimary = 512
	cfg.NumTilesTotal = 1024
	cfg.NumMetatilesInPrimary = 512
	cfg.NumMetatilesTotal = 1024
	cfg.NumPalettesInPrimary = 6
	cfg.NumPalettesTotal = 13
}

// SetPokefireredDefaultTilesetParams sets the fieldmap parameters to the
// pokefirered values.
func SetPokefireredDefaultTilesetParams(cfg *Config) {
	cfg.NumTilesInPrimary = 640
	cfg.NumTilesTotal = 1024
	cfg.NumMetatilesInPrimary = 640
	cfg.NumMetatilesTotal = 1024
	cfg.NumPalettesInPrimary = 7
	cfg.NumPalettesTotal = 13
}

// SetPokerubyDefaultTilesetParams sets the fieldmap parameters to the
// pokeruby values.
func SetPokerubyDefaultTilesetParams(cfg *Config) {
	cfg.NumTilesInPrimary = 512
	cfg.NumTilesTotal = 1024
	cfg.NumMetatilesInPrimary = 512
	cfg.NumMetatilesTotal = 1024
	cfg.NumPalettesInPrimary = 6
	cfg.NumPalettesTotal = 12
}

// debugf logs at debug level when a logger is configured.
func (c *Config) debugf(format string, args ...interface{}) {
	if c.Log != nil {
		c.Log.Debugf(format, args...)
	}
}
