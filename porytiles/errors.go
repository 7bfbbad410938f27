package porytiles

import (
	"errors"
	"fmt"
)

// ErrNoPaletteAssignment is returned when the packing search exhausts
// every arrangement without covering all tiles.
var ErrNoPaletteAssignment = errors.New("porytiles: no palette assignment covers every tile")

// InvalidAlphaError reports a pixel whose alpha channel is neither fully
// transparent nor fully opaque.
type InvalidAlphaError struct {
	Tile  int
	Pixel int
	Alpha uint8
}

func (e *InvalidAlphaError) Error() string {
	return fmt.Sprintf("porytiles: tile %d: pixel %d: invalid alpha %d, must be 0 or 255", e.Tile, e.Pixel, e.Alpha)
}

// TooManyColorsError reports a tile that needs more than 15 distinct
// opaque colors, which with the transparent slot overflows a 16-slot
// local palette.
type TooManyColorsError struct {
	Tile int
}

func (e *TooManyColorsError) Error() string {
	return fmt.Sprintf("porytiles: tile %d: more than %d opaque colors", e.Tile, colorsPerPalette)
}

// TooManyUniqueColorsError reports a color universe that cannot fit the
// palette budget even before searching.
type TooManyUniqueColorsError struct {
	Count int
	Cap   int
}

func (e *TooManyUniqueColorsError) Error() string {
	return fmt.Sprintf("porytiles: %d unique colors, max %d", e.Count, e.Cap)
}

// SearchExhaustedError reports that the packing search hit the step cap
// before finding a solution or proving there is none.
type SearchExhaustedError struct {
	Limit int
}

func (e *SearchExhaustedError) Error() string {
	return fmt.Sprintf("porytiles: palette search exhausted %d steps", e.Limit)
}

// TooManyTilesError reports a deduplicated tile count past the cap for
// the compilation mode.
type TooManyTilesError struct {
	Count int
	Cap   int
}

func (e *TooManyTilesError) Error() string {
	return fmt.Sprintf("porytiles: %d unique tiles, max %d", e.Count, e.Cap)
}

// InvalidInputError is a boundary rejection: a missing or malformed
// input sheet, bad dimensions, an unusable output path.
type InvalidInputError struct {
	Path   string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Path == "" {
		return "porytiles: " + e.Reason
	}
	return fmt.Sprintf("porytiles: %s: %s", e.Path, e.Reason)
}
