package display

import (
	"math"
	"strings"
)

const (
	FullStar  = "★"
	HalfStar  = "⯪"
	EmptyStar = "☆"

	maxStars = 10
)

// Stars renders a 0-10 rating as ten glyphs: floor(rating) full stars, a half
// star when the fraction is at least .5, and empty stars for the rest.
// An unset or zero rating renders as an empty string.
func Stars(rating *float64) string {
	if rating == nil || *rating <= 0 || math.IsNaN(*rating) {
		return ""
	}

	r := math.Min(*rating, maxStars)
	full := int(math.Floor(r))
	half := 0
	if r-float64(full) >= 0.5 {
		half = 1
	}

	return strings.Repeat(FullStar, full) +
		strings.Repeat(HalfStar, half) +
		strings.Repeat(EmptyStar, maxStars-full-half)
}
