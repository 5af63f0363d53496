package model

import "fmt"

// Variant selects which flavour of log a store holds.
type Variant string

const (
	VariantBlog     Variant = "blog"
	VariantMediaLog Variant = "medialog"
)

// ParseVariant maps a config or flag value onto a Variant.
func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case VariantBlog, "":
		return VariantBlog, nil
	case VariantMediaLog, "media-log", "media":
		return VariantMediaLog, nil
	}
	return "", fmt.Errorf("unknown variant %q", s)
}

// MediaType is the kind of embedded attachment.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// Category is the media-log record type.
type Category string

const (
	CategoryMovie       Category = "movie"
	CategoryTV          Category = "tv"
	CategoryDocumentary Category = "documentary"
	CategoryBook        Category = "book"
)

// Categories lists the known categories in display order.
var Categories = []Category{CategoryMovie, CategoryTV, CategoryDocumentary, CategoryBook}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Label returns the human readable name.
func (c Category) Label() string {
	switch c {
	case CategoryMovie:
		return "Movie"
	case CategoryTV:
		return "TV Series"
	case CategoryDocumentary:
		return "Documentary"
	case CategoryBook:
		return "Book"
	}
	return string(c)
}
