package domain

// Cover describes a book's cover image: a path relative to the data
// directory plus the dimensions declared in the books file.
type Cover struct {
	Path   string `json:"path"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// NewCover creates a cover descriptor.
func NewCover(path string, width, height int) *Cover {
	return &Cover{Path: path, Width: width, Height: height}
}

// Equal compares two descriptors by value. Two nil covers are equal.
func (c *Cover) Equal(other *Cover) bool {
	if c == nil || other == nil {
		return c == other
	}
	return *c == *other
}
