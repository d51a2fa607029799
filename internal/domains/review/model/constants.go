package model

const (
	// Rating
	MinRating = 1
	MaxRating = 5

	// Content limits
	MaxNoteLength = 500

	// Paging
	DefaultPageSize = 20
	MaxPageSize     = 50
)
