package recommend

import "github.com/pkg/errors"

var (
	// ErrCategoryRequired is returned when a category filter is requested
	// without a category. It surfaces synchronously to the caller and never
	// reaches the vector backend.
	ErrCategoryRequired = errors.New("category is required when adding a filter condition")

	// ErrNoRecommendations is returned when the vector backend produced no
	// matches for any product of the sale, so no confidence score can be
	// computed.
	ErrNoRecommendations = errors.New("no recommendations produced for sale")
)
