package proposal

import "github.com/google/uuid"

// IDLength is the length of a proposal id.
const IDLength = 8

// NewID returns a short random id for use as a URL path segment. It is not
// checked against existing records.
func NewID() string {
	return uuid.NewString()[:IDLength]
}
