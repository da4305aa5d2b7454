package async

import (
	"strings"

	"github.com/google/uuid"
)

// NewTransactionID generates a fresh transaction id. IDs are unique
// process-wide, not merely per connection, so commands sent concurrently
// to different devices never collide in a shared registry.
func NewTransactionID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}
