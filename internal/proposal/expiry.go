package proposal

import (
	"fmt"
	"time"

	"github.com/sujalbistaa/proposal/internal/models"
)

// TTL is how long a proposal accepts responses after creation.
const TTL = 5 * 24 * time.Hour

// ExpiresAt returns the expiry of a proposal created at createdAt.
func ExpiresAt(createdAt time.Time) time.Time {
	return createdAt.Add(TTL)
}

// IsExpired reports whether now is strictly after p's expiry.
func IsExpired(p *models.Proposal, now time.Time) bool {
	return now.After(p.ExpiresAt)
}

// TimeRemaining describes the time left until expiresAt in whole days, or in
// whole hours when less than a day remains. Values are truncated.
func TimeRemaining(expiresAt, now time.Time) string {
	diff := expiresAt.Sub(now)
	if diff <= 0 {
		return "Expired"
	}

	if days := int(diff / (24 * time.Hour)); days > 0 {
		return fmt.Sprintf("%d %s remaining", days, plural(days, "day"))
	}
	hours := int(diff / time.Hour)
	return fmt.Sprintf("%d %s remaining", hours, plural(hours, "hour"))
}

func plural(n int, unit string) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}
