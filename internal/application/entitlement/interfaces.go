package entitlement

import (
	"context"
	"time"
)

// UsageRepository counts the resources a user has consumed. Counts are read
// independently, not inside one transaction; entitlement checks tolerate
// the resulting slight staleness.
type UsageRepository interface {
	CountCvs(ctx context.Context, userID uint) (int, error)
	CountCoverLetters(ctx context.Context, userID uint) (int, error)
	CountJobApplications(ctx context.Context, userID uint) (int, error)
	// CountAIMessagesBetween counts user-authored chat messages created in
	// [from, to) across all of the user's chat sessions.
	CountAIMessagesBetween(ctx context.Context, userID uint, from, to time.Time) (int, error)
}
