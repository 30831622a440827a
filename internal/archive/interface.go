package archive

import (
	"context"

	"github.com/mauv0809/gamefinder/internal/blackbox"
)

// RoundStore archives Blackbox rounds for offline analysis.
type RoundStore interface {
	blackbox.Reporter
	Rounds(ctx context.Context, limit int) ([]RoundRecord, error)
	Round(ctx context.Context, id string) (*RoundRecord, error)
}
