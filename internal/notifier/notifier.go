package notifier

import (
	"github.com/mauv0809/gamefinder/internal/blackbox"
	"github.com/mauv0809/gamefinder/internal/model"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// A negotiated match reached launch.
	SendMatchLaunched(match *model.Match, dryRun bool) error
	// A Blackbox draw finished.
	SendBlackboxRound(round *blackbox.Round, dryRun bool) error
}

// Nop discards every notification. It stands in when Slack is not configured.
type Nop struct{}

func (Nop) SendMatchLaunched(*model.Match, bool) error { return nil }

func (Nop) SendBlackboxRound(*blackbox.Round, bool) error { return nil }
