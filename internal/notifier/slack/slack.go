package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/gamefinder/internal/blackbox"
	"github.com/mauv0809/gamefinder/internal/metrics"
	"github.com/mauv0809/gamefinder/internal/model"
	"github.com/mauv0809/gamefinder/internal/notifier"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// maxListedPairings caps the pairings shown in a round message.
const maxListedPairings = 20

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	return NewNotifierWithAPI(slack.New(token), channelID, metrics)
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

func (s *Notifier) SendMatchLaunched(match *model.Match, dryRun bool) error {
	_, _, err := s.sendMessage(formatMatchLaunched(match), dryRun)
	return err
}

func (s *Notifier) SendBlackboxRound(round *blackbox.Round, dryRun bool) error {
	_, _, err := s.sendMessage(formatBlackboxRound(round), dryRun)
	return err
}

// formatMatchLaunched creates the Slack message for a launched match using Block Kit.
func formatMatchLaunched(match *model.Match) slack.Message {
	blocks := make([]slack.Block, 0, 3)

	headerText := slack.NewTextBlockObject("plain_text", "🏈 Game launched! 🏈", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	details := fmt.Sprintf("%s\nvs\n%s", teamLine(match.Team1), teamLine(match.Team2))
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", details, true, false), nil, nil))

	var contextText string
	switch {
	case match.SchedulingError != "":
		contextText = "⚠️ Scheduling failed: " + match.SchedulingError
	case match.GameID > 0:
		contextText = fmt.Sprintf("Game id %d", match.GameID)
	}
	if contextText != "" {
		blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", contextText, true, false)))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatBlackboxRound creates the Slack message summarising a Blackbox draw.
func formatBlackboxRound(round *blackbox.Round) slack.Message {
	blocks := make([]slack.Block, 0, 3)

	headerText := slack.NewTextBlockObject("plain_text", "📦 Blackbox round drawn", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	summary := fmt.Sprintf("*%d* coaches, *%d* games, heuristic `%s`, score %d",
		round.Coaches, len(round.Chosen), round.Heuristic, round.Score)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", summary, false, false), nil, nil))

	if len(round.Chosen) > 0 {
		lines := make([]string, 0, min(len(round.Chosen), maxListedPairings)+1)
		for i, m := range round.Chosen {
			if i == maxListedPairings {
				lines = append(lines, fmt.Sprintf("…and %d more", len(round.Chosen)-maxListedPairings))
				break
			}
			lines = append(lines, fmt.Sprintf("• %s vs %s", m.Team1.Name, m.Team2.Name))
		}
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", strings.Join(lines, "\n"), true, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

func teamLine(t *model.Team) string {
	coach := "?"
	if t.Coach != nil {
		coach = t.Coach.Name
	}
	return fmt.Sprintf("%s (%s, %dk) by %s", t.Name, t.Roster, t.TeamValue/1000, coach)
}
