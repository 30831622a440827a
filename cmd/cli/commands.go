package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(activateCmd)
	rootCmd.AddCommand(teamsCmd)
	rootCmd.AddCommand(opponentsCmd)
	rootCmd.AddCommand(offersCmd)
	rootCmd.AddCommand(offerCmd)
	rootCmd.AddCommand(cancelCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(blackboxCmd)
	rootCmd.AddCommand(roundsCmd)
	rootCmd.AddCommand(roundCmd)
	rootCmd.AddCommand(resetCmd)

	roundsCmd.Flags().IntVar(&roundsLimit, "limit", 0, "Number of rounds to list")
}

var roundsLimit int

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Get the persistent counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/stats")
	},
}

var activateCmd = &cobra.Command{
	Use:   "activate",
	Short: "Activate a coach in the gamefinder",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/gamefinder/activate", coachForm())
	},
}

var teamsCmd = &cobra.Command{
	Use:   "teams",
	Short: "List the coach's activated teams",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/gamefinder/teams", coachForm())
	},
}

var opponentsCmd = &cobra.Command{
	Use:   "opponents",
	Short: "List every active coach and their teams",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/gamefinder/opponents", coachForm())
	},
}

var offersCmd = &cobra.Command{
	Use:   "offers",
	Short: "List the coach's current offers",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/gamefinder/offers", coachForm())
	},
}

var offerCmd = &cobra.Command{
	Use:   "offer <myTeamId> <opponentTeamId>",
	Short: "Make an offer to an opponent team",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return teamAction("/gamefinder/make-offer", args)
	},
}

var cancelCmd = &cobra.Command{
	Use:   "cancel <myTeamId> <opponentTeamId>",
	Short: "Cancel an offer or reject the opponent",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return teamAction("/gamefinder/cancel-offer", args)
	},
}

var startCmd = &cobra.Command{
	Use:   "start <myTeamId> <opponentTeamId>",
	Short: "Confirm the start of a match",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return teamAction("/gamefinder/start-game", args)
	},
}

var blackboxCmd = &cobra.Command{
	Use:   "blackbox",
	Short: "Show the Blackbox cycle phase",
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := "/blackbox/state"
		if coachID != 0 {
			endpoint += "?coachId=" + strconv.Itoa(coachID)
		}
		return performGetRequest(endpoint)
	},
}

var roundsCmd = &cobra.Command{
	Use:   "rounds",
	Short: "List recent Blackbox rounds",
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := "/blackbox/rounds"
		if roundsLimit > 0 {
			endpoint += "?limit=" + strconv.Itoa(roundsLimit)
		}
		return performGetRequest(endpoint)
	},
}

var roundCmd = &cobra.Command{
	Use:   "round <id>",
	Short: "Show a Blackbox round with its candidates",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/blackbox/rounds/" + url.PathEscape(args[0]))
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the whole gamefinder state",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/admin/reset", url.Values{})
	},
}

func coachForm() url.Values {
	return url.Values{"coachId": {strconv.Itoa(coachID)}}
}

func teamAction(endpoint string, args []string) error {
	for _, arg := range args {
		if _, err := strconv.Atoi(arg); err != nil {
			return fmt.Errorf("team id %q is not a number", arg)
		}
	}
	form := coachForm()
	form.Set("myTeamId", args[0])
	form.Set("opponentTeamId", args[1])
	return performPostRequest(endpoint, form)
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	return printResponse(resp)
}

func performPostRequest(endpoint string, form url.Values) error {
	target := host + endpoint
	fmt.Printf("Posting to %s\n", target)

	resp, err := http.PostForm(target, form)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
