package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/osamhq/portal/internal/portal"
)

var (
	eventsSkip  int
	eventsLimit int
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Browse portal events",
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List events",
	Run:   runEventsList,
}

var eventsUpcomingCmd = &cobra.Command{
	Use:   "upcoming",
	Short: "List upcoming events",
	Run:   runEventsUpcoming,
}

var eventsOngoingCmd = &cobra.Command{
	Use:   "ongoing",
	Short: "List events currently running",
	Run:   runEventsOngoing,
}

var eventsSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search events by name",
	Args:  cobra.ExactArgs(1),
	Run:   runEventsSearch,
}

func init() {
	eventsListCmd.Flags().IntVar(&eventsSkip, "skip", 0, "number of events to skip")
	eventsListCmd.Flags().IntVar(&eventsLimit, "limit", 100, "maximum events to return")
	eventsCmd.AddCommand(eventsListCmd, eventsUpcomingCmd, eventsOngoingCmd, eventsSearchCmd)
	rootCmd.AddCommand(eventsCmd)
}

func runEventsList(cmd *cobra.Command, args []string) {
	a := newApp()
	events := run(a, "events.list", func(ctx context.Context) ([]portal.EventSummary, error) {
		return a.events.List(ctx, eventsSkip, eventsLimit)
	})
	printEvents(events)
}

func runEventsUpcoming(cmd *cobra.Command, args []string) {
	a := newApp()
	events := run(a, "events.upcoming", func(ctx context.Context) ([]portal.EventSummary, error) {
		return a.events.Upcoming(ctx)
	})
	printEvents(events)
}

func runEventsOngoing(cmd *cobra.Command, args []string) {
	a := newApp()
	events := run(a, "events.ongoing", func(ctx context.Context) ([]portal.EventSummary, error) {
		return a.events.Ongoing(ctx)
	})
	printEvents(events)
}

func runEventsSearch(cmd *cobra.Command, args []string) {
	a := newApp()
	events := run(a, "events.search", func(ctx context.Context) ([]portal.EventSummary, error) {
		return a.events.SearchByName(ctx, args[0])
	})
	printEvents(events)
}

func printEvents(events []portal.EventSummary) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tSTART\tEND\tSTATUS")
	for _, e := range events {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			e.EventID, e.Name, e.EventType, e.StartDate, e.EndDate, e.Status)
	}
	_ = w.Flush()
}
