package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/osamhq/portal/internal/portal"
)

var (
	placesSkip     int
	placesLimit    int
	placesCategory string
)

var placesCmd = &cobra.Command{
	Use:   "places",
	Short: "Browse portal places",
}

var placesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List places",
	Run:   runPlacesList,
}

var placesGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one place",
	Args:  cobra.ExactArgs(1),
	Run:   runPlacesGet,
}

var placesSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search places by name",
	Args:  cobra.ExactArgs(1),
	Run:   runPlacesSearch,
}

func init() {
	placesListCmd.Flags().IntVar(&placesSkip, "skip", 0, "number of places to skip")
	placesListCmd.Flags().IntVar(&placesLimit, "limit", 100, "maximum places to return")
	placesListCmd.Flags().StringVar(&placesCategory, "category", "", "filter by category (place, landmark, viewpoint, parking)")
	placesCmd.AddCommand(placesListCmd, placesGetCmd, placesSearchCmd)
	rootCmd.AddCommand(placesCmd)
}

func runPlacesList(cmd *cobra.Command, args []string) {
	a := newApp()
	places := run(a, "places.list", func(ctx context.Context) ([]portal.PlaceSummary, error) {
		if placesCategory != "" {
			return a.places.FilterByCategory(ctx, placesCategory)
		}
		return a.places.List(ctx, placesSkip, placesLimit)
	})
	printPlaces(places)
}

func runPlacesGet(cmd *cobra.Command, args []string) {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid place id: %s\n", args[0])
		os.Exit(1)
	}

	a := newApp()
	place := run(a, "places.get", func(ctx context.Context) (portal.Place, error) {
		return a.places.Get(ctx, id)
	})

	fmt.Printf("%s (#%d)\n", place.Name, place.PlaceID)
	fmt.Printf("  Category:  %s\n", place.Category)
	fmt.Printf("  Location:  %s\n", place.Location)
	if place.Description != "" {
		fmt.Printf("  About:     %s\n", place.Description)
	}
	if place.BestTimeToVisit != "" {
		fmt.Printf("  Visit:     %s\n", place.BestTimeToVisit)
	}
	fmt.Printf("  Parking:   %v  Restrooms: %v  Food: %v\n",
		place.HasParking, place.HasRestrooms, place.HasFood)
}

func runPlacesSearch(cmd *cobra.Command, args []string) {
	a := newApp()
	places := run(a, "places.search", func(ctx context.Context) ([]portal.PlaceSummary, error) {
		return a.places.SearchByName(ctx, args[0])
	})
	printPlaces(places)
}

func printPlaces(places []portal.PlaceSummary) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tLOCATION")
	for _, p := range places {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", p.PlaceID, p.Name, p.Category, p.Location)
	}
	_ = w.Flush()
}
