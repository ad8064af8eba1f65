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

var galleriesForPlace int

var galleriesCmd = &cobra.Command{
	Use:   "galleries",
	Short: "Browse portal galleries",
}

var galleriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List galleries",
	Run:   runGalleriesList,
}

var galleriesFeaturedCmd = &cobra.Command{
	Use:   "featured",
	Short: "List featured galleries",
	Run:   runGalleriesFeatured,
}

var galleriesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one gallery with its images",
	Args:  cobra.ExactArgs(1),
	Run:   runGalleriesShow,
}

func init() {
	galleriesListCmd.Flags().IntVar(&galleriesForPlace, "place", 0, "only galleries for this place id")
	galleriesCmd.AddCommand(galleriesListCmd, galleriesFeaturedCmd, galleriesShowCmd)
	rootCmd.AddCommand(galleriesCmd)
}

func runGalleriesList(cmd *cobra.Command, args []string) {
	a := newApp()
	galleries := run(a, "galleries.list", func(ctx context.Context) ([]portal.GallerySummary, error) {
		if galleriesForPlace > 0 {
			return a.galleries.ForPlace(ctx, galleriesForPlace)
		}
		return a.galleries.List(ctx, 0, 100)
	})
	printGalleries(galleries)
}

func runGalleriesFeatured(cmd *cobra.Command, args []string) {
	a := newApp()
	galleries := run(a, "galleries.featured", func(ctx context.Context) ([]portal.GallerySummary, error) {
		return a.galleries.Featured(ctx)
	})
	printGalleries(galleries)
}

func runGalleriesShow(cmd *cobra.Command, args []string) {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid gallery id: %s\n", args[0])
		os.Exit(1)
	}

	a := newApp()
	gallery := run(a, "galleries.get", func(ctx context.Context) (portal.Gallery, error) {
		return a.galleries.Get(ctx, id)
	})

	fmt.Printf("%s (#%d, %s)\n", gallery.Name, gallery.GalleryID, gallery.GalleryType)
	if gallery.Description != "" {
		fmt.Printf("  %s\n", gallery.Description)
	}
	for _, img := range gallery.Images {
		title := img.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Printf("  [%d] %s  %s\n", img.ImageOrder, title, img.ImageURL)
	}
}

func printGalleries(galleries []portal.GallerySummary) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tFEATURED")
	for _, g := range galleries {
		fmt.Fprintf(w, "%d\t%s\t%s\t%v\n", g.GalleryID, g.Name, g.GalleryType, g.IsFeatured)
	}
	_ = w.Flush()
}
