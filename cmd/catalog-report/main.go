// Package main loads the catalog once and prints its statistics.
//
// It accepts the same flags and environment as the server:
//
//	catalog-report -data-path ./data -encoding latin1
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/listenupapp/libreria/internal/config"
	"github.com/listenupapp/libreria/internal/logger"
	"github.com/listenupapp/libreria/internal/media/covers"
	"github.com/listenupapp/libreria/internal/notify"
	"github.com/listenupapp/libreria/internal/records"
	"github.com/listenupapp/libreria/internal/service"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load(args)
	if err != nil {
		fmt.Fprintf(stderr, "catalog-report: %v\n", err)
		return 2
	}

	log := logger.New(logger.Config{
		Writer:      stderr,
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Environment: cfg.App.Environment,
	})

	resolver, err := covers.NewResolver(cfg.Catalog.DataPath)
	if err != nil {
		log.Error("invalid data path", "error", err)
		return 1
	}

	reportLog := log.WithComponent("catalog-report")
	svc, err := service.NewCatalogService(ctx, service.Options{
		CategoriesPath:      cfg.Catalog.CategoriesPath,
		BooksPath:           cfg.Catalog.BooksPath,
		Records:             records.Options{Encoding: cfg.Catalog.Encoding},
		StrictCategoryNames: cfg.Catalog.StrictCategoryNames,
		Notifier:            notify.Multi{notify.NewWriter(stdout), notify.NewLog(reportLog)},
		Covers:              resolver,
		Logger:              reportLog,
	})
	if err != nil {
		log.Error("failed to load catalog", "error", err)
		return 1
	}

	audit, err := svc.AuditCovers(ctx)
	if err != nil {
		log.Error("cover audit failed", "error", err)
		return 1
	}

	if err := printReport(stdout, svc.Stats(), svc.Categories(), audit); err != nil {
		log.Error("failed to write report", "error", err)
		return 1
	}
	return 0
}

func printReport(w io.Writer, stats service.Stats, categories []service.CategoryView, audit *service.CoverAuditReport) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "CATEGORY\tFICTION\tBOOKS\tAVERAGE")
	for _, c := range categories {
		fmt.Fprintf(tw, "%s\t%t\t%d\t%s\n", c.Name, c.Fiction, c.Books, formatRating(c.AverageRating))
	}
	fmt.Fprintln(tw)

	fmt.Fprintf(tw, "Books:\t%d\n", stats.Books)
	fmt.Fprintf(tw, "Average rating:\t%s\n", formatRating(stats.AverageRating))
	fmt.Fprintf(tw, "Most books:\t%s\n", categoryName(stats.CategoryWithMostBooks))
	fmt.Fprintf(tw, "Best average:\t%s\n", categoryName(stats.CategoryWithBestAverage))
	fmt.Fprintf(tw, "Without cover:\t%d\n", stats.BooksWithoutCover)
	fmt.Fprintf(tw, "Author in several categories:\t%s\n", yesNo(stats.AuthorInMultipleCategories))
	fmt.Fprintf(tw, "Covers checked:\t%d (%d mismatched, %d unreadable)\n", audit.Checked, audit.Mismatched, audit.Failed)

	return tw.Flush()
}

func formatRating(r *float64) string {
	if r == nil {
		return "-"
	}
	return strconv.FormatFloat(*r, 'f', 2, 64)
}

func categoryName(c *service.CategoryView) string {
	if c == nil {
		return "-"
	}
	return c.Name
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
