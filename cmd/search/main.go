package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/cafoodfinder/internal/adapters/providers/places"
	"github.com/zatekoja/cafoodfinder/internal/application/services"
	"github.com/zatekoja/cafoodfinder/internal/domain/entities"
	"github.com/zatekoja/cafoodfinder/internal/domain/providers"
	"github.com/zatekoja/cafoodfinder/internal/infrastructure/observability"
	"github.com/zatekoja/cafoodfinder/pkg/config"
	"github.com/zatekoja/cafoodfinder/pkg/export"
)

type options struct {
	postalCode string
	radiusKm   int
	types      string
	outPath    string
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	fs.StringVar(&opts.postalCode, "postal", "", "Canadian postal code to search around (e.g. M5H2N2)")
	fs.IntVar(&opts.radiusKm, "radius", entities.DefaultRadiusKm, "search radius in kilometres")
	fs.StringVar(&opts.types, "types", string(entities.CategoryRestaurant), "comma separated food categories")
	fs.StringVar(&opts.outPath, "out", "food_places.csv", "CSV output path")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	return opts, nil
}

func (o options) request() (entities.SearchRequest, error) {
	req := entities.SearchRequest{PostalCode: o.postalCode, RadiusKm: o.radiusKm}
	for _, raw := range strings.Split(o.types, ",") {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		category, err := entities.ParseCategory(raw)
		if err != nil {
			return req, err
		}
		req.Categories = append(req.Categories, category)
	}
	return req, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	observability.InitLogger("cafoodfinder-cli", cfg.Env, cfg.Log.Level)

	provider, err := places.NewFromConfig(cfg.Places)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize places provider")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, provider, opts, os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("search failed")
	}
}

func run(ctx context.Context, provider providers.PlacesProvider, opts options, out io.Writer) error {
	req, err := opts.request()
	if err != nil {
		return err
	}

	result, err := services.NewFoodSearchServiceFromProvider(provider).Search(ctx, req)
	if err != nil {
		return err
	}

	if result.Status == entities.SearchStatusEmpty {
		fmt.Fprintln(out, "No .ca websites found for the selected criteria.")
	} else {
		printSummary(out, result)
	}
	for _, failure := range result.Failures {
		fmt.Fprintf(out, "skipped %s (%s): %s\n", failure.PlaceID, failure.Category, failure.Error)
	}

	file, err := os.Create(opts.outPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", opts.outPath, err)
	}
	defer file.Close()

	if err := export.WriteCSV(file, result.Rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", opts.outPath, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", opts.outPath, err)
	}

	fmt.Fprintf(out, "Found %d places. Saved to %s\n", len(result.Rows), opts.outPath)
	return nil
}

func printSummary(out io.Writer, result *entities.SearchResult) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tWEBSITE\tDISTANCE_KM\tADDRESS")
	for _, row := range result.Rows {
		distance := "-"
		if row.DistanceKm != nil {
			distance = fmt.Sprintf("%.2f", *row.DistanceKm)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", row.Name, row.Website, distance, row.Address)
	}
	tw.Flush()
}
