// Package main implements hotelctl, the admin CLI for the hotel finder backend.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"hotel_finder/internal/adapters/observability"
	"hotel_finder/internal/adapters/searchproc"
	"hotel_finder/internal/app"
	"hotel_finder/internal/catalog"
	"hotel_finder/internal/shared"
)

var (
	cfg     shared.Config
	csvPath string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "hotelctl",
	Short: "Admin tasks for the hotel finder backend",
	Long: `hotelctl runs the maintenance tasks of the hotel finder backend
without going through the HTTP API: rebuilding the search index,
running a search offline and inspecting the catalog.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = shared.Load()
		log.Logger = observability.NewLogger(cfg.AppEnv)
		if csvPath != "" {
			cfg.CatalogCSV = csvPath
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&csvPath, "catalog", "", "catalog CSV path (defaults to CATALOG_CSV)")
	searchCmd.Flags().Int("top-k", app.SearchDefaultTopK, "number of results")
	searchCmd.Flags().Float64("min-price", 0, "minimum price (VND)")
	searchCmd.Flags().Float64("max-price", 0, "maximum price (VND)")
	searchCmd.Flags().Float64("min-star", 0, "minimum star rating")
	searchCmd.Flags().String("district", "", "district filter")

	rootCmd.AddCommand(embeddingsCmd, searchCmd, catalogCmd)
}

func newRunner() *searchproc.Runner {
	return searchproc.New(searchproc.Options{
		Python:       cfg.SearchPython,
		Script:       cfg.SearchScript,
		MaxProcs:     1,
		EmbedTimeout: cfg.EmbedTimeout,
	})
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var embeddingsCmd = &cobra.Command{
	Use:   "create-embeddings",
	Short: "Rebuild the semantic search index",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := app.NewSearchService(newRunner(), catalog.New(catalog.CSVSource{Path: cfg.CatalogCSV}), nil, 0)
		out, err := svc.CreateEmbeddings(cmd.Context())
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(os.Stdout, string(out))
		return err
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Run a search, falling back to the catalog filter like the API does",
	Long: `Run a search exactly as POST /api/semantic-search would.

Examples:
  hotelctl search "khách sạn gần chợ Bến Thành" --max-price 1500000
  hotelctl search homestay --district "Quận 3" --top-k 5`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		params := map[string]any{"query": args[0]}
		topK, _ := cmd.Flags().GetInt("top-k")
		params["top_k"] = float64(topK)
		for _, f := range []string{"min-price", "max-price", "min-star"} {
			if cmd.Flags().Changed(f) {
				v, _ := cmd.Flags().GetFloat64(f)
				params[flagKey(f)] = v
			}
		}
		if d, _ := cmd.Flags().GetString("district"); d != "" {
			params["district"] = d
		}
		q, err := app.ParseSearchQuery(params)
		if err != nil {
			return err
		}
		svc := app.NewSearchService(newRunner(), catalog.New(catalog.CSVSource{Path: cfg.CatalogCSV}), nil, 0)
		return printJSON(svc.Search(cmd.Context(), q).Body())
	},
}

func flagKey(f string) string {
	switch f {
	case "min-price":
		return "min_price"
	case "max-price":
		return "max_price"
	default:
		return "min_star"
	}
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Load the catalog CSV and print its filter options",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat := catalog.New(catalog.CSVSource{Path: cfg.CatalogCSV})
		snap, err := cat.Get(cmd.Context())
		if err != nil {
			return err
		}
		opts, err := app.NewQueryService(cat, nil, nil, 0).Filters(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(map[string]any{
			"path":     cfg.CatalogCSV,
			"records":  snap.Len(),
			"loadedAt": snap.LoadedAt(),
			"filters":  opts,
		})
	},
}
