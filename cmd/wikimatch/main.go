package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/censusindia/wikimatch/internal/db"
	"github.com/censusindia/wikimatch/internal/engine"
	"github.com/censusindia/wikimatch/internal/match"
	"github.com/censusindia/wikimatch/internal/scrape"
	"github.com/censusindia/wikimatch/internal/web"
	"github.com/censusindia/wikimatch/internal/wiki"
	"github.com/censusindia/wikimatch/internal/wikidata"
)

var (
	// Global database connection
	dbConn *db.Connection
)

// Island territories with near-zero village coverage on Wikipedia.
var defaultSkipStates = []string{"Andaman and Nicobar Islands", "Lakshadweep"}

func main() {
	var err error

	dbConn, err = db.NewConnection()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbConn.Close()

	rootCmd := &cobra.Command{
		Use:   "wikimatch",
		Short: "Census India Wikipedia Enrichment System",
		Long:  `Enriches the census geography database with Wikipedia and Wikidata metadata for districts, subdistricts, towns and villages`,
	}

	rootCmd.AddCommand(createPingCmd())
	rootCmd.AddCommand(createSetupCmd())
	rootCmd.AddCommand(createMatchCmd())
	rootCmd.AddCommand(createBulkCmd())
	rootCmd.AddCommand(createRescueCmd())
	rootCmd.AddCommand(createWebsitesCmd())
	rootCmd.AddCommand(createReportCmd())
	rootCmd.AddCommand(createServeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// signalContext returns a context cancelled by SIGINT/SIGTERM, so batch runs
// commit their current record and stop cleanly.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func storeForKind(kind string) *engine.Store {
	table, err := engine.TableForKind(kind)
	if err != nil {
		log.Fatalf("Unknown kind %q (want district, subdistrict, ulb or village)", kind)
	}
	return &engine.Store{DB: dbConn.DB, Table: table}
}

func kindByName(name string) match.Kind {
	kind, ok := match.KindByName(name)
	if !ok {
		log.Fatalf("Unknown kind %q (want district, subdistrict, ulb or village)", name)
	}
	return kind
}

// createPingCmd creates a command to test database connectivity
func createPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Test database connectivity",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("Database connection successful!")

			for _, table := range engine.Tables {
				var count int
				err := dbConn.DB.QueryRow("SELECT COUNT(*) FROM " + table.Name).Scan(&count)
				if err != nil {
					log.Printf("Error counting %s records: %v", table.Name, err)
				} else {
					fmt.Printf("%s: %d rows\n", table.Name, count)
				}
			}
		},
	}
}

// createSetupCmd creates the destructive schema setup command
func createSetupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Create and pre-populate the wikipedia_* tables",
		Long:  `Drops and recreates the enrichment tables, then copies every district, subdistrict, town and village from the census tables as PENDING rows`,
		Run: func(cmd *cobra.Command, args []string) {
			if err := db.Setup(dbConn.DB, os.Stdin); err != nil {
				log.Fatalf("Setup failed: %v", err)
			}
		},
	}
}

// createMatchCmd creates the per-record Wikipedia matching command
func createMatchCmd() *cobra.Command {
	var limit int
	var delay time.Duration
	var includeIslands bool

	cmd := &cobra.Command{
		Use:   "match [kind]",
		Short: "Match pending records against Wikipedia",
		Long:  `Runs the direct Wikipedia match over one kind's PENDING records: candidate titles are resolved through the summary API, validated against the census hierarchy, and committed one by one`,
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			kind := kindByName(args[0])
			store := storeForKind(kind.Name)
			client := wiki.NewClient(10 * time.Second)

			var skip []string
			if kind.Name == "village" && !includeIslands {
				skip = defaultSkipStates
			}

			extractor := &engine.Extractor{
				Store: store,
				Matcher: &match.Matcher{
					Kind:       kind,
					Resolver:   client,
					Coords:     client,
					Categories: client,
				},
				Delay:      delay,
				Limit:      limit,
				SkipStates: skip,
			}

			ctx, stop := signalContext()
			defer stop()
			if err := extractor.Run(ctx); err != nil {
				if ctx.Err() != nil {
					fmt.Println("\nInterrupted. Progress is saved; rerun to continue.")
					return
				}
				log.Fatalf("Matching failed: %v", err)
			}
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum records to process (0 = all)")
	cmd.Flags().DurationVar(&delay, "delay", 500*time.Millisecond, "Pause between records")
	cmd.Flags().BoolVar(&includeIslands, "include-islands", false, "Process island territories too")

	return cmd
}

// createBulkCmd creates the bulk Wikidata linking command
func createBulkCmd() *cobra.Command {
	var delay time.Duration

	cmd := &cobra.Command{
		Use:   "bulk [district|subdistrict]",
		Short: "Link records to Wikidata items in bulk",
		Long:  `Fetches knowledge-base snapshots through SPARQL and links unmatched records by normalized name, without per-record HTTP lookups`,
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			linker := &engine.BulkLinker{
				Store:  storeForKind(args[0]),
				Source: wikidata.NewClient(),
				Delay:  delay,
			}

			ctx, stop := signalContext()
			defer stop()

			var err error
			switch args[0] {
			case "district":
				err = linker.LinkDistricts(ctx)
			case "subdistrict":
				err = linker.LinkSubdistricts(ctx)
			default:
				log.Fatalf("Bulk linking supports district and subdistrict only")
			}
			if err != nil {
				if ctx.Err() != nil {
					fmt.Println("\nInterrupted. Progress is saved; rerun to continue.")
					return
				}
				log.Fatalf("Bulk linking failed: %v", err)
			}
		},
	}

	cmd.Flags().DurationVar(&delay, "delay", 2*time.Second, "Pause between per-state queries")

	return cmd
}

// createRescueCmd creates the search-engine rescue command
func createRescueCmd() *cobra.Command {
	var limit int
	var delay time.Duration

	cmd := &cobra.Command{
		Use:   "rescue [kind]",
		Short: "Retry unmatched records via an external search engine",
		Long:  `Queries a web search engine for records the direct matcher gave up on and trusts its first Wikipedia hit`,
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			rescuer := &engine.Rescuer{
				Store:  storeForKind(kindByName(args[0]).Name),
				Wiki:   wiki.NewClient(10 * time.Second),
				Finder: scrape.NewClient(15 * time.Second),
				Delay:  delay,
				Limit:  limit,
			}

			ctx, stop := signalContext()
			defer stop()
			if err := rescuer.Run(ctx); err != nil {
				if ctx.Err() != nil {
					fmt.Println("\nInterrupted. Progress is saved; rerun to continue.")
					return
				}
				log.Fatalf("Rescue failed: %v", err)
			}
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum records to process (0 = all)")
	cmd.Flags().DurationVar(&delay, "delay", 2*time.Second, "Pause between records")

	return cmd
}

// createWebsitesCmd creates the infobox website scraping command
func createWebsitesCmd() *cobra.Command {
	var delay time.Duration

	cmd := &cobra.Command{
		Use:   "websites",
		Short: "Fill official website URLs for matched districts",
		Long:  `Scrapes the infobox of every matched district article for its official website link`,
		Run: func(cmd *cobra.Command, args []string) {
			filler := &engine.WebsiteFiller{
				Store:   storeForKind("district"),
				Scraper: scrape.NewClient(15 * time.Second),
				Delay:   delay,
			}

			ctx, stop := signalContext()
			defer stop()
			if err := filler.Run(ctx); err != nil {
				if ctx.Err() != nil {
					fmt.Println("\nInterrupted. Progress is saved; rerun to continue.")
					return
				}
				log.Fatalf("Website scraping failed: %v", err)
			}
		},
	}

	cmd.Flags().DurationVar(&delay, "delay", time.Second, "Pause between records")

	return cmd
}

// createReportCmd creates the status report command
func createReportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show enrichment status",
		Long:  `Prints per-table and per-state coverage, or writes a standalone HTML dashboard with --out`,
		Run: func(cmd *cobra.Command, args []string) {
			report, err := engine.BuildReport(context.Background(), dbConn.DB)
			if err != nil {
				log.Fatalf("Failed to build report: %v", err)
			}

			if out == "" {
				report.PrintText(os.Stdout)
				return
			}

			f, err := os.Create(out)
			if err != nil {
				log.Fatalf("Failed to create %s: %v", out, err)
			}
			defer f.Close()
			if err := report.RenderHTML(f); err != nil {
				log.Fatalf("Failed to render report: %v", err)
			}
			fmt.Printf("Report written to %s\n", out)
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Write an HTML report to this file")

	return cmd
}

// createServeCmd creates the dashboard server command
func createServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the status dashboard",
		Run: func(cmd *cobra.Command, args []string) {
			server := web.NewServer(dbConn.DB, addr)
			if err := server.Start(); err != nil {
				log.Fatalf("Server failed: %v", err)
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "localhost:8080", "Listen address")

	return cmd
}
