//go:build !lambda

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

const usage = `Usage: chiseled [flags] [item.txt]

Positional arguments:
  item.txt   Text copied from an item tooltip ("-" or omitted = read stdin)

Flags:
`

func main() {
	configPath := flag.String("config", "chiseled.toml", "Path to TOML config")
	statsPath := flag.String("stats", "", "Path to a saved stats catalog (overrides config)")
	itemsPath := flag.String("items", "", "Path to a saved items catalog (overrides config)")
	league := flag.String("league", "", "League to search (overrides config)")
	jsonOut := flag.Bool("json", false, "Print the trade query as JSON")
	search := flag.Bool("search", false, "Submit the query and print the cheapest listings")
	verbose := flag.Bool("verbose", false, "Log debug output to stderr")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		// The default config file is optional.
		if !errors.Is(err, fs.ErrNotExist) || flagSet("config") {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		cfg = DefaultConfig()
	}
	if *statsPath != "" {
		cfg.Catalog.StatsPath = *statsPath
	}
	if *itemsPath != "" {
		cfg.Catalog.ItemsPath = *itemsPath
	}
	if *league != "" {
		cfg.Trade.League = *league
	}
	if *verbose {
		cfg.Log.Level = "debug"
	}
	setupLogger(cfg.Log)

	text, err := readItemText(flag.Arg(0))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read item text")
	}
	if !LooksLikeItem(text) {
		fmt.Fprintln(os.Stderr, "error: input does not look like item text copied from the game")
		os.Exit(1)
	}

	client := NewTradeClient(cfg.Trade)
	sess, err := NewSession(cfg, client)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create session")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*cfg.Trade.Timeout()+5*time.Second)
	defer cancel()
	if err := sess.Reload(ctx); err != nil {
		log.Fatal().Err(err).Msg("are you logged in to the official trade site?")
	}

	query, filters, err := sess.Query(text)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to parse item text: %v\n", err)
		os.Exit(1)
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(query); err != nil {
			log.Fatal().Err(err).Msg("failed to encode query")
		}
	} else {
		fmt.Print(FormatFilters(filters))
	}

	if *search {
		if err := runSearch(ctx, client, query); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}
}

func runSearch(ctx context.Context, client *TradeClient, query *TradeQuery) error {
	res, err := client.Search(ctx, query)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "%d results: %s\n", res.Total, client.SearchURL(query.League, res.ID))
	listings, err := client.FetchListings(ctx, res.ID, res.Result)
	if err != nil {
		return err
	}
	fmt.Print(FormatListings(listings))
	return nil
}

func readItemText(path string) (string, error) {
	if path == "" || path == "-" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(b), nil
}

func flagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
