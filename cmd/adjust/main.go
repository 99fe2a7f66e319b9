package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/charleschow/opp-adjust/internal/adapters/outbound/cfbd"
	"github.com/charleschow/opp-adjust/internal/adapters/outbound/discord"
	"github.com/charleschow/opp-adjust/internal/config"
	"github.com/charleschow/opp-adjust/internal/core/adjust"
	"github.com/charleschow/opp-adjust/internal/core/plays"
	"github.com/charleschow/opp-adjust/internal/core/ratings"
	"github.com/charleschow/opp-adjust/internal/report"
	"github.com/charleschow/opp-adjust/internal/store"
	"github.com/charleschow/opp-adjust/internal/telemetry"
)

func main() {
	start := time.Now()
	cfg := config.Load()

	season := flag.Int("season", cfg.Season, "season year to adjust")
	refresh := flag.Bool("refresh", false, "re-download the season even if it is stored")
	quiet := flag.Bool("q", false, "skip printing the ratings table")
	flag.Parse()

	telemetry.Init(telemetry.ParseLogLevel(cfg.LogLevel))
	telemetry.Infof("Opponent adjustment  season=%d  stat=%s", *season, cfg.Stat)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// ── Categories ──────────────────────────────────────────────
	categories, err := config.LoadCategories(cfg.CategoriesPath)
	if err != nil {
		telemetry.Warnf("Categories: %v (using All/Pass/Rush)", err)
		categories = plays.DefaultCategories()
	}

	// ── Season data ─────────────────────────────────────────────
	st, err := store.Open(cfg.StorePath)
	if err != nil {
		telemetry.Errorf("Store: %v", err)
		os.Exit(1)
	}
	defer st.Close()

	teams, games, records, err := loadSeason(ctx, cfg, st, *season, *refresh)
	if err != nil {
		telemetry.Errorf("Season %d: %v", *season, err)
		os.Exit(1)
	}
	universe := plays.NormalizeUniverse(teams)
	telemetry.Infof("Season %d: %d teams, %s games, %s plays",
		*season, len(universe), humanize.Comma(int64(len(games))), humanize.Comma(int64(len(records))))

	// ── Prepare rows per category ───────────────────────────────
	gameIdx := plays.GameIndex(games)
	inputs := make([]ratings.Input, 0, len(categories))
	for _, cat := range categories {
		p := plays.Prepare(records, gameIdx, universe, cfg.Stat, cat)
		dropped := 0
		for reason, n := range p.Dropped {
			if reason != plays.DropCategory {
				dropped += n
			}
		}
		telemetry.Metrics.RowsPrepared.Add(int64(len(p.Rows)))
		telemetry.Metrics.RowsDropped.Add(int64(dropped))
		telemetry.Infof("Category %s: %s rows (%s dropped)", cat.Label,
			humanize.Comma(int64(len(p.Rows))), humanize.Comma(int64(dropped)))
		inputs = append(inputs, ratings.Input{Label: cat.Label, Rows: p.Rows})
	}

	// ── Adjust ──────────────────────────────────────────────────
	opts := adjust.Options{
		Penalties:     cfg.Penalties,
		Folds:         cfg.Folds,
		ForcedPenalty: cfg.ForcedPenalty,
	}
	table, err := ratings.Build(universe, inputs, opts)
	if err != nil {
		telemetry.Errorf("Ratings: %v", err)
		os.Exit(1)
	}

	fmt.Println("Homefield advantage by category:")
	report.PrintSummaries(os.Stdout, table)
	if !*quiet {
		fmt.Println()
		if err := report.Print(os.Stdout, table); err != nil {
			telemetry.Warnf("Print: %v", err)
		}
	}

	// ── Output ──────────────────────────────────────────────────
	path, err := report.SaveCSV(cfg.OutputDir, *season, table)
	if err != nil {
		telemetry.Errorf("CSV: %v", err)
		os.Exit(1)
	}
	telemetry.Infof("Adjusted data output to %s", path)

	runID, err := st.SaveRun(*season, cfg.Stat, table)
	if err != nil {
		telemetry.Warnf("Store run: %v", err)
	} else {
		telemetry.Infof("Stored run %s", runID)
	}

	notifier := discord.NewNotifier(cfg.DiscordWebhookURL)
	if notifier.Enabled() {
		if err := notifier.RunSummary(ctx, *season, cfg.Stat, runID, table); err != nil {
			telemetry.Warnf("Discord: %v", err)
		}
	}

	telemetry.Infof("Done in %s  %s", time.Since(start).Round(100*time.Millisecond), telemetry.Summary())
	if len(table.Failures()) == len(table.Categories) && len(table.Categories) > 0 {
		os.Exit(1)
	}
}

func loadSeason(ctx context.Context, cfg *config.Config, st *store.Store, season int, refresh bool) ([]string, []plays.Game, []plays.PlayRecord, error) {
	if !refresh {
		have, err := st.HasSeason(season)
		if err != nil {
			return nil, nil, nil, err
		}
		if have {
			telemetry.Infof("Using stored plays for %d (pass -refresh to re-download)", season)
			return st.LoadSeason(season)
		}
	}

	if cfg.CFBDAPIKey == "" {
		return nil, nil, nil, fmt.Errorf("CFBD_API_KEY not set and season %d is not stored", season)
	}
	client := cfbd.NewClient(cfg.CFBDBaseURL, cfg.CFBDAPIKey, cfg.APIRateLimit, cfg.APITimeout)
	telemetry.Infof("Getting play-by-play data for %d...", season)
	s, err := client.FetchSeason(ctx, season, cfg.FetchWorkers)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := st.SaveSeason(season, s.Teams, s.Games, s.Plays); err != nil {
		return nil, nil, nil, err
	}
	return s.Teams, s.Games, s.Plays, nil
}
