// Package app wires the daily observation cycle together.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"efd_mod_counter/internal/fetch"
	"efd_mod_counter/internal/ledger"
	"efd_mod_counter/internal/report"
	"efd_mod_counter/internal/sheets"
	"efd_mod_counter/internal/workshop"
)

// Run executes one observation cycle: fetch the page, extract the total,
// read the previous count, append today's row, then build the summary for
// the notification channels. Yesterday's count is read before the append so
// the comparison never sees today's own row. Snapshot and spreadsheet
// mirror are best-effort; only fetch, parse, and the ledger append can fail
// the run.
func Run(ctx context.Context, cfg Config) (*report.Summary, error) {
	client := fetch.New(fetch.Config{
		UserAgent:    cfg.UserAgent,
		Timeout:      cfg.Timeout,
		UseMirror:    cfg.UseMirror,
		MirrorPrefix: cfg.MirrorPrefix,
		Retry:        cfg.Resilience.PageFetch,
		CurlPath:     cfg.CurlPath,
	})

	page, err := client.Page(ctx, cfg.WorkshopURL)
	if err != nil {
		return nil, fmt.Errorf("retrieve workshop page: %w", err)
	}

	count, err := workshop.Count(page)
	if err != nil {
		return nil, fmt.Errorf("parse workshop page: %w", err)
	}
	log.Info().Int("count", count).Str("game", cfg.GameName).Msg("Extracted mod total")

	path, err := ledger.StorePath(cfg.OutputDir, cfg.GameName, cfg.MetricLabel)
	if err != nil {
		return nil, fmt.Errorf("resolve ledger path: %w", err)
	}
	store := ledger.NewStore(path, cfg.SheetName)

	var yesterday *int
	if last, ok := store.LastCount(); ok {
		yesterday = &last
		log.Debug().Int("previous_count", last).Msg("Found previous observation")
	} else {
		log.Debug().Msg("No previous observation, first run for this store")
	}

	today := report.Now()
	if err := store.Append(today, cfg.GameName, count); err != nil {
		return nil, fmt.Errorf("append ledger row: %w", err)
	}

	if err := ledger.WriteSnapshot(cfg.OutputDir, today, count, report.Now()); err != nil {
		log.Warn().Err(err).Msg("Could not write snapshot file")
	}

	if mirror := buildMirror(ctx, cfg); mirror != nil {
		mirror.Record(ctx, today, cfg.GameName, count)
	}

	summary := &report.Summary{
		Game:    cfg.GameName,
		Date:    today,
		Outcome: report.Compare(count, yesterday),
	}

	event := log.Info().Int("today", summary.Outcome.Today)
	if summary.Outcome.Delta != nil {
		event = event.Int("yesterday", *summary.Outcome.Yesterday).Int("delta", *summary.Outcome.Delta)
	}
	event.Msg("Observation recorded")

	return summary, nil
}

// buildMirror returns the spreadsheet mirror, or nil when it is disabled or
// misconfigured. A broken mirror never blocks the run.
func buildMirror(ctx context.Context, cfg Config) *sheets.Mirror {
	if !cfg.SheetsMirrorEnabled {
		return nil
	}
	if cfg.SpreadsheetID == "" {
		log.Warn().Msg("Sheets mirror enabled but SPREADSHEET_ID is empty, skipping")
		return nil
	}

	client, err := sheets.NewClient(ctx, cfg.CredentialsFile)
	if err != nil {
		log.Warn().Err(err).Msg("Could not create sheets client, skipping mirror")
		return nil
	}
	return sheets.NewMirror(client, cfg.SpreadsheetID, cfg.SpreadsheetRange, cfg.Resilience.SheetsMirror)
}
