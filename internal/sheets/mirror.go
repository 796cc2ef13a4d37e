package sheets

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"efd_mod_counter/internal/retry"
)

// Mirror appends each observation to one spreadsheet range. The xlsx ledger
// stays the source of truth; a mirror failure is logged and swallowed so the
// daily run still completes offline.
type Mirror struct {
	client        *Client
	spreadsheetID string
	writeRange    string
	budget        retry.Config
}

func NewMirror(client *Client, spreadsheetID, writeRange string, budget retry.Config) *Mirror {
	return &Mirror{
		client:        client,
		spreadsheetID: spreadsheetID,
		writeRange:    writeRange,
		budget:        budget,
	}
}

// Record mirrors one ledger row. USER_ENTERED input lets the sheet parse the
// date string into a real date cell.
func (m *Mirror) Record(ctx context.Context, date time.Time, game string, count int) {
	row := []interface{}{date.Format("2006/01/02"), game, count}

	_, err := retry.Do(ctx, m.budget, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, m.client.AppendRows(ctx, m.spreadsheetID, m.writeRange, [][]interface{}{row})
	})
	if err != nil {
		log.Warn().
			Err(err).
			Str("spreadsheet_id", m.spreadsheetID).
			Msg("Could not mirror row to spreadsheet")
		return
	}

	log.Debug().
		Str("spreadsheet_id", m.spreadsheetID).
		Int("count", count).
		Msg("Mirrored ledger row to spreadsheet")
}
