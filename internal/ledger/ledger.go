// Package ledger persists daily mod counts in an append-only xlsx workbook.
package ledger

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

const (
	colHeaderDate  = "Date"
	colHeaderGame  = "Game"
	colHeaderCount = "ModCount"

	dateNumFmt  = "yyyy/mm/dd"
	columnWidth = 50
)

// Store is one metric's full history in a single workbook. Rows are only
// ever appended; nothing is updated or removed once written.
type Store struct {
	Path  string
	Sheet string
}

func NewStore(path, sheet string) *Store {
	return &Store{Path: path, Sheet: sheet}
}

// StorePath resolves the workbook location for one game, creating outputDir
// if needed. The file name carries the localized game and metric labels.
func StorePath(outputDir, game, metricLabel string) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir %s: %w", outputDir, err)
	}
	return filepath.Join(outputDir, fmt.Sprintf("%s-Mods%s.xlsx", game, metricLabel)), nil
}

// Append writes one observation directly after the current last row. The
// header is written once, the first time the sheet is used. Cosmetic touches
// (date format, centering, column widths) are best-effort and never fail the
// append.
func (s *Store) Append(date time.Time, label string, count int) error {
	f, created, err := s.open()
	if err != nil {
		return err
	}
	defer s.release(f)

	wroteHeader, err := s.ensureHeader(f)
	if err != nil {
		return err
	}

	rows, err := f.GetRows(s.Sheet)
	if err != nil {
		return fmt.Errorf("scan ledger rows: %w", err)
	}
	row := len(rows) + 1

	if err := f.SetCellValue(s.Sheet, fmt.Sprintf("A%d", row), date); err != nil {
		return fmt.Errorf("write date cell: %w", err)
	}
	if err := f.SetCellValue(s.Sheet, fmt.Sprintf("B%d", row), label); err != nil {
		return fmt.Errorf("write game cell: %w", err)
	}
	if err := f.SetCellValue(s.Sheet, fmt.Sprintf("C%d", row), count); err != nil {
		return fmt.Errorf("write count cell: %w", err)
	}

	s.decorate(f, row, wroteHeader)

	if err := s.save(f, created); err != nil {
		return err
	}

	log.Debug().
		Str("path", s.Path).
		Int("row", row).
		Int("count", count).
		Msg("Appended ledger row")
	return nil
}

// LastCount returns the count column of the last data row. A missing store,
// a header-only sheet, or any read problem all report "no prior data"; the
// write path never depends on this succeeding.
func (s *Store) LastCount() (int, bool) {
	if _, err := os.Stat(s.Path); os.IsNotExist(err) {
		return 0, false
	}

	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		log.Warn().Err(err).Str("path", s.Path).Msg("Could not open ledger for reading")
		return 0, false
	}
	defer s.release(f)

	rows, err := f.GetRows(s.Sheet)
	if err != nil {
		log.Warn().Err(err).Str("sheet", s.Sheet).Msg("Could not read ledger rows")
		return 0, false
	}
	if len(rows) < 2 {
		return 0, false
	}

	last := rows[len(rows)-1]
	if len(last) < 3 || strings.TrimSpace(last[2]) == "" {
		return 0, false
	}
	count, err := strconv.Atoi(strings.TrimSpace(last[2]))
	if err != nil {
		log.Warn().Str("value", last[2]).Str("path", s.Path).Msg("Last ledger row has a non-numeric count")
		return 0, false
	}
	return count, true
}

// open returns the workbook, creating a fresh one when the file does not
// exist yet, and guarantees the target sheet is present.
func (s *Store) open() (*excelize.File, bool, error) {
	if _, err := os.Stat(s.Path); err == nil {
		f, err := excelize.OpenFile(s.Path)
		if err != nil {
			return nil, false, fmt.Errorf("open ledger %s: %w", s.Path, err)
		}
		idx, err := f.GetSheetIndex(s.Sheet)
		if err != nil || idx == -1 {
			if _, err := f.NewSheet(s.Sheet); err != nil {
				s.release(f)
				return nil, false, fmt.Errorf("create sheet %s: %w", s.Sheet, err)
			}
		}
		return f, false, nil
	} else if !os.IsNotExist(err) {
		return nil, false, fmt.Errorf("stat ledger %s: %w", s.Path, err)
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", s.Sheet); err != nil {
		s.release(f)
		return nil, false, fmt.Errorf("name sheet %s: %w", s.Sheet, err)
	}
	return f, true, nil
}

// release closes the workbook handle on every exit path so no temp files
// linger behind a crashed run.
func (s *Store) release(f *excelize.File) {
	if err := f.Close(); err != nil {
		log.Warn().Err(err).Str("path", s.Path).Msg("Failed to release workbook handle")
	}
}

func (s *Store) ensureHeader(f *excelize.File) (bool, error) {
	a1, err := f.GetCellValue(s.Sheet, "A1")
	if err != nil {
		return false, fmt.Errorf("inspect header: %w", err)
	}
	if strings.TrimSpace(a1) != "" {
		return false, nil
	}

	headers := []struct{ cell, value string }{
		{"A1", colHeaderDate},
		{"B1", colHeaderGame},
		{"C1", colHeaderCount},
	}
	for _, h := range headers {
		if err := f.SetCellValue(s.Sheet, h.cell, h.value); err != nil {
			return false, fmt.Errorf("write header cell %s: %w", h.cell, err)
		}
	}
	return true, nil
}

// decorate applies display formatting. Each step is fault-isolated so a
// styling problem never loses the data row.
func (s *Store) decorate(f *excelize.File, row int, withHeader bool) {
	if err := s.styleDateCell(f, row); err != nil {
		log.Warn().Err(err).Msg("Skipped date cell formatting")
	}
	if err := s.centerRow(f, row); err != nil {
		log.Warn().Err(err).Msg("Skipped row alignment")
	}
	if err := f.SetColWidth(s.Sheet, "A", "C", columnWidth); err != nil {
		log.Warn().Err(err).Msg("Skipped column sizing")
	}
	if withHeader {
		if err := s.styleHeader(f); err != nil {
			log.Warn().Err(err).Msg("Skipped header styling")
		}
	}
}

func (s *Store) styleDateCell(f *excelize.File, row int) error {
	numFmt := dateNumFmt
	styleID, err := f.NewStyle(&excelize.Style{
		CustomNumFmt: &numFmt,
		Alignment:    centered(),
	})
	if err != nil {
		return err
	}
	cell := fmt.Sprintf("A%d", row)
	return f.SetCellStyle(s.Sheet, cell, cell, styleID)
}

func (s *Store) centerRow(f *excelize.File, row int) error {
	styleID, err := f.NewStyle(&excelize.Style{Alignment: centered()})
	if err != nil {
		return err
	}
	return f.SetCellStyle(s.Sheet, fmt.Sprintf("B%d", row), fmt.Sprintf("C%d", row), styleID)
}

func (s *Store) styleHeader(f *excelize.File) error {
	styleID, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: centered(),
	})
	if err != nil {
		return err
	}
	return f.SetCellStyle(s.Sheet, "A1", "C1", styleID)
}

func centered() *excelize.Alignment {
	return &excelize.Alignment{Horizontal: "center", Vertical: "center"}
}

func (s *Store) save(f *excelize.File, created bool) error {
	if created {
		if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
			return fmt.Errorf("create ledger dir: %w", err)
		}
		if err := f.SaveAs(s.Path); err != nil {
			return fmt.Errorf("save ledger %s: %w", s.Path, err)
		}
		return nil
	}
	if err := f.Save(); err != nil {
		return fmt.Errorf("save ledger %s: %w", s.Path, err)
	}
	return nil
}
