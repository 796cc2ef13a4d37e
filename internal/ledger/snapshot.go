package ledger

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const snapshotName = "latest.txt"

// WriteSnapshot drops a small plain-text file beside the workbook recording
// the most recent observation, for quick inspection without opening Excel.
// Both timestamps are rendered in the wall clock of their own location.
func WriteSnapshot(outputDir string, date time.Time, count int, writtenAt time.Time) error {
	content := fmt.Sprintf("Date: %s\nModCount: %d\nWrittenAt: %s (Beijing Time)\n",
		date.Format("2006/01/02"), count, writtenAt.Format("2006-01-02 15:04:05"))

	path := filepath.Join(outputDir, snapshotName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write snapshot %s: %w", path, err)
	}
	return nil
}
