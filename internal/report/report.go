// Package report turns one day's observation into the user-facing summary.
package report

import (
	"fmt"
	"time"
)

// BeijingTZ is the fixed offset used for ledger dates and notification
// text. The audience lives in UTC+8, so dates roll over on Beijing
// midnight regardless of where the task runs.
var BeijingTZ = time.FixedZone("UTC+8", 8*60*60)

// Now returns the current wall clock in Beijing.
func Now() time.Time {
	return time.Now().In(BeijingTZ)
}

const (
	TitleSuccess = "Steam Mod 统计完成"
	TitleFailure = "Steam Mod 统计失败"
)

// Outcome is the day-over-day comparison. Yesterday and Delta are nil when
// the ledger had no prior row.
type Outcome struct {
	Today     int
	Yesterday *int
	Delta     *int
}

// Compare computes today minus yesterday. Pure: no I/O, no failure modes.
func Compare(today int, yesterday *int) Outcome {
	out := Outcome{Today: today, Yesterday: yesterday}
	if yesterday != nil {
		delta := today - *yesterday
		out.Delta = &delta
	}
	return out
}

// Summary is the structured result handed to the notification layer.
type Summary struct {
	Game    string
	Date    time.Time
	Outcome Outcome
}

// Message renders the Chinese notification body, keeping the exact wording
// the audience has received since the first release.
func (s Summary) Message() string {
	prefix := fmt.Sprintf("%d年%d月%d日，《%s》创意巢坊市场的Mod总数量为%d个",
		s.Date.Year(), int(s.Date.Month()), s.Date.Day(), s.Game, s.Outcome.Today)

	if s.Outcome.Yesterday == nil || s.Outcome.Delta == nil {
		return prefix + "！"
	}

	yesterday := s.Date.AddDate(0, 0, -1)
	if *s.Outcome.Delta >= 0 {
		return fmt.Sprintf("%s，比昨天%d号（%d个）多上了%d个！",
			prefix, yesterday.Day(), *s.Outcome.Yesterday, *s.Outcome.Delta)
	}
	return fmt.Sprintf("%s，比昨天%d号（%d个）减少了%d个！",
		prefix, yesterday.Day(), *s.Outcome.Yesterday, -*s.Outcome.Delta)
}
