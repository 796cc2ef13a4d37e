package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int {
	return &v
}

func TestCompareWithYesterday(t *testing.T) {
	out := Compare(333, intPtr(321))

	assert.Equal(t, 333, out.Today)
	require.NotNil(t, out.Yesterday)
	assert.Equal(t, 321, *out.Yesterday)
	require.NotNil(t, out.Delta)
	assert.Equal(t, 12, *out.Delta)
}

func TestCompareDecrease(t *testing.T) {
	out := Compare(300, intPtr(321))

	require.NotNil(t, out.Delta)
	assert.Equal(t, -21, *out.Delta)
}

func TestCompareFirstRun(t *testing.T) {
	out := Compare(333, nil)

	assert.Equal(t, 333, out.Today)
	assert.Nil(t, out.Yesterday)
	assert.Nil(t, out.Delta)
}

func summaryFor(date time.Time, today int, yesterday *int) Summary {
	return Summary{
		Game:    "逃离鸭科夫",
		Date:    date,
		Outcome: Compare(today, yesterday),
	}
}

func TestSummaryMessageIncrease(t *testing.T) {
	date := time.Date(2026, time.August, 22, 9, 0, 0, 0, BeijingTZ)
	s := summaryFor(date, 333, intPtr(321))

	assert.Equal(t,
		"2026年8月22日，《逃离鸭科夫》创意巢坊市场的Mod总数量为333个，比昨天21号（321个）多上了12个！",
		s.Message())
}

func TestSummaryMessageDecrease(t *testing.T) {
	date := time.Date(2026, time.August, 22, 9, 0, 0, 0, BeijingTZ)
	s := summaryFor(date, 300, intPtr(321))

	assert.Equal(t,
		"2026年8月22日，《逃离鸭科夫》创意巢坊市场的Mod总数量为300个，比昨天21号（321个）减少了21个！",
		s.Message())
}

func TestSummaryMessageZeroDelta(t *testing.T) {
	date := time.Date(2026, time.August, 22, 9, 0, 0, 0, BeijingTZ)
	s := summaryFor(date, 321, intPtr(321))

	assert.Equal(t,
		"2026年8月22日，《逃离鸭科夫》创意巢坊市场的Mod总数量为321个，比昨天21号（321个）多上了0个！",
		s.Message())
}

func TestSummaryMessageFirstRun(t *testing.T) {
	date := time.Date(2026, time.August, 22, 9, 0, 0, 0, BeijingTZ)
	s := summaryFor(date, 333, nil)

	assert.Equal(t,
		"2026年8月22日，《逃离鸭科夫》创意巢坊市场的Mod总数量为333个！",
		s.Message())
}

func TestSummaryMessageMonthBoundary(t *testing.T) {
	date := time.Date(2026, time.March, 1, 9, 0, 0, 0, BeijingTZ)
	s := summaryFor(date, 100, intPtr(90))

	assert.Equal(t,
		"2026年3月1日，《逃离鸭科夫》创意巢坊市场的Mod总数量为100个，比昨天28号（90个）多上了10个！",
		s.Message())
}
