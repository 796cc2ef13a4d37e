// Package workshop extracts mod totals from Steam Workshop browse pages.
package workshop

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
)

// ErrNoTotal reports that no recognized total appeared in the page.
var ErrNoTotal = errors.New("no mod total found in workshop page")

var (
	seeAllPattern  = regexp.MustCompile(`(?i)See\s+all\s+([\d,\.]+)\s+Mods`)
	showingPattern = regexp.MustCompile(`(?i)Showing\s+\d+(?:-\d+)?\s+of\s+([\d,\.]+)\s+entries`)
	nonDigits      = regexp.MustCompile(`[^0-9]`)
)

// A strategy locates the raw total text in one known page shape.
type strategy struct {
	name string
	find func(page string) (string, bool)
}

// Ordered by reliability. The "See all N Mods" banner is the canonical
// source; the paging summary and the DOM counter cover page shapes where
// the banner is absent.
var strategies = []strategy{
	{"see_all_banner", findSeeAll},
	{"paging_summary", findShowing},
	{"results_counter", findResultsCounter},
}

// Count returns the mod total advertised on a Workshop browse page. The
// first strategy that yields digits wins; a match without digits falls
// through to the next strategy.
func Count(page string) (int, error) {
	for _, s := range strategies {
		raw, ok := s.find(page)
		if !ok {
			continue
		}
		digits := nonDigits.ReplaceAllString(raw, "")
		if digits == "" {
			log.Debug().Str("strategy", s.name).Str("raw", raw).Msg("Match contained no digits")
			continue
		}
		total, err := strconv.Atoi(digits)
		if err != nil {
			log.Debug().Str("strategy", s.name).Str("raw", raw).Msg("Match did not form a number")
			continue
		}
		log.Debug().Str("strategy", s.name).Int("total", total).Msg("Extracted mod total")
		return total, nil
	}
	return 0, ErrNoTotal
}

func findSeeAll(page string) (string, bool) {
	return submatch(seeAllPattern, page)
}

func findShowing(page string) (string, bool) {
	return submatch(showingPattern, page)
}

func submatch(re *regexp.Regexp, page string) (string, bool) {
	m := re.FindStringSubmatch(page)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// findResultsCounter reads the #searchResults_total element from full HTML
// pages where the textual banners are absent.
func findResultsCounter(page string) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return "", false
	}
	text := strings.TrimSpace(doc.Find("#searchResults_total").First().Text())
	if text == "" {
		return "", false
	}
	return text, true
}
