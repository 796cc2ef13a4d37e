package sms

import (
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// Prefix ranges that accept SMS delivery on the mainland networks. 16x
// numbers are data-only plans and bounce, so they are not listed.
var mobilePrefixes = []string{"13", "14", "15", "17", "18", "19"}

// LoadPhones reads the subscriber list: one number per line, blank lines and
// #-comments ignored, separator punctuation stripped. Invalid entries are
// logged and skipped. Duplicates collapse and the result is sorted so the
// send order is stable run to run. A missing file means no subscribers.
func LoadPhones(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debug().Str("path", path).Msg("Phone list not found, SMS has no recipients")
		} else {
			log.Warn().Err(err).Str("path", path).Msg("Could not read phone list")
		}
		return nil
	}
	return parsePhones(string(data))
}

func parsePhones(data string) []string {
	seen := make(map[string]struct{})
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		num := digitsOf(line)
		if !validMobile(num) {
			log.Warn().Str("entry", line).Msg("Skipping invalid phone number")
			continue
		}
		seen[num] = struct{}{}
	}

	phones := make([]string, 0, len(seen))
	for num := range seen {
		phones = append(phones, num)
	}
	sort.Strings(phones)
	return phones
}

func digitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func validMobile(num string) bool {
	if len(num) != 11 {
		return false
	}
	for _, p := range mobilePrefixes {
		if strings.HasPrefix(num, p) {
			return true
		}
	}
	return false
}
