package notify

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// BookingRequest is a natural-language booking message parsed into
// structured values, e.g. "tomorrow 2pm 1 player", "02/08 10:00 am 2
// players", "saturday 7am", "what's available today".
type BookingRequest struct {
	Date       time.Time // midnight, local
	TeeTime    string    // HH:MM, 24h
	Players    int
	SearchOnly bool
}

var (
	searchKeywords = []string{"available", "what's", "whats", "search", "show", "list", "check"}
	weekdayNames   = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

	datePattern      = regexp.MustCompile(`(\d{1,2})/(\d{1,2})(?:/(\d{2,4}))?`)
	time12Pattern    = regexp.MustCompile(`(\d{1,2})(?::(\d{2}))?\s*(am|pm)\b`)
	time24Pattern    = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)
	playersPattern   = regexp.MustCompile(`(\d)\s*player`)
	loneDigitPattern = regexp.MustCompile(`\b([1-4])\b`)
)

// ParseBookingRequest interprets a booking message against the given
// wall clock. A message with no recognizable time is treated as a
// search request. Players defaults to 1.
func ParseBookingRequest(text string, now time.Time) BookingRequest {
	text = strings.ToLower(strings.TrimSpace(text))
	req := BookingRequest{Players: 1}

	for _, kw := range searchKeywords {
		if strings.Contains(text, kw) {
			req.SearchOnly = true
			break
		}
	}

	req.Date = parseDate(text, now)
	req.TeeTime = parseTime(text)
	if req.TeeTime == "" {
		req.TeeTime = "08:00"
		req.SearchOnly = true
	}
	req.Players = parsePlayers(text)
	return req
}

func parseDate(text string, now time.Time) time.Time {
	switch {
	case strings.Contains(text, "tomorrow"):
		return midnight(now.AddDate(0, 0, 1))
	case strings.Contains(text, "today"):
		return midnight(now)
	}

	// weekday name: "saturday", or "sat" as its own word
	words := strings.Fields(text)
	for i, name := range weekdayNames {
		if strings.Contains(text, name) || containsWord(words, name[:3]) {
			// weekdayNames is Monday-based
			current := (int(now.Weekday()) + 6) % 7
			ahead := ((i - current) % 7 + 7) % 7
			if ahead == 0 {
				ahead = 7 // same day means next week
			}
			return midnight(now.AddDate(0, 0, ahead))
		}
	}

	if m := datePattern.FindStringSubmatch(text); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		year := now.Year()
		if m[3] != "" {
			year, _ = strconv.Atoi(m[3])
			if year < 100 {
				year += 2000
			}
		}
		return time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location())
	}

	// no date given: tomorrow
	return midnight(now.AddDate(0, 0, 1))
}

func parseTime(text string) string {
	if m := time12Pattern.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		if m[3] == "pm" && hour != 12 {
			hour += 12
		} else if m[3] == "am" && hour == 12 {
			hour = 0
		}
		return fmt.Sprintf("%02d:%02d", hour, minute)
	}
	if m := time24Pattern.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour <= 23 {
			return fmt.Sprintf("%02d:%02d", hour, minute)
		}
	}
	return ""
}

func parsePlayers(text string) int {
	if m := playersPattern.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n
	}
	// a standalone 1-4 counts, unless it sits inside a time or date
	if loc := loneDigitPattern.FindStringSubmatchIndex(text); loc != nil {
		pos := loc[2]
		lo := pos - 2
		if lo < 0 {
			lo = 0
		}
		hi := pos + 3
		if hi > len(text) {
			hi = len(text)
		}
		surrounding := text[lo:hi]
		if !strings.ContainsAny(surrounding, ":/") &&
			!strings.Contains(surrounding, "am") && !strings.Contains(surrounding, "pm") {
			n, _ := strconv.Atoi(text[loc[2]:loc[3]])
			return n
		}
	}
	return 1
}

func containsWord(words []string, w string) bool {
	for _, x := range words {
		if x == w {
			return true
		}
	}
	return false
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
