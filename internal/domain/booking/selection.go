package booking

import (
	"fmt"
	"strings"
	"time"
)

// Slot is one row of the site's tee time search results.
type Slot struct {
	Time      string // as displayed by the site, e.g. "08:00 am"
	Available bool
	Course    string
	Holes     string
}

// TimeVariants expands an HH:MM 24-hour tee time into the display
// formats the site has been observed to use. Order matters: the most
// common rendering comes first.
func TimeVariants(teeTime string) []string {
	t, err := time.Parse("15:04", teeTime)
	if err != nil {
		return []string{teeTime}
	}
	hour := t.Hour()
	minute := t.Format("04")
	period := "am"
	if hour >= 12 {
		period = "pm"
	}
	display := hour % 12
	if display == 0 {
		display = 12
	}
	return []string{
		fmt.Sprintf("%02d:%s %s", display, minute, period),
		fmt.Sprintf("%d:%s %s", display, minute, period),
		fmt.Sprintf("%02d:%s %s", display, minute, strings.ToUpper(period)),
		fmt.Sprintf("%d:%s %s", display, minute, strings.ToUpper(period)),
		teeTime,
	}
}

// MatchSlot returns the first available slot whose displayed time equals
// any rendering of teeTime. First variant match wins; later variants are
// not consulted once one matches.
func MatchSlot(teeTime string, slots []Slot) (Slot, bool) {
	if len(slots) == 0 {
		return Slot{}, false
	}
	byTime := make(map[string]Slot, len(slots))
	for _, s := range slots {
		if !s.Available {
			continue
		}
		k := strings.ToLower(strings.TrimSpace(s.Time))
		if _, ok := byTime[k]; !ok {
			byTime[k] = s
		}
	}
	for _, v := range TimeVariants(teeTime) {
		if s, ok := byTime[strings.ToLower(v)]; ok {
			return s, true
		}
	}
	return Slot{}, false
}
