package webtrac

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/example/teebooker/internal/domain/booking"
)

var (
	timePattern  = regexp.MustCompile(`(?i)\b\d{1,2}:\d{2}\s*[ap]m\b`)
	spacePattern = regexp.MustCompile(`\s+`)
)

func normalizeSpace(s string) string {
	return strings.TrimSpace(spacePattern.ReplaceAllString(s, " "))
}

// ParseSlots extracts tee time rows from the search results table HTML.
// Header rows and rows without a recognizable clock time are skipped.
func ParseSlots(html string) ([]booking.Slot, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse results table: %w", err)
	}

	var slots []booking.Slot
	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		if row.Find("th").Length() > 0 {
			return
		}
		text := normalizeSpace(row.Text())
		// WebTrac sometimes renders the header with plain td cells
		if strings.Contains(text, "Time") && strings.Contains(text, "Holes") && strings.Contains(text, "Course") {
			return
		}
		clock := timePattern.FindString(text)
		if clock == "" {
			return
		}

		slot := booking.Slot{
			Time: strings.ToLower(normalizeSpace(clock)),
			// "Unavailable" contains "Available"; rule it out first
			Available: strings.Contains(text, "Available") && !strings.Contains(text, "Unavailable"),
		}
		// cells: add-to-cart icon, time, holes, course, status
		cells := row.Find("td")
		if cells.Length() >= 4 {
			slot.Holes = normalizeSpace(cells.Eq(2).Text())
			slot.Course = normalizeSpace(cells.Eq(3).Text())
		}
		slots = append(slots, slot)
	})
	return slots, nil
}
