package schedule

import (
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"sigacal/internal/log"
	"sigacal/internal/model"
)

// Selectors for the schedule block inside Resumen Académico.
const (
	selScheduleTable  = "#horario-table"
	selRangeLabel     = ".card-header label.h3"
	selMobileArticles = "#scheduleMob .schedule article"
	selMobileTitle    = ".schedule-title"
	selMobileItems    = ".schedule-item-list > *"
)

// noClassMarker prefixes cells that represent an empty slot ("Sin clases").
const noClassMarker = "sin clases"

// rangeLabelProbe recovers the range label from anywhere in the document
// when the primary selector yields no text.
var rangeLabelProbe = regexp.MustCompile(`(?i)\d{2}\s*-\s*\d{2}\s+[a-zñ.]+\s+\d{4}`)

// Strategy extracts raw events from one week's parsed snapshot. A nil
// error with zero events means "this layout is not present"; the caller
// then tries the next strategy.
type Strategy struct {
	Name    string
	Extract func(doc *goquery.Document, label model.WeekLabel) ([]model.RawEvent, error)
}

// Strategies returns the ordered strategy list: desktop table first,
// mobile list as the only fallback. They are alternates over the same
// underlying data and are never merged.
func Strategies() []Strategy {
	return []Strategy{
		{Name: "desktop", Extract: extractDesktop},
		{Name: "mobile", Extract: extractMobile},
	}
}

// ExtractWeek parses one week's markup snapshot and runs the strategies
// in order until one yields events. An unreadable range label is fatal
// for the week: without the month/year anchor no day number can be
// resolved by either layout.
func ExtractWeek(htmlSnapshot string) ([]model.RawEvent, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlSnapshot))
	if err != nil {
		return nil, err
	}

	label, err := ParseWeekRange(findRangeLabel(doc))
	if err != nil {
		return nil, err
	}

	for _, st := range Strategies() {
		events, err := st.Extract(doc, label)
		if err != nil {
			return nil, err
		}
		if len(events) > 0 {
			log.Debug("week extracted", "strategy", st.Name, "events", len(events))
			return events, nil
		}
		log.Info("strategy yielded no events, trying next", "strategy", st.Name)
	}

	return nil, nil
}

// findRangeLabel returns the raw text of the weekly range label. The
// primary card-header selector is tried first; if it yields no text the
// whole document is probed for range-shaped text.
func findRangeLabel(doc *goquery.Document) string {
	if sel := doc.Find(selRangeLabel).First(); sel.Length() > 0 {
		if txt := CleanText(sel.Text()); txt != "" {
			return txt
		}
	}
	return rangeLabelProbe.FindString(doc.Text())
}

// extractDesktop parses the tabular layout. Returning (nil, nil) when the
// table or its header row is absent is the caller-visible signal to try
// the mobile fallback.
func extractDesktop(doc *goquery.Document, label model.WeekLabel) ([]model.RawEvent, error) {
	table := doc.Find(selScheduleTable).First()
	if table.Length() == 0 {
		return nil, nil
	}

	headerRow := table.Find("thead tr").First()
	if headerRow.Length() == 0 {
		return nil, nil
	}

	// Header cells minus the first (time-axis) column map 1:1 to weekday
	// columns. Unparsable headers leave a nil entry; per-cell resolution
	// then re-derives from the header text as a last resort.
	var headers []string
	var dates []*time.Time
	headerRow.Find("th, td").Each(func(i int, cell *goquery.Selection) {
		if i == 0 {
			return
		}
		txt := selectionText(cell)
		headers = append(headers, txt)
		if day := headerDay(txt); day > 0 {
			d := label.Date(day)
			dates = append(dates, &d)
		} else {
			dates = append(dates, nil)
		}
	})

	var events []model.RawEvent
	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td, th")
		if cells.Length() == 0 {
			return
		}

		start, end, err := ParseTimeBlock(selectionText(cells.Eq(0)))
		if err != nil {
			// Spacer or legend row; not a time block.
			return
		}

		for idx := 1; idx < cells.Length(); idx++ {
			content := selectionText(cells.Eq(idx))
			if content == "" || strings.HasPrefix(strings.ToLower(content), noClassMarker) {
				continue
			}

			date := resolveColumnDate(label, headers, dates, idx-1)
			if date == nil {
				// Lossy on purpose: one malformed cell must not abort
				// the week.
				log.Debug("dropping cell with unresolvable date", "column", idx)
				continue
			}

			events = append(events, model.RawEvent{
				Date:        *date,
				Start:       start,
				End:         end,
				Title:       splitTitle(content),
				Description: content,
			})
		}
	})

	return events, nil
}

// resolveColumnDate resolves a weekday column to a date. The pre-built
// column map is the source of truth; re-deriving from the header text
// happens only when the map entry was never populated.
func resolveColumnDate(label model.WeekLabel, headers []string, dates []*time.Time, col int) *time.Time {
	if col < len(dates) && dates[col] != nil {
		return dates[col]
	}
	if col < len(headers) {
		if day := headerDay(headers[col]); day > 0 {
			d := label.Date(day)
			return &d
		}
	}
	return nil
}

// extractMobile parses the list-based fallback layout: one article per
// day, each with a trailing day number in its title and a list of
// "HH:MM - HH:MM content" items.
func extractMobile(doc *goquery.Document, label model.WeekLabel) ([]model.RawEvent, error) {
	var events []model.RawEvent

	doc.Find(selMobileArticles).Each(func(_ int, article *goquery.Selection) {
		titleSel := article.Find(selMobileTitle).First()
		if titleSel.Length() == 0 {
			return
		}
		day := trailingDay(selectionText(titleSel))
		if day == 0 {
			return
		}
		date := label.Date(day)

		article.Find(selMobileItems).Each(func(_ int, item *goquery.Selection) {
			txt := selectionText(item)
			if txt == "" {
				return
			}

			m := mobileItemPattern.FindStringSubmatch(txt)
			if m == nil {
				return
			}
			start, end, err := ParseTimeBlock(txt)
			if err != nil {
				return
			}

			content := strings.TrimSpace(m[3])
			if content == "" || strings.HasPrefix(strings.ToLower(content), noClassMarker) {
				return
			}

			events = append(events, model.RawEvent{
				Date:        date,
				Start:       start,
				End:         end,
				Title:       splitTitle(content),
				Description: content,
			})
		})
	})

	return events, nil
}

var mobileItemPattern = regexp.MustCompile(`^(\d{1,2}:\d{2})\s*-\s*(\d{1,2}:\d{2})\s+(.+)$`)

// splitTitle returns the first " / "-delimited segment of the cleaned
// cell text, or the full text when no non-empty segment exists.
func splitTitle(content string) string {
	for _, part := range strings.Split(content, " / ") {
		if p := strings.TrimSpace(part); p != "" {
			return p
		}
	}
	return content
}
