package schedule

import (
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	xhtml "golang.org/x/net/html"
)

var whitespace = regexp.MustCompile(`\s+`)

// CleanText decodes HTML entities and collapses runs of whitespace into
// single spaces. Both extraction strategies normalize text through this
// one function so that dedup keys are identical regardless of which
// layout produced an event.
func CleanText(s string) string {
	s = html.UnescapeString(s)
	s = whitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// selectionText extracts the text of a selection with a space inserted
// between adjacent text nodes, so that sibling elements inside a cell
// ("Cálculo I" next to "Sala 301") do not run together. goquery's Text()
// concatenates nodes without separators.
func selectionText(sel *goquery.Selection) string {
	var parts []string
	for _, n := range sel.Nodes {
		collectText(n, &parts)
	}
	return CleanText(strings.Join(parts, " "))
}

func collectText(n *xhtml.Node, parts *[]string) {
	if n.Type == xhtml.TextNode {
		if t := strings.TrimSpace(n.Data); t != "" {
			*parts = append(*parts, t)
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}

// headerDay extracts the day-of-month from a weekday header such as
// "Lunes 04": the trailing 1-2 digit number, falling back to any
// standalone 1-2 digit number in the text. Returns 0 when none is found.
func headerDay(s string) int {
	if m := trailingDayPattern.FindStringSubmatch(s); m != nil {
		return atoiSafe(m[1])
	}
	if m := anyDayPattern.FindStringSubmatch(s); m != nil {
		return atoiSafe(m[1])
	}
	return 0
}

// trailingDay is the strict variant used for mobile day titles, which
// always end in the day number.
func trailingDay(s string) int {
	if m := trailingDayPattern.FindStringSubmatch(s); m != nil {
		return atoiSafe(m[1])
	}
	return 0
}

var (
	trailingDayPattern = regexp.MustCompile(`(\d{1,2})$`)
	anyDayPattern      = regexp.MustCompile(`\b(\d{1,2})\b`)
)

func atoiSafe(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}
