package ingest

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// CleanText drops markup, applies NFKC and collapses whitespace.
func CleanText(s string) string {
	if strings.ContainsRune(s, '<') {
		s = stripHTML(s)
	}
	s = norm.NFKC.String(s)
	return strings.Join(strings.Fields(s), " ")
}

func stripHTML(s string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	doc.Find("script, style").Remove()
	// keep words in adjacent block elements apart
	doc.Find("br, p, div, li, h1, h2, h3, h4, td").Each(func(_ int, sel *goquery.Selection) {
		sel.AppendHtml(" ")
	})
	return doc.Text()
}

// fold lowercases and strips diacritics so "Zomató" matches "zomato".
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}
