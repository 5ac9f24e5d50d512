// Package markup turns paragraph markup from the content API into plain text.
package markup

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Fragment is the plain-text view of one markup paragraph.
type Fragment struct {
	// Paragraph is the text with tags, footnote markers and the verse label removed.
	Paragraph string
	// VerseNumber is the verse label, nil when the fragment has none.
	VerseNumber *string
	// AID is the paragraph's data-aid attribute, empty when absent.
	AID string
}

// Extract parses a markup fragment. Superscript elements (footnote letters)
// are dropped; a .verse-number element is split out into VerseNumber.
func Extract(fragment string) (Fragment, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return Fragment{}, fmt.Errorf("parse fragment: %w", err)
	}

	doc.Find("sup").Remove()

	var out Fragment
	if label := doc.Find(".verse-number").First(); label.Length() > 0 {
		v := strings.TrimSpace(label.Text())
		out.VerseNumber = &v
		label.Remove()
	}
	if aid, ok := doc.Find("[data-aid]").First().Attr("data-aid"); ok {
		out.AID = aid
	}
	out.Paragraph = strings.TrimSpace(doc.Text())
	return out, nil
}

// PlainText returns only the paragraph text of fragment.
func PlainText(fragment string) (string, error) {
	f, err := Extract(fragment)
	if err != nil {
		return "", err
	}
	return f.Paragraph, nil
}
