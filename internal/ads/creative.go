package ads

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Creative is the text content of an interstitial ad.
type Creative struct {
	Headline     string
	Body         string
	CallToAction string
	ClickURL     string
}

// Empty reports whether the creative has nothing to show.
func (c Creative) Empty() bool {
	return c.Headline == "" && c.Body == ""
}

// ParseCreative extracts a Creative from the HTML markup served by the ad
// server. It accepts class-tagged markup (.headline, .body, .cta) and falls
// back to the first heading, paragraphs and link.
func ParseCreative(r io.Reader) (Creative, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Creative{}, fmt.Errorf("parse creative: %w", err)
	}

	root := doc.Find(".interstitial").First()
	if root.Length() == 0 {
		root = doc.Selection
	}

	var c Creative
	c.Headline = firstText(root, ".headline", "h1", "h2")

	body := root.Find(".body")
	if body.Length() == 0 {
		body = root.Find("p")
	}
	var parts []string
	body.Each(func(_ int, s *goquery.Selection) {
		if t := squash(s.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	c.Body = strings.Join(parts, "\n")

	link := root.Find("a.cta").First()
	if link.Length() == 0 {
		link = root.Find("a[href]").First()
	}
	c.CallToAction = squash(link.Text())
	c.ClickURL, _ = link.Attr("href")

	return c, nil
}

func firstText(sel *goquery.Selection, selectors ...string) string {
	for _, q := range selectors {
		if t := squash(sel.Find(q).First().Text()); t != "" {
			return t
		}
	}
	return ""
}

// squash collapses runs of whitespace to single spaces.
func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
