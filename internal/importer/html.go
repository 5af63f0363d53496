package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/nikbrunner/logbook/internal/model"
	"golang.org/x/net/html"
)

// dataLiteral finds the start of the embedded entry array in a standalone export.
var dataLiteral = regexp.MustCompile(`(?:const|let|var)\s+(?:entryData|blogData)\s*=\s*`)

// ParseHTML recovers entries from a standalone export. The embedded data
// literal is preferred; without one, visible entry blocks are scraped.
func ParseHTML(r io.Reader) (Payload, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrFormat, err)
	}

	for _, script := range findAll(doc, func(n *html.Node) bool { return n.Data == "script" }) {
		entries, ok, err := decodeLiteral(getTextContent(script))
		if err != nil {
			return Payload{}, err
		}
		if ok {
			return Payload{Entries: entries, Tags: tagsOf(entries), Source: SourceHTMLData}, nil
		}
	}

	entries := scrapeEntries(doc, time.Now())
	if len(entries) == 0 {
		return Payload{}, fmt.Errorf("%w: no embedded data or entry blocks found", ErrFormat)
	}
	return Payload{Entries: entries, Tags: tagsOf(entries), Source: SourceHTMLScrape}, nil
}

// decodeLiteral decodes the single JSON array following the data literal
// marker. Decoding stops at the end of the array, so content containing
// "];" does not truncate it.
func decodeLiteral(script string) ([]model.Entry, bool, error) {
	loc := dataLiteral.FindStringIndex(script)
	if loc == nil {
		return nil, false, nil
	}

	var entries []model.Entry
	dec := json.NewDecoder(strings.NewReader(script[loc[1]:]))
	if err := dec.Decode(&entries); err != nil {
		return nil, false, fmt.Errorf("%w: embedded data: %v", ErrFormat, err)
	}
	return entries, true, nil
}

// scrapeEntries builds entries from rendered blocks. Ids and timestamps are
// synthesized.
func scrapeEntries(doc *html.Node, now time.Time) []model.Entry {
	var entries []model.Entry

	blocks := findAll(doc, func(n *html.Node) bool {
		return hasClass(n, "entry") || hasClass(n, "blog-post")
	})
	for _, block := range blocks {
		e := model.Entry{
			ID:       model.NewID(),
			Content:  firstText(block, "entry-content", "post-content"),
			Title:    firstText(block, "entry-title", "post-title"),
			Tags:     []string{},
			Created:  now,
			Datetime: now,
		}
		for _, tag := range findAll(block, func(n *html.Node) bool {
			return hasClass(n, "entry-tag") || hasClass(n, "post-tag")
		}) {
			e.Tags = append(e.Tags, getTextContent(tag))
		}
		e.Tags = model.NormalizeTags(e.Tags)

		if e.Content == "" && e.Title == "" {
			continue
		}
		entries = append(entries, e)
	}
	return entries
}

func tagsOf(entries []model.Entry) []string {
	var tags []string
	for _, e := range entries {
		tags = append(tags, e.Tags...)
	}
	return model.NormalizeTags(tags)
}

// findAll returns the element nodes below n matching pred, in document order.
// Matches are not searched further.
func findAll(n *html.Node, pred func(*html.Node) bool) []*html.Node {
	var found []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && pred(n) {
			found = append(found, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return found
}

// firstText returns the text of the first descendant carrying any of the classes.
func firstText(n *html.Node, classes ...string) string {
	matches := findAll(n, func(n *html.Node) bool {
		for _, class := range classes {
			if hasClass(n, class) {
				return true
			}
		}
		return false
	})
	if len(matches) == 0 {
		return ""
	}
	return getTextContent(matches[0])
}

// hasClass reports whether the class attribute contains class as a token.
func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(getAttr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// getTextContent returns the text content of a node.
func getTextContent(n *html.Node) string {
	var text bytes.Buffer
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(text.String())
}

// getAttr returns the value of an attribute, case-insensitive.
func getAttr(n *html.Node, key string) string {
	key = strings.ToLower(key)
	for _, attr := range n.Attr {
		if strings.ToLower(attr.Key) == key {
			return attr.Val
		}
	}
	return ""
}
