package ytvideodata

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

type page struct {
	doc *html.Node
}

func parsePage(r io.Reader) (*page, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	return &page{doc: doc}, nil
}

func (p *page) title() string {
	return getTitle(p.doc)
}

// decodeVar finds the inline script assigning the object literal to name
// and decodes that object into v.
func (p *page) decodeVar(name string, v any) error {
	var found bool
	var decodeErr error

	walk(p.doc, func(n *html.Node) bool {
		if n.Type != html.ElementNode || n.Data != "script" || n.FirstChild == nil {
			return false
		}

		script := n.FirstChild.Data
		idx := strings.Index(script, name)
		if idx < 0 {
			return false
		}

		rest := script[idx+len(name):]
		start := strings.IndexByte(rest, '{')
		if start < 0 {
			return false
		}

		found = true
		// Decoder stops after the first value, trailing statements are ignored.
		decodeErr = json.NewDecoder(strings.NewReader(rest[start:])).Decode(v)
		return true
	})

	if !found {
		return fmt.Errorf("%w: %s not found", ErrUnexpectedPage, name)
	}
	if decodeErr != nil {
		return fmt.Errorf("%w: %w", ErrUnexpectedPage, decodeErr)
	}

	return nil
}

// walk visits nodes depth first until visit returns true.
func walk(n *html.Node, visit func(*html.Node) bool) bool {
	if visit(n) {
		return true
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if walk(c, visit) {
			return true
		}
	}
	return false
}

func getTitle(n *html.Node) string {
	var title string
	walk(n, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "title" && n.FirstChild != nil {
			title = strings.TrimSuffix(n.FirstChild.Data, " - YouTube")
			return true
		}
		return false
	})
	return title
}
