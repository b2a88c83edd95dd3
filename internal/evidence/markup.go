package evidence

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Every sub-segment travels in its own paragraph so that the translated
// document can be split back into the same number of pieces.
const (
	docOpen    = "<html>"
	docClose   = "</html>"
	pieceOpen  = "<p>"
	pieceClose = "</p>"
)

// Encode wraps each piece in a <p> element inside a single <html> document.
func Encode(pieces []string) string {
	var sb strings.Builder
	sb.WriteString(docOpen)
	for _, p := range pieces {
		sb.WriteString(pieceOpen)
		sb.WriteString(html.EscapeString(p))
		sb.WriteString(pieceClose)
	}
	sb.WriteString(docClose)
	return sb.String()
}

// EncodedLen returns the rune length Encode would produce for pieces.
func EncodedLen(pieces []string) int {
	n := utf8.RuneCountInString(docOpen) + utf8.RuneCountInString(docClose)
	for _, p := range pieces {
		n += pieceLen(p)
	}
	return n
}

func pieceLen(p string) int {
	return utf8.RuneCountInString(pieceOpen) + utf8.RuneCountInString(html.EscapeString(p)) + utf8.RuneCountInString(pieceClose)
}

// Decode parses a translated document and returns the trimmed text of every
// <p> element in document order. Character references, numeric or named, are
// always decoded by the parser. A document without paragraphs yields its
// whole text as a single piece, and an empty document yields none.
func Decode(markup string) ([]string, error) {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, err
	}

	var pieces []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.P {
			pieces = append(pieces, strings.TrimSpace(textContent(n)))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if pieces != nil {
		return pieces, nil
	}
	if text := strings.TrimSpace(textContent(doc)); text != "" {
		return []string{text}, nil
	}
	return nil, nil
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var collect func(n *html.Node)
	collect = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(n.Data)
		case html.ElementNode:
			if n.DataAtom == atom.Br {
				sb.WriteByte(' ')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return sb.String()
}
