package httpcontroller

import (
	"html/template"
	"strings"
	"unicode/utf8"

	"github.com/k3a/html2text"
	"golang.org/x/net/html"

	"github.com/quiltring/quiltring/internal/roster"
)

const descriptionMaxLen = 160

// memberData assembles the template payload for a member page. The markup
// and stylesheet are inserted verbatim; members author their own content.
func (s *Server) memberData(slug string, content roster.PageContent) memberPageData {
	title := extractTitle(content.Markup)
	if title == "" {
		title = slugDisplayName(slug)
	}

	return memberPageData{
		Title:       title,
		AppName:     s.Settings.Main.Name,
		Slug:        slug,
		Description: pageDescription(content.Markup),
		Markup:      template.HTML(content.Markup),
		Stylesheet:  template.CSS(content.Stylesheet),
	}
}

// extractTitle pulls the document title out of member markup, falling back
// to the first h1 when no title element is present.
func extractTitle(markup string) string {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return ""
	}

	var title, heading string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if title == "" {
					title = strings.TrimSpace(textContent(n))
				}
			case "h1":
				if heading == "" {
					heading = strings.TrimSpace(textContent(n))
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if title != "" {
		return title
	}
	return heading
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// pageDescription derives a short plain-text summary from member markup for
// the meta description tag.
func pageDescription(markup string) string {
	text := html2text.HTML2Text(markup)
	text = strings.Join(strings.Fields(text), " ")
	if len(text) > descriptionMaxLen {
		cut := strings.LastIndex(text[:descriptionMaxLen], " ")
		if cut <= 0 {
			// No word boundary, back up to a rune boundary instead
			cut = descriptionMaxLen
			for cut > 0 && !utf8.RuneStart(text[cut]) {
				cut--
			}
		}
		text = text[:cut] + "…"
	}
	return text
}
