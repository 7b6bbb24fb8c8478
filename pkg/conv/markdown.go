// Package conv renders provider answers, which are usually markdown, for
// the output surfaces.
package conv

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/inbucket/html2text"
	"github.com/microcosm-cc/bluemonday"
)

var (
	extensions = parser.CommonExtensions | parser.NoEmptyLineBeforeBlock
	htmlFlags  = html.CommonFlags | html.HrefTargetBlank
	tgPolicy   = bluemonday.NewPolicy()

	blankLines = regexp.MustCompile(`\n{3,}`)
)

func init() {
	// https://core.telegram.org/bots/api#html-style
	tgPolicy.AllowElements("b", "strong", "i", "em", "u", "ins", "s", "strike", "del", "code", "pre", "blockquote")
	tgPolicy.AllowAttrs("href").OnElements("a")
	tgPolicy.AllowAttrs("class").OnElements("code")
}

func renderHTML(md []byte) []byte {
	p := parser.NewWithExtensions(extensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: htmlFlags})
	return markdown.Render(p.Parse(md), renderer)
}

// MarkdownToTelegramHTML renders md and keeps only the tags Telegram's
// HTML parse mode accepts.
func MarkdownToTelegramHTML(md []byte) string {
	return string(tgPolicy.SanitizeBytes(renderHTML(md)))
}

// MarkdownToPlainText renders md as terminal text. Emphasis and heading
// markers are dropped, list items get a dash and links keep their target.
// Raw HTML inside md is reduced to its text.
func MarkdownToPlainText(md []byte) (string, error) {
	if len(md) == 0 {
		return "", nil
	}
	doc := parser.NewWithExtensions(extensions).Parse(md)

	var (
		sb        strings.Builder
		linkStart int
		walkErr   error
	)
	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		switch n := node.(type) {
		case *ast.Text:
			sb.Write(n.Literal)
		case *ast.Code:
			sb.Write(n.Literal)
		case *ast.CodeBlock:
			sb.Write(n.Literal)
			sb.WriteString("\n\n")
		case *ast.HTMLSpan, *ast.HTMLBlock:
			text, err := html2text.FromString(string(node.AsLeaf().Literal), html2text.Options{TextOnly: true})
			if err != nil {
				walkErr = err
				return ast.Terminate
			}
			sb.WriteString(text)
		case *ast.Hardbreak:
			sb.WriteByte('\n')
		case *ast.Link:
			if entering {
				linkStart = sb.Len()
			} else if dest := string(n.Destination); dest != "" && dest != sb.String()[linkStart:] {
				sb.WriteString(" (" + dest + ")")
			}
		case *ast.ListItem:
			if entering {
				sb.WriteString("- ")
			} else if !strings.HasSuffix(sb.String(), "\n") {
				sb.WriteByte('\n')
			}
		case *ast.List:
			if !entering {
				sb.WriteByte('\n')
			}
		case *ast.Paragraph:
			if entering {
				break
			}
			if _, inItem := n.GetParent().(*ast.ListItem); inItem {
				sb.WriteByte('\n')
			} else {
				sb.WriteString("\n\n")
			}
		case *ast.Heading:
			if !entering {
				sb.WriteString("\n\n")
			}
		case *ast.TableCell:
			if !entering {
				sb.WriteString("  ")
			}
		case *ast.TableRow:
			if !entering {
				sb.WriteByte('\n')
			}
		}
		return ast.GoToNext
	})
	if walkErr != nil {
		return "", walkErr
	}

	text := blankLines.ReplaceAllString(sb.String(), "\n\n")
	return strings.TrimSpace(text), nil
}

// Truncate cuts s to at most limit runes, marking the cut with an ellipsis.
func Truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	if limit == 1 {
		return "…"
	}
	runes := []rune(s)
	return string(runes[:limit-1]) + "…"
}
