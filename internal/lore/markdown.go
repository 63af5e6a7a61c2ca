package lore

import (
	"path/filepath"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// MarkdownExtractor converts markdown campaign files into plain text using
// goldmark AST parsing, so the chunker never sees formatting syntax.
type MarkdownExtractor struct {
	parser goldmark.Markdown
}

// NewMarkdownExtractor creates a new markdown extractor.
func NewMarkdownExtractor() *MarkdownExtractor {
	return &MarkdownExtractor{
		parser: goldmark.New(
			goldmark.WithExtensions(extension.Table),
		),
	}
}

// Extract parses markdown content and returns the document title and its
// plain-text body. Paragraph breaks are preserved as blank lines, which the
// chunker relies on for boundary search.
func (e *MarkdownExtractor) Extract(content []byte, filename string) (title, plain string) {
	if len(content) == 0 {
		return titleFromFilename(filename), ""
	}

	reader := text.NewReader(content)
	doc := e.parser.Parser().Parse(reader)

	title = extractTitle(doc, content, filename)
	plain = flattenToText(doc, content)
	return title, plain
}

// extractTitle picks the document title: first level-1 heading, else first
// level-2 heading, else the filename.
func extractTitle(doc ast.Node, content []byte, filename string) string {
	var firstH1, firstH2 string

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		headingText := nodeText(heading, content)
		if heading.Level == 1 && firstH1 == "" {
			firstH1 = headingText
		} else if heading.Level == 2 && firstH2 == "" && firstH1 == "" {
			firstH2 = headingText
		}
		if firstH1 != "" {
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})

	if firstH1 != "" {
		return firstH1
	}
	if firstH2 != "" {
		return firstH2
	}
	return titleFromFilename(filename)
}

// titleFromFilename derives a title by dropping the extension and
// capitalizing each word.
func titleFromFilename(filename string) string {
	name := filepath.Base(filename)
	ext := filepath.Ext(name)
	if ext != "" {
		name = name[:len(name)-len(ext)]
	}
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)

	words := strings.Fields(name)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// flattenToText walks the AST and collects the readable text, inserting a
// blank line between block-level nodes.
func flattenToText(doc ast.Node, content []byte) string {
	var sb strings.Builder

	blockBreak := func() {
		if sb.Len() > 0 && !strings.HasSuffix(sb.String(), "\n\n") {
			if strings.HasSuffix(sb.String(), "\n") {
				sb.WriteString("\n")
			} else {
				sb.WriteString("\n\n")
			}
		}
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading, *ast.Paragraph, *ast.Blockquote:
			blockBreak()
			return ast.WalkContinue, nil

		case *ast.ListItem:
			if sb.Len() > 0 && !strings.HasSuffix(sb.String(), "\n") {
				sb.WriteString("\n")
			}
			return ast.WalkContinue, nil

		case *ast.Text:
			segment := node.Segment
			sb.Write(segment.Value(content))
			if node.SoftLineBreak() || node.HardLineBreak() {
				sb.WriteString("\n")
			}
			return ast.WalkContinue, nil

		case *ast.String:
			sb.Write(node.Value)
			return ast.WalkContinue, nil

		case *ast.CodeBlock:
			blockBreak()
			writeCodeLines(&sb, node, content)
			return ast.WalkSkipChildren, nil

		case *ast.FencedCodeBlock:
			blockBreak()
			writeCodeLines(&sb, node, content)
			return ast.WalkSkipChildren, nil

		default:
			// Table rows render as "cell | cell" lines.
			kindName := n.Kind().String()
			if strings.Contains(kindName, "TableRow") || strings.Contains(kindName, "TableHeader") {
				if sb.Len() > 0 && !strings.HasSuffix(sb.String(), "\n") {
					sb.WriteString("\n")
				}
				sb.WriteString(tableRowText(n, content))
				sb.WriteString("\n")
				return ast.WalkSkipChildren, nil
			}
			return ast.WalkContinue, nil
		}
	})

	return strings.TrimSpace(sb.String())
}

// writeCodeLines appends the raw lines of a code block.
func writeCodeLines(sb *strings.Builder, n ast.Node, content []byte) {
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		sb.Write(line.Value(content))
	}
}

// nodeText extracts the text content of a node and its children.
func nodeText(n ast.Node, content []byte) string {
	var sb strings.Builder

	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := node.(type) {
		case *ast.Text:
			sb.Write(v.Segment.Value(content))
		case *ast.String:
			sb.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(sb.String())
}

// tableRowText extracts a table row as pipe-separated cell text.
func tableRowText(row ast.Node, content []byte) string {
	var sb strings.Builder
	cells := 0

	_ = ast.Walk(row, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if strings.Contains(node.Kind().String(), "TableCell") {
			if cells > 0 {
				sb.WriteString(" | ")
			}
			sb.WriteString(nodeText(node, content))
			cells++
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return sb.String()
}
