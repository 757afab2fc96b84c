package services

import (
	"bytes"
	"fmt"
	"html/template"
	"log"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

const codeStyle = "onedark"

// MarkdownRenderer turns assistant replies into HTML for the chat page.
// Raw HTML is dropped except <br>, which the test tables use inside cells.
type MarkdownRenderer struct {
	md goldmark.Markdown
}

func NewMarkdownRenderer() *MarkdownRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle(codeStyle),
				highlighting.WithFormatOptions(
					chromahtml.WithLineNumbers(false),
					chromahtml.TabWidth(4),
				),
				highlighting.WithWrapperRenderer(wrapCodeBlock),
			),
		),
		goldmark.WithParserOptions(
			parser.WithASTTransformers(util.Prioritized(&chatTransformer{}, 100)),
		),
		goldmark.WithRendererOptions(
			renderer.WithNodeRenderers(util.Prioritized(&chatNodeRenderer{}, 100)),
		),
	)
	return &MarkdownRenderer{md: md}
}

func (r *MarkdownRenderer) Render(content string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// MustRender is the template helper. On failure the content is shown
// escaped instead of breaking the page.
func (r *MarkdownRenderer) MustRender(content string) template.HTML {
	out, err := r.Render(content)
	if err != nil {
		log.Printf("Error rendering markdown: %v", err)
		return template.HTML("<pre>" + template.HTMLEscapeString(content) + "</pre>")
	}
	return out
}

// wrapCodeBlock adds the language header and copy button around fenced
// code that declares a language. Unhighlighted blocks need their own
// <pre><code> because the highlighter leaves that to the wrapper.
func wrapCodeBlock(w util.BufWriter, c highlighting.CodeBlockContext, entering bool) {
	lang, hasLang := c.Language()
	if entering {
		if hasLang {
			_, _ = w.WriteString(`<div class="code-block" data-lang="`)
			_, _ = w.Write(util.EscapeHTML(lang))
			_, _ = w.WriteString(`"><div class="code-header"><span class="code-lang">`)
			_, _ = w.Write(util.EscapeHTML(lang))
			_, _ = w.WriteString(`</span><button type="button" class="copy-button" data-copy>copy</button></div>`)
		}
		if !c.Highlighted() {
			_, _ = w.WriteString("<pre><code>")
		}
		return
	}
	if !c.Highlighted() {
		_, _ = w.WriteString("</code></pre>\n")
	}
	if hasLang {
		_, _ = w.WriteString("</div>\n")
	}
}

var (
	kindTableFrame = ast.NewNodeKind("TableFrame")
	kindCellBreak  = ast.NewNodeKind("CellBreak")
)

// tableFrame wraps a table so it can scroll horizontally inside a border.
type tableFrame struct {
	ast.BaseBlock
}

func (n *tableFrame) Kind() ast.NodeKind {
	return kindTableFrame
}

func (n *tableFrame) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

type cellBreak struct {
	ast.BaseInline
}

func (n *cellBreak) Kind() ast.NodeKind {
	return kindCellBreak
}

func (n *cellBreak) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

type chatTransformer struct{}

func (t *chatTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	source := reader.Source()
	var tables []*extast.Table
	var breaks []*ast.RawHTML

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *extast.Table:
			tables = append(tables, node)
		case *ast.Heading:
			if node.Level <= 2 {
				node.SetAttributeString("class", []byte(fmt.Sprintf("heading-%d", node.Level)))
			}
		case *ast.RawHTML:
			if isBreakTag(rawHTMLValue(node, source)) {
				breaks = append(breaks, node)
			}
		}
		return ast.WalkContinue, nil
	})

	for _, table := range tables {
		table.SetAttributeString("class", []byte("bordered"))
		frame := &tableFrame{}
		parent := table.Parent()
		parent.ReplaceChild(parent, table, frame)
		frame.AppendChild(frame, table)
	}
	for _, br := range breaks {
		parent := br.Parent()
		parent.ReplaceChild(parent, br, &cellBreak{})
	}
}

func rawHTMLValue(n *ast.RawHTML, source []byte) []byte {
	var buf bytes.Buffer
	for i := 0; i < n.Segments.Len(); i++ {
		segment := n.Segments.At(i)
		buf.Write(segment.Value(source))
	}
	return buf.Bytes()
}

func isBreakTag(tag []byte) bool {
	switch string(bytes.ToLower(bytes.TrimSpace(tag))) {
	case "<br>", "<br/>", "<br />":
		return true
	}
	return false
}

type chatNodeRenderer struct{}

func (r *chatNodeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(kindTableFrame, r.renderTableFrame)
	reg.Register(kindCellBreak, r.renderCellBreak)
}

func (r *chatNodeRenderer) renderTableFrame(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString("<div class=\"table-frame\">\n")
	} else {
		_, _ = w.WriteString("</div>\n")
	}
	return ast.WalkContinue, nil
}

func (r *chatNodeRenderer) renderCellBreak(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString("<br>")
	}
	return ast.WalkContinue, nil
}
