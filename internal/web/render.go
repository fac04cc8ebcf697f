package web

import (
	"bytes"
	"html"
	"html/template"
	"io"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"

	"minotes/internal/index"
)

// Renderer turns note markdown into sanitized HTML. Heading ids come from
// the same anchor generator the TOC uses, so in-page links always resolve.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func NewRenderer() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(
			renderer.WithNodeRenderers(util.Prioritized(&codeRenderer{}, 200)),
		),
	)
	return &Renderer{md: md, policy: sanitizePolicy()}
}

func (r *Renderer) Render(content string) (template.HTML, error) {
	ctx := parser.NewContext(parser.WithIDs(&anchorIDs{set: index.NewAnchorSet()}))
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(content), &buf, parser.WithContext(ctx)); err != nil {
		return "", err
	}
	return template.HTML(r.policy.SanitizeBytes(buf.Bytes())), nil
}

func sanitizePolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	p.AllowAttrs("class").OnElements("pre", "code", "span", "div")
	return p
}

// anchorIDs plugs the TOC anchor generator into goldmark's heading ids.
type anchorIDs struct {
	set *index.AnchorSet
}

func (a *anchorIDs) Generate(value []byte, kind ast.NodeKind) []byte {
	return []byte(a.set.Generate(string(value)))
}

func (a *anchorIDs) Put(value []byte) {}

var (
	chromaFormatter = chromahtml.New(chromahtml.WithClasses(true))
	chromaStyle     = styles.Get("github")
)

// codeRenderer replaces goldmark's fenced-code output with chroma
// highlighting. Unknown languages fall back to a plain block.
type codeRenderer struct{}

func (r *codeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderCode)
}

func (r *codeRenderer) renderCode(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)
	lang := string(n.Language(source))

	var code bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		code.Write(seg.Value(source))
	}

	if err := highlightCode(w, lang, code.String()); err != nil {
		_, _ = w.WriteString("<pre><code>")
		_, _ = w.WriteString(html.EscapeString(code.String()))
		_, _ = w.WriteString("</code></pre>\n")
	}
	return ast.WalkSkipChildren, nil
}

func highlightCode(w io.Writer, lang, code string) error {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)
	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		return err
	}
	return chromaFormatter.Format(w, chromaStyle, it)
}

// WriteHighlightCSS emits the stylesheet for the chroma classes; served at
// /static/chroma.css.
func WriteHighlightCSS(w io.Writer) error {
	return chromaFormatter.WriteCSS(w, chromaStyle)
}
