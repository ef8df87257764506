package htmlxpath

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
)

// HTMLNodeKind distinguishes the kinds of node the §6.1 document boundary
// reports.
type HTMLNodeKind int

const (
	HTMLElement HTMLNodeKind = iota
	HTMLText
	HTMLComment
	HTMLProcessingInstruction
)

// HTMLAttribute is one name/value pair reported by HTMLNode.Attributes, in
// source order.
type HTMLAttribute struct {
	Name  string
	Value string
}

// HTMLNode is the per-node view of the external document boundary (§6.1).
// Implementations are never mutated by this library.
type HTMLNode interface {
	Kind() HTMLNodeKind
	Name() string // element local name; "" for non-elements
	Attributes() []HTMLAttribute
	Children() []HTMLNode
	Text() string           // content for text/comment/PI nodes
	OnlyWhitespace() bool   // only meaningful when Kind() == HTMLText
}

// HTMLDocument is the document-level view of the §6.1 boundary: a single
// root node handle. Build (tree.go) consumes exactly this contract and has
// no knowledge of how an implementation parsed its markup.
type HTMLDocument interface {
	Root() HTMLNode
}

// --- reference adapter ---
//
// simpleHTMLDocument/simpleHTMLNode is a reference implementation of the
// boundary above, built over encoding/xml the way the teacher's own XML
// decoder is (§1B domain stack): a charset named in the XML declaration is
// resolved through golang.org/x/text/encoding/ianaindex; no charset is
// sniffed from the content. It is not part of the
// evaluation core -- it exists so this repository's own tests and examples
// have a document to build a Tree from, and so a caller without an
// existing DOM can get one. Any other HTMLDocument implementation works
// identically with Build.

type simpleHTMLNode struct {
	kind           HTMLNodeKind
	name           string
	attrs          []HTMLAttribute
	children       []HTMLNode
	text           string
	onlyWhitespace bool
}

func (n *simpleHTMLNode) Kind() HTMLNodeKind          { return n.kind }
func (n *simpleHTMLNode) Name() string                { return n.name }
func (n *simpleHTMLNode) Attributes() []HTMLAttribute { return n.attrs }
func (n *simpleHTMLNode) Children() []HTMLNode        { return n.children }
func (n *simpleHTMLNode) Text() string                { return n.text }
func (n *simpleHTMLNode) OnlyWhitespace() bool        { return n.onlyWhitespace }

type simpleHTMLDocument struct {
	root HTMLNode
}

func (d *simpleHTMLDocument) Root() HTMLNode { return d.root }

// ParseHTML decodes a well-formed, XML-shaped HTML fragment (a single root
// element, optionally preceded by a declaration) into an HTMLDocument via
// encoding/xml. Malformed or unsupported charset declarations are logged
// and treated as UTF-8 rather than aborting construction (§4.7): this
// adapter's own fallback policy, not a core evaluator behavior.
func ParseHTML(r io.Reader) (HTMLDocument, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = false
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		enc, err := ianaindex.IANA.Encoding(charset)
		if err != nil || enc == nil {
			Log.WithField("charset", charset).Warn("htmlxpath: unsupported charset, falling back to utf-8")
			return input, nil
		}
		return enc.NewDecoder().Reader(input), nil
	}

	var stack []*simpleHTMLNode
	var root *simpleHTMLNode

	push := func(n *simpleHTMLNode) {
		if len(stack) > 0 {
			top := stack[len(stack)-1]
			top.children = append(top.children, n)
		} else if root == nil && n.kind == HTMLElement {
			root = n
		}
		if n.kind == HTMLElement {
			stack = append(stack, n)
		}
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("htmlxpath: decoding html: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &simpleHTMLNode{kind: HTMLElement, name: t.Name.Local}
			for _, a := range t.Attr {
				n.attrs = append(n.attrs, HTMLAttribute{Name: a.Name.Local, Value: a.Value})
			}
			push(n)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			s := string(t)
			push(&simpleHTMLNode{kind: HTMLText, text: s, onlyWhitespace: strings.TrimSpace(s) == ""})
		case xml.Comment:
			push(&simpleHTMLNode{kind: HTMLComment, text: string(t)})
		case xml.ProcInst:
			push(&simpleHTMLNode{kind: HTMLProcessingInstruction, text: t.Target + " " + string(t.Inst)})
		}
	}

	if root == nil {
		return nil, fmt.Errorf("htmlxpath: document has no root element")
	}
	return &simpleHTMLDocument{root: root}, nil
}

// MustParseHTML is ParseHTML for tests and examples that already know their
// fixture is well-formed.
func MustParseHTML(markup string) HTMLDocument {
	doc, err := ParseHTML(bytes.NewReader([]byte(markup)))
	if err != nil {
		panic(err)
	}
	return doc
}
