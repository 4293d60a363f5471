// Package xmldoc wraps a parsed XML tree with the read and write helpers the
// element layer is built on: schema-relative path lookup, text and attribute
// access, create-on-demand writes, and dirty tracking for batch saves.
//
// A Document owns one etree tree plus its canonical URI. All mutation goes
// through helpers that mark the document dirty; callers never touch the tree
// directly.
package xmldoc

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// QName is a namespace-qualified element name. Space is the namespace URI,
// not the prefix; the serialized form is "{space}local", matching the
// universal tag constants on entity types.
type QName struct {
	Space string
	Local string
}

// ParseQName parses "{uri}local" or a bare local name.
func ParseQName(s string) QName {
	if strings.HasPrefix(s, "{") {
		if end := strings.Index(s, "}"); end > 0 {
			return QName{Space: s[1:end], Local: s[end+1:]}
		}
	}
	return QName{Local: s}
}

// String returns the universal form of the name.
func (q QName) String() string {
	if q.Space == "" {
		return q.Local
	}
	return "{" + q.Space + "}" + q.Local
}

// Document is one parsed XML tree plus its source URI and a dirty flag.
// It is exclusively owned by a single entity wrapper and is not safe for
// concurrent use.
type Document struct {
	tree  *etree.Document
	uri   string
	dirty bool
}

// Parse reads an XML document from raw bytes. The uri records where the
// document was fetched from and becomes the target of a later save.
func Parse(data []byte, uri string) (*Document, error) {
	t := etree.NewDocument()
	if err := t.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parse xml document: %w", err)
	}
	if t.Root() == nil {
		return nil, errors.New("xml document has no root element")
	}
	return &Document{tree: t, uri: uri}, nil
}

// New creates an empty document with a namespaced root element. The prefix
// is the conventional wire prefix for the namespace (e.g. "art" for the
// artifact namespace); it may be empty for unprefixed roots.
func New(prefix string, tag QName) *Document {
	t := etree.NewDocument()
	switch {
	case prefix != "" && tag.Space != "":
		el := t.CreateElement(prefix + ":" + tag.Local)
		el.CreateAttr("xmlns:"+prefix, tag.Space)
	case tag.Space != "":
		el := t.CreateElement(tag.Local)
		el.CreateAttr("xmlns", tag.Space)
	default:
		t.CreateElement(tag.Local)
	}
	return &Document{tree: t}
}

// Bytes serializes the document for transmission.
func (d *Document) Bytes() ([]byte, error) {
	out, err := d.tree.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("serialize xml document: %w", err)
	}
	return out, nil
}

// Root returns the root node of the document.
func (d *Document) Root() *Node {
	return &Node{el: d.tree.Root(), doc: d}
}

// URI returns the canonical URI the document was fetched from, or "" for a
// document that has never been persisted.
func (d *Document) URI() string { return d.uri }

// SetURI records the canonical URI, typically after a create assigns one.
func (d *Document) SetURI(uri string) { d.uri = uri }

// Dirty reports whether the tree has been mutated since parse or the last
// ClearDirty. Batch save passes skip never-dirtied documents.
func (d *Document) Dirty() bool { return d.dirty }

// MarkDirty forces the dirty flag, for callers that mutate through an
// escape hatch.
func (d *Document) MarkDirty() { d.dirty = true }

// ClearDirty resets the flag, typically after a successful save.
func (d *Document) ClearDirty() { d.dirty = false }

// Node is a view over one element of a Document. List descriptors hand out
// Nodes for repeated children; mutations through any Node dirty the owning
// Document.
type Node struct {
	el  *etree.Element
	doc *Document
}

// Tag returns the namespace-qualified name of the node.
func (n *Node) Tag() QName {
	return QName{Space: n.el.NamespaceURI(), Local: n.el.Tag}
}

// Text returns the node's own text content.
func (n *Node) Text() string { return n.el.Text() }

// SetOwnText replaces the node's text content and dirties the document.
func (n *Node) SetOwnText(value string) {
	n.el.SetText(value)
	n.doc.dirty = true
}

// Find returns the first node matching a schema-relative path, or nil when
// absent. Paths are slash-separated segments; each segment is a bare local
// name (matching un-namespaced elements) or a "{uri}local" qualified name.
// A leading "./" and "." segments refer to the node itself.
func (n *Node) Find(path string) *Node {
	matches := n.findAll(path, true)
	if len(matches) == 0 {
		return nil
	}
	return matches[0]
}

// FindAll returns every node matching the path, in document order. Missing
// paths yield an empty slice, never an error.
func (n *Node) FindAll(path string) []*Node {
	return n.findAll(path, false)
}

func (n *Node) findAll(path string, first bool) []*Node {
	frontier := []*etree.Element{n.el}
	for _, seg := range splitPath(path) {
		if seg == "." {
			continue
		}
		want := ParseQName(seg)
		var next []*etree.Element
		for _, el := range frontier {
			for _, child := range el.ChildElements() {
				if matches(child, want) {
					next = append(next, child)
				}
			}
		}
		frontier = next
		if len(frontier) == 0 {
			return nil
		}
	}
	if first && len(frontier) > 1 {
		frontier = frontier[:1]
	}
	out := make([]*Node, len(frontier))
	for i, el := range frontier {
		out[i] = &Node{el: el, doc: n.doc}
	}
	return out
}

// GetText returns the text of the subnode at path. The second return is
// false when the subnode is absent.
func (n *Node) GetText(path string) (string, bool) {
	sub := n.Find(path)
	if sub == nil {
		return "", false
	}
	return sub.el.Text(), true
}

// SetText writes text at path, creating missing intermediate elements, and
// dirties the document. This is the central mutation primitive; writable
// descriptors funnel through it.
func (n *Node) SetText(path, value string) {
	leaf := n.MakeSubelementWithParents(path)
	leaf.el.SetText(value)
	n.doc.dirty = true
}

// MakeSubelementWithParents walks path, creating any missing elements, and
// returns the leaf node. Used by descriptors that set attributes rather
// than text. Panics on a malformed path: auto-vivification of a path that
// cannot name an element is a programming error.
func (n *Node) MakeSubelementWithParents(path string) *Node {
	cur := n.el
	for _, seg := range splitPath(path) {
		if seg == "." {
			continue
		}
		if seg == "" || seg == ".." || strings.ContainsAny(seg, "{}[]@") {
			panic(fmt.Sprintf("xmldoc: cannot auto-vivify path segment %q in %q", seg, path))
		}
		var found *etree.Element
		for _, child := range cur.ChildElements() {
			if matches(child, QName{Local: seg}) {
				found = child
				break
			}
		}
		if found == nil {
			found = cur.CreateElement(seg)
			n.doc.dirty = true
		}
		cur = found
	}
	return &Node{el: cur, doc: n.doc}
}

// Attr returns the value of an attribute on this node. The second return is
// false when the attribute is absent.
func (n *Node) Attr(key string) (string, bool) {
	for _, a := range n.el.Attr {
		if a.Space == "" && a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets an attribute on this node and dirties the document.
func (n *Node) SetAttr(key, value string) {
	n.el.CreateAttr(key, value)
	n.doc.dirty = true
}

// Children returns all child elements in document order.
func (n *Node) Children() []*Node {
	els := n.el.ChildElements()
	out := make([]*Node, len(els))
	for i, el := range els {
		out[i] = &Node{el: el, doc: n.doc}
	}
	return out
}

// AppendCopy appends a deep copy of child (including its subtree) under
// this node and dirties the document. Used to assemble batch payloads from
// individual entity documents.
func (n *Node) AppendCopy(child *Node) *Node {
	dup := child.el.Copy()
	n.el.AddChild(dup)
	n.doc.dirty = true
	return &Node{el: dup, doc: n.doc}
}

// CreateChild always appends a fresh child element, unlike
// MakeSubelementWithParents which reuses an existing one. Used to build
// repeated elements such as batch request links.
func (n *Node) CreateChild(tag string) *Node {
	el := n.el.CreateElement(tag)
	n.doc.dirty = true
	return &Node{el: el, doc: n.doc}
}

// FromNode lifts one element (typically a child of a batch response) into a
// standalone Document rooted at a deep copy of that element. Namespace
// declarations inherited from ancestors are re-declared on the new root so
// the copy resolves the same qualified name standalone.
func FromNode(n *Node, uri string) *Document {
	root := n.el.Copy()
	if ns := n.el.NamespaceURI(); ns != "" {
		if n.el.Space != "" {
			if root.SelectAttr("xmlns:"+n.el.Space) == nil {
				root.CreateAttr("xmlns:"+n.el.Space, ns)
			}
		} else if root.SelectAttr("xmlns") == nil {
			root.CreateAttr("xmlns", ns)
		}
	}
	t := etree.NewDocument()
	t.SetRoot(root)
	return &Document{tree: t, uri: uri}
}

// Remove detaches the node from its parent and dirties the document.
func (n *Node) Remove() {
	if p := n.el.Parent(); p != nil {
		p.RemoveChild(n.el)
		n.doc.dirty = true
	}
}

// splitPath splits a slash-separated path into segments. Slashes inside a
// "{uri}" qualifier belong to the namespace URI, not the path structure, so
// the split only happens outside braces.
func splitPath(path string) []string {
	path = strings.TrimPrefix(path, "./")
	if path == "" || path == "." {
		return []string{"."}
	}
	var segs []string
	depth := 0
	start := 0
	for i := 0; i < len(path); i++ {
		switch path[i] {
		case '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		case '/':
			if depth == 0 {
				segs = append(segs, path[start:i])
				start = i + 1
			}
		}
	}
	return append(segs, path[start:])
}

// matches compares an element against a wanted name. A bare local name only
// matches elements with no namespace, mirroring how the wire schema leaves
// entity children unqualified; qualified names must match both parts.
func matches(el *etree.Element, want QName) bool {
	if el.Tag != want.Local {
		return false
	}
	return el.NamespaceURI() == want.Space
}
