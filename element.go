package clarity

import (
	"context"
	"fmt"
	"strings"

	"github.com/c360studio/clarity/xmldoc"
)

// Element is implemented by every entity type via the embedded LimsElement.
type Element interface {
	// URI is the canonical record URI, or "" for a new, unsaved record.
	URI() string

	// LimsID is the record identifier derived from the URI tail.
	LimsID() string

	// Document returns the wrapped document, or nil while unhydrated.
	Document() *xmldoc.Document

	base() *LimsElement
}

// LimsElement is the lazy base every entity embeds. A shell is created with
// just a URI; the document is fetched and parsed on first field access.
// Each element exclusively owns its document.
type LimsElement struct {
	session *Session
	meta    elementMeta
	doc     *xmldoc.Document
	uri     string
}

// elementMeta is the subset of factory metadata an element needs on its
// own: the expected root tag, build prefix, and name attribute.
type elementMeta struct {
	tag      xmldoc.QName
	prefix   string
	nameAttr string
	typeName string
}

// URI implements Element.
func (e *LimsElement) URI() string { return e.uri }

// SetURI records the canonical URI, typically after a create assigns one.
func (e *LimsElement) SetURI(uri string) {
	e.uri = uri
	if e.doc != nil {
		e.doc.SetURI(uri)
	}
}

// LimsID returns the identifier portion of the URI (the last path
// segment), or "" for an unsaved record.
func (e *LimsElement) LimsID() string {
	if e.uri == "" {
		return ""
	}
	return e.uri[strings.LastIndex(e.uri, "/")+1:]
}

// Document implements Element.
func (e *LimsElement) Document() *xmldoc.Document { return e.doc }

// Hydrated reports whether the document has been fetched or built.
func (e *LimsElement) Hydrated() bool { return e.doc != nil }

// Invalidate drops the cached document; the next field access re-fetches.
func (e *LimsElement) Invalidate() { e.doc = nil }

// Refresh re-fetches the document from the server, discarding local state.
func (e *LimsElement) Refresh(ctx context.Context) error {
	if e.uri == "" {
		return NewFatalError(fmt.Errorf("cannot refresh unsaved %s", e.meta.typeName))
	}
	doc, err := e.session.FetchDocument(ctx, e.uri)
	if err != nil {
		return err
	}
	if tag := doc.Root().Tag(); tag != e.meta.tag {
		return NewFatalError(fmt.Errorf("%s: root tag %s does not match %s", e.uri, tag, e.meta.tag))
	}
	e.doc = doc
	return nil
}

// load returns the document root, fetching on first access. A shell with
// no URI is a new record: it gets a fresh empty document instead.
func (e *LimsElement) load(ctx context.Context) (*xmldoc.Node, error) {
	if e.doc == nil {
		if e.uri == "" {
			e.doc = xmldoc.New(e.meta.prefix, e.meta.tag)
		} else if err := e.Refresh(ctx); err != nil {
			return nil, err
		}
	}
	return e.doc.Root(), nil
}

// Name reads the human-readable name from the root attribute declared for
// this type (default "name"). Returns "" when unset.
func (e *LimsElement) Name(ctx context.Context) (string, error) {
	root, err := e.load(ctx)
	if err != nil {
		return "", err
	}
	v, _ := root.Attr(e.meta.nameAttr)
	return v, nil
}

// SetName writes the human-readable name attribute.
func (e *LimsElement) SetName(ctx context.Context, name string) error {
	root, err := e.load(ctx)
	if err != nil {
		return err
	}
	root.SetAttr(e.meta.nameAttr, name)
	return nil
}

func (e *LimsElement) base() *LimsElement { return e }
