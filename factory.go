package clarity

import (
	"context"
	"fmt"
	"net/url"

	"github.com/c360studio/clarity/element"
	"github.com/c360studio/clarity/xmldoc"
)

// anyFactory is the registry-facing view of a factory, used for link
// resolution where the target type is only known by its universal tag.
type anyFactory interface {
	Meta() element.Metadata
	elementFromURI(uri string) Element
}

// Factory resolves request URIs and capability flags for one entity type
// and builds that type's handles. One factory exists per type per session,
// created at session construction and stateless afterward besides the
// static per-type facts.
type Factory[T Element] struct {
	session *Session
	meta    element.Metadata
	newFn   func() T
}

// NewFactory registers an entity type with the session. A malformed
// capability declaration fails here, not at first use.
func NewFactory[T Element](s *Session, meta element.Metadata, newFn func() T) (*Factory[T], error) {
	if err := meta.Flags.Validate(); err != nil {
		return nil, fmt.Errorf("register %s: %w", meta.Name, err)
	}
	f := &Factory[T]{session: s, meta: meta, newFn: newFn}
	s.registry[meta.Tag] = f
	return f, nil
}

// Meta returns the static per-type facts.
func (f *Factory[T]) Meta() element.Metadata { return f.meta }

// CanBatchCreate reports whether the type supports batch create.
func (f *Factory[T]) CanBatchCreate() bool { return f.meta.Flags.CanBatchCreate() }

// CanBatchGet reports whether the type supports batch retrieve.
func (f *Factory[T]) CanBatchGet() bool { return f.meta.Flags.CanBatchGet() }

// CanBatchUpdate reports whether the type supports batch update.
func (f *Factory[T]) CanBatchUpdate() bool { return f.meta.Flags.CanBatchUpdate() }

// CanQuery reports whether the type supports ad-hoc collection queries.
func (f *Factory[T]) CanQuery() bool { return f.meta.Flags.CanQuery() }

// NameAttribute is the root attribute carrying the record name.
func (f *Factory[T]) NameAttribute() string { return f.meta.NameAttr() }

// URI is the collection endpoint for the type.
func (f *Factory[T]) URI() string {
	return f.session.baseURI + "/" + f.meta.CollectionName()
}

// uriForID builds the record URI for a LIMS id.
func (f *Factory[T]) uriForID(limsid string) string {
	return f.URI() + "/" + limsid
}

// New returns an empty shell for a record that does not exist remotely
// yet. Its document is created on first field access and persisted with
// Create or BatchCreate.
func (f *Factory[T]) New() T {
	t := f.newFn()
	f.bind(t, "")
	return t
}

// FromURI returns the session's handle for a record URI, creating a lazy
// shell on first sight. Repeated calls with one URI return the same handle.
func (f *Factory[T]) FromURI(uri string) T {
	if cached, ok := f.session.cache[uri].(T); ok {
		return cached
	}
	t := f.newFn()
	f.bind(t, uri)
	f.session.cache[uri] = t
	return t
}

// FromLink returns the handle for a link, or the zero handle for nil.
func (f *Factory[T]) FromLink(l *element.Link) T {
	var zero T
	if l == nil {
		return zero
	}
	return f.FromURI(l.URI)
}

// FromLinkNode reads a URI-bearing subnode into a handle; nil node or a
// node without a URI yields the zero handle.
func (f *Factory[T]) FromLinkNode(n *xmldoc.Node) T {
	return f.FromLink(element.LinkFromNode(n, f.meta.Tag))
}

// FromLinkNodes maps link nodes to handles, dropping empty ones.
func (f *Factory[T]) FromLinkNodes(nodes []*xmldoc.Node) []T {
	out := make([]T, 0, len(nodes))
	for _, n := range nodes {
		if l := element.LinkFromNode(n, f.meta.Tag); l != nil {
			out = append(out, f.FromURI(l.URI))
		}
	}
	return out
}

// Get fetches the record with the given LIMS id, hydrating it now rather
// than lazily.
func (f *Factory[T]) Get(ctx context.Context, limsid string) (T, error) {
	t := f.FromURI(f.uriForID(limsid))
	if !t.base().Hydrated() {
		if err := t.base().Refresh(ctx); err != nil {
			var zero T
			return zero, err
		}
	}
	return t, nil
}

// Create persists a new record by posting its document to the collection
// endpoint, then adopts the server's representation and assigned URI.
func (f *Factory[T]) Create(ctx context.Context, t T) error {
	b := t.base()
	if b.doc == nil {
		return NewFatalError(fmt.Errorf("create %s: no document to send", f.meta.Name))
	}
	resp, err := f.session.PostDocument(ctx, f.URI(), b.doc)
	if err != nil {
		return err
	}
	uri, _ := resp.Root().Attr("uri")
	if uri != "" {
		b.uri = uri
		resp.SetURI(uri)
		f.session.cache[uri] = t
	}
	b.doc = resp
	return nil
}

// hydrate adopts a standalone document for the record at uri, replacing
// any cached state.
func (f *Factory[T]) hydrate(uri string, doc *xmldoc.Document) T {
	t := f.FromURI(uri)
	doc.ClearDirty()
	t.base().doc = doc
	return t
}

// bind wires a freshly constructed entity to the session and type facts.
func (f *Factory[T]) bind(t T, uri string) {
	b := t.base()
	b.session = f.session
	b.uri = uri
	b.meta = elementMeta{
		tag:      f.meta.Tag,
		prefix:   f.meta.Prefix,
		nameAttr: f.meta.NameAttr(),
		typeName: f.meta.Name,
	}
}

func (f *Factory[T]) elementFromURI(uri string) Element {
	return f.FromURI(uri)
}

// Query runs an ad-hoc collection query and returns lazy shells for every
// matching record, following next-page links until exhausted.
func (f *Factory[T]) Query(ctx context.Context, params url.Values) ([]T, error) {
	if !f.CanQuery() {
		return nil, NewFatalError(fmt.Errorf("%s does not support queries", f.meta.Name))
	}
	uri := f.URI()
	if len(params) > 0 {
		uri += "?" + params.Encode()
	}

	var out []T
	for uri != "" {
		page, err := f.session.FetchDocument(ctx, uri)
		if err != nil {
			return nil, err
		}
		next := ""
		for _, child := range page.Root().Children() {
			ref, ok := child.Attr("uri")
			if !ok || ref == "" {
				continue
			}
			if child.Tag().Local == "next-page" {
				next = ref
				continue
			}
			out = append(out, f.FromURI(ref))
		}
		uri = next
	}
	return out, nil
}

// All returns lazy shells for the whole collection.
func (f *Factory[T]) All(ctx context.Context) ([]T, error) {
	return f.Query(ctx, url.Values{})
}
