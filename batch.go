package clarity

import (
	"context"
	"fmt"

	"github.com/c360studio/clarity/element"
	"github.com/c360studio/clarity/xmldoc"
)

// linksTag is the envelope for batch retrieve requests and create
// responses.
var linksTag = xmldoc.QName{Space: riNamespace, Local: "links"}

// BatchGet retrieves many records in one request. The factory must declare
// the BatchGet capability; callers that cannot rely on it fall back to
// individual Get calls.
func (f *Factory[T]) BatchGet(ctx context.Context, links []*element.Link) ([]T, error) {
	if !f.CanBatchGet() {
		return nil, NewFatalError(fmt.Errorf("%s does not support batch retrieve", f.meta.Name))
	}
	if len(links) == 0 {
		return nil, nil
	}

	payload := xmldoc.New("ri", linksTag)
	for _, l := range links {
		n := payload.Root().CreateChild("link")
		n.SetAttr("uri", l.URI)
		n.SetAttr("rel", f.meta.CollectionName())
	}

	resp, err := f.session.PostDocument(ctx, f.URI()+"/batch/retrieve", payload)
	if err != nil {
		return nil, err
	}
	return f.adoptDetails(resp)
}

// BatchUpdate writes many records in one request, skipping entities whose
// documents were never dirtied. Documents are marked clean once the server
// accepts the batch.
func (f *Factory[T]) BatchUpdate(ctx context.Context, entities []T) error {
	if !f.CanBatchUpdate() {
		return NewFatalError(fmt.Errorf("%s does not support batch update", f.meta.Name))
	}

	var dirty []T
	for _, t := range entities {
		if doc := t.base().doc; doc != nil && doc.Dirty() {
			dirty = append(dirty, t)
		}
	}
	if len(dirty) == 0 {
		return nil
	}

	payload := f.newDetails()
	for _, t := range dirty {
		payload.Root().AppendCopy(t.base().doc.Root())
	}
	if _, err := f.session.PostDocument(ctx, f.URI()+"/batch/update", payload); err != nil {
		return err
	}
	for _, t := range dirty {
		t.base().doc.ClearDirty()
	}
	return nil
}

// BatchCreate persists many new records in one request. The server assigns
// URIs; entities are re-pointed at their assigned records in order.
func (f *Factory[T]) BatchCreate(ctx context.Context, entities []T) error {
	if !f.CanBatchCreate() {
		return NewFatalError(fmt.Errorf("%s does not support batch create", f.meta.Name))
	}
	if len(entities) == 0 {
		return nil
	}

	payload := f.newDetails()
	for _, t := range entities {
		if t.base().doc == nil {
			return NewFatalError(fmt.Errorf("batch create %s: entity has no document", f.meta.Name))
		}
		payload.Root().AppendCopy(t.base().doc.Root())
	}

	resp, err := f.session.PostDocument(ctx, f.URI()+"/batch/create", payload)
	if err != nil {
		return err
	}

	// The response is a link list in request order.
	var uris []string
	for _, child := range resp.Root().Children() {
		if uri, ok := child.Attr("uri"); ok && uri != "" {
			uris = append(uris, uri)
		}
	}
	if len(uris) != len(entities) {
		return NewFatalError(fmt.Errorf("batch create %s: sent %d records, got %d links back",
			f.meta.Name, len(entities), len(uris)))
	}
	for i, t := range entities {
		b := t.base()
		b.SetURI(uris[i])
		b.doc.ClearDirty()
		f.session.cache[uris[i]] = t
	}
	return nil
}

// newDetails builds the empty batch envelope for the entity namespace,
// e.g. art:details for artifacts.
func (f *Factory[T]) newDetails() *xmldoc.Document {
	return xmldoc.New(f.meta.Prefix, xmldoc.QName{Space: f.meta.Tag.Space, Local: "details"})
}

// adoptDetails splits a details response into per-record documents and
// hydrates the session's handles with them.
func (f *Factory[T]) adoptDetails(resp *xmldoc.Document) ([]T, error) {
	var out []T
	for _, child := range resp.Root().Children() {
		if child.Tag() != f.meta.Tag {
			continue
		}
		uri, ok := child.Attr("uri")
		if !ok || uri == "" {
			return nil, NewFatalError(fmt.Errorf("batch response %s record carries no uri", f.meta.Name))
		}
		out = append(out, f.hydrate(uri, xmldoc.FromNode(child, uri)))
	}
	return out, nil
}
