package element

import (
	"fmt"

	"github.com/c360studio/clarity/xmldoc"
)

// Field is one bindable accessor over a shaped location in an entity's
// document. Descriptors are attached to an entity type once, in a static
// ordered list, and hold no per-document state: every read re-derives from
// the live tree, so a document replacement is immediately visible.
type Field interface {
	// Name is the field's key in batch payload maps.
	Name() string

	// ReadOnly reports whether Set is permitted.
	ReadOnly() bool

	// Get resolves the field against a document root. Absent optional
	// data yields (nil, nil), never an error.
	Get(root *xmldoc.Node) (any, error)

	// Set writes through the document's mutation primitives. Fails with
	// *ReadOnlyError before touching the tree when the field is
	// read-only.
	Set(root *xmldoc.Node, value any) error
}

// Option configures a descriptor at construction.
type Option func(*fieldOpts)

type fieldOpts struct {
	readonly bool
	path     string
}

// ReadOnly marks the field as rejecting writes.
func ReadOnly() Option {
	return func(o *fieldOpts) { o.readonly = true }
}

// AtPath anchors an attribute field at a subnode path instead of the
// document root.
func AtPath(path string) Option {
	return func(o *fieldOpts) { o.path = path }
}

func applyOpts(opts []Option) fieldOpts {
	var o fieldOpts
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// TextField binds to the text content of a subnode path.
type TextField struct {
	name     string
	path     string
	readonly bool
}

// Text declares a subnode text field.
func Text(name, path string, opts ...Option) *TextField {
	o := applyOpts(opts)
	return &TextField{name: name, path: path, readonly: o.readonly}
}

// Name implements Field.
func (f *TextField) Name() string { return f.name }

// ReadOnly implements Field.
func (f *TextField) ReadOnly() bool { return f.readonly }

// Value returns the subnode text; ok is false when the subnode is absent.
func (f *TextField) Value(root *xmldoc.Node) (value string, ok bool) {
	return root.GetText(f.path)
}

// SetValue writes the subnode text, creating missing parents.
func (f *TextField) SetValue(root *xmldoc.Node, value string) error {
	if f.readonly {
		return &ReadOnlyError{Field: f.name}
	}
	root.SetText(f.path, value)
	return nil
}

// Get implements Field.
func (f *TextField) Get(root *xmldoc.Node) (any, error) {
	v, ok := f.Value(root)
	if !ok {
		return nil, nil
	}
	return v, nil
}

// Set implements Field.
func (f *TextField) Set(root *xmldoc.Node, value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("field %q expects a string, got %T", f.name, value)
	}
	return f.SetValue(root, s)
}

// AttrField binds to an XML attribute, by default on the document root,
// optionally on a subnode path.
type AttrField struct {
	name     string
	key      string
	path     string
	readonly bool
}

// Attr declares an attribute field.
func Attr(name, key string, opts ...Option) *AttrField {
	o := applyOpts(opts)
	path := o.path
	if path == "" {
		path = "."
	}
	return &AttrField{name: name, key: key, path: path, readonly: o.readonly}
}

// Name implements Field.
func (f *AttrField) Name() string { return f.name }

// ReadOnly implements Field.
func (f *AttrField) ReadOnly() bool { return f.readonly }

// Value returns the attribute value; ok is false when the subnode or the
// attribute is absent.
func (f *AttrField) Value(root *xmldoc.Node) (value string, ok bool) {
	n := root.Find(f.path)
	if n == nil {
		return "", false
	}
	return n.Attr(f.key)
}

// SetValue writes the attribute, auto-vivifying the subnode if absent.
func (f *AttrField) SetValue(root *xmldoc.Node, value string) error {
	if f.readonly {
		return &ReadOnlyError{Field: f.name}
	}
	root.MakeSubelementWithParents(f.path).SetAttr(f.key, value)
	return nil
}

// Get implements Field.
func (f *AttrField) Get(root *xmldoc.Node) (any, error) {
	v, ok := f.Value(root)
	if !ok {
		return nil, nil
	}
	return v, nil
}

// Set implements Field.
func (f *AttrField) Set(root *xmldoc.Node, value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("field %q expects a string, got %T", f.name, value)
	}
	return f.SetValue(root, s)
}

// LinkField binds to a reference subnode whose attributes encode a URI.
// Reads produce a *Link tagged with the declared target type; resolving the
// link to a full entity goes through the owning session and is never cached
// on the descriptor.
type LinkField struct {
	name     string
	path     string
	tag      xmldoc.QName
	readonly bool
}

// LinkTo declares a reference field targeting the entity type with the
// given universal tag.
func LinkTo(name, path string, tag xmldoc.QName, opts ...Option) *LinkField {
	o := applyOpts(opts)
	return &LinkField{name: name, path: path, tag: tag, readonly: o.readonly}
}

// Name implements Field.
func (f *LinkField) Name() string { return f.name }

// ReadOnly implements Field.
func (f *LinkField) ReadOnly() bool { return f.readonly }

// Link returns the reference, or nil when the subnode is absent.
func (f *LinkField) Link(root *xmldoc.Node) *Link {
	return LinkFromNode(root.Find(f.path), f.tag)
}

// SetLink writes the reference attributes, auto-vivifying the subnode.
// Unsetting a link by passing nil is not supported here; entities that need
// tri-state semantics expose their own setter over the raw field.
func (f *LinkField) SetLink(root *xmldoc.Node, l *Link) error {
	if f.readonly {
		return &ReadOnlyError{Field: f.name}
	}
	if l == nil {
		return fmt.Errorf("field %q cannot be unset with a nil link", f.name)
	}
	l.WriteTo(root.MakeSubelementWithParents(f.path))
	return nil
}

// Get implements Field.
func (f *LinkField) Get(root *xmldoc.Node) (any, error) {
	l := f.Link(root)
	if l == nil {
		return nil, nil
	}
	return l, nil
}

// Set implements Field.
func (f *LinkField) Set(root *xmldoc.Node, value any) error {
	l, ok := value.(*Link)
	if !ok {
		return fmt.Errorf("field %q expects a *Link, got %T", f.name, value)
	}
	return f.SetLink(root, l)
}

// ListField binds to a repeated set of child elements under a container
// path. Reads construct a fresh ordered slice of wrapper values, one per
// matching child, each a thin view over that child node. The list itself is
// always read-only; individual elements may still be mutable through their
// own fields.
type ListField[T any] struct {
	name      string
	container string
	child     string
	wrap      func(*xmldoc.Node) T
}

// List declares a repeated child-element field. The container path may be
// "." when the children sit directly under the root.
func List[T any](name, container, child string, wrap func(*xmldoc.Node) T) *ListField[T] {
	return &ListField[T]{name: name, container: container, child: child, wrap: wrap}
}

// Name implements Field.
func (f *ListField[T]) Name() string { return f.name }

// ReadOnly implements Field. Lists are read-only at the list level.
func (f *ListField[T]) ReadOnly() bool { return true }

// Values returns a freshly built slice of wrappers over the matching
// children, empty when the container or children are absent.
func (f *ListField[T]) Values(root *xmldoc.Node) []T {
	container := root
	if f.container != "." {
		container = root.Find(f.container)
		if container == nil {
			return nil
		}
	}
	nodes := container.FindAll(f.child)
	out := make([]T, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, f.wrap(n))
	}
	return out
}

// Get implements Field.
func (f *ListField[T]) Get(root *xmldoc.Node) (any, error) {
	return f.Values(root), nil
}

// Set implements Field.
func (f *ListField[T]) Set(root *xmldoc.Node, value any) error {
	return &ReadOnlyError{Field: f.name}
}
