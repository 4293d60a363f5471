package element

import (
	"strings"

	"github.com/c360studio/clarity/xmldoc"
)

// Metadata holds the static, per-type facts a factory needs: the universal
// root tag the wire format uses, naming conventions, and capability flags.
// It is populated once at type registration and never changes.
type Metadata struct {
	// Tag is the namespaced root element name of the entity's document.
	// It must exactly match the wire format for the entity to be
	// recognized as this type.
	Tag xmldoc.QName

	// Prefix is the conventional namespace prefix used when building new
	// documents of this type (e.g. "art" for artifacts).
	Prefix string

	// Name is the singular type name ("Artifact"); the default collection
	// name derives from it.
	Name string

	// RequestPath, when non-empty, is used verbatim as the collection path
	// in place of the pluralized name.
	RequestPath string

	// NameAttribute is the root attribute carrying the human-readable
	// name. Empty means the default, "name".
	NameAttribute string

	// Flags declares the type's batch and query capabilities.
	Flags BatchFlags
}

// CollectionName returns the collection path segment for the type: the
// explicit request path verbatim when declared, otherwise the lower-cased
// type name with "s" appended. The pluralization is deliberately naive;
// deployed endpoint registries depend on it, so irregular plurals must be
// declared as explicit request paths instead.
func (m Metadata) CollectionName() string {
	if m.RequestPath != "" {
		return m.RequestPath
	}
	return strings.ToLower(m.Name) + "s"
}

// NameAttr returns the declared name attribute or the default "name".
func (m Metadata) NameAttr() string {
	if m.NameAttribute == "" {
		return "name"
	}
	return m.NameAttribute
}
