package element

import "github.com/c360studio/clarity/xmldoc"

// Link is a cross-document reference: a URI plus the universal tag of the
// referenced type. Links are navigation, never ownership; resolving one
// goes through the session's factory registry and never mutates the source
// document.
type Link struct {
	URI    string
	LimsID string
	Tag    xmldoc.QName
}

// LinkFromNode reads a reference from a URI-bearing subnode. Returns nil
// when the node is nil or carries no URI.
func LinkFromNode(n *xmldoc.Node, tag xmldoc.QName) *Link {
	if n == nil {
		return nil
	}
	uri, ok := n.Attr("uri")
	if !ok || uri == "" {
		return nil
	}
	limsid, _ := n.Attr("limsid")
	return &Link{URI: uri, LimsID: limsid, Tag: tag}
}

// WriteTo encodes the link onto a subnode as uri/limsid attributes.
func (l *Link) WriteTo(n *xmldoc.Node) {
	n.SetAttr("uri", l.URI)
	if l.LimsID != "" {
		n.SetAttr("limsid", l.LimsID)
	}
}
