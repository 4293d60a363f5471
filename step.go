package clarity

import (
	"context"

	"github.com/c360studio/clarity/element"
	"github.com/c360studio/clarity/xmldoc"
)

var stepTag = xmldoc.QName{Space: "http://genologics.com/ri/step", Local: "step"}

var stepMeta = element.Metadata{
	Tag:    stepTag,
	Prefix: "stp",
	Name:   "Step",
	Flags:  element.BatchNone,
}

var stepCurrentState = element.Attr("current-state", "current-state")

// Step is the queue/work view of a protocol step execution. It shares its
// identifier with the corresponding Process.
type Step struct {
	LimsElement
}

// CurrentState is the step lifecycle state, e.g. "Record Details".
func (s *Step) CurrentState(ctx context.Context) (string, error) {
	root, err := s.load(ctx)
	if err != nil {
		return "", err
	}
	v, _ := stepCurrentState.Value(root)
	return v, nil
}

// ConfigurationLink is the raw reference to the step configuration.
func (s *Step) ConfigurationLink(ctx context.Context) (*element.Link, error) {
	root, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	n := root.Find("configuration")
	return element.LinkFromNode(n, xmldoc.QName{Space: "http://genologics.com/ri/stepconfiguration", Local: "step"}), nil
}
