package clarity

import (
	"context"

	"github.com/c360studio/clarity/element"
	"github.com/c360studio/clarity/xmldoc"
)

var queueTag = xmldoc.QName{Space: "http://genologics.com/ri/queue", Local: "queue"}

// queueMeta shares its identifier space with the protocol step
// configuration: queue 42 is the queue of step 42.
var queueMeta = element.Metadata{
	Tag:    queueTag,
	Prefix: "que",
	Name:   "Queue",
	Flags:  element.BatchNone,
}

// Queue is the set of artifacts waiting at one protocol step.
type Queue struct {
	LimsElement
}

// Artifacts returns lazy handles for every queued artifact, in queue order.
func (q *Queue) Artifacts(ctx context.Context) ([]*Artifact, error) {
	root, err := q.load(ctx)
	if err != nil {
		return nil, err
	}
	return q.session.Artifacts.FromLinkNodes(root.FindAll("artifacts/artifact")), nil
}
