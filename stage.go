package clarity

import (
	"context"
	"strconv"

	"github.com/c360studio/clarity/element"
	"github.com/c360studio/clarity/xmldoc"
)

var stageTag = xmldoc.QName{Space: "http://genologics.com/ri/stage", Local: "stage"}

var stageMeta = element.Metadata{
	Tag:    stageTag,
	Prefix: "stg",
	Name:   "Stage",
	Flags:  element.BatchNone,
}

var (
	stageIndex    = element.Attr("index", "index")
	stageWorkflow = element.LinkTo("workflow", "workflow", xmldoc.QName{Space: "http://genologics.com/ri/workflowconfiguration", Local: "workflow"})
)

// Stage is one step position within a configured workflow.
type Stage struct {
	LimsElement
}

// Index is the stage's position within its workflow, -1 when absent.
func (s *Stage) Index(ctx context.Context) (int, error) {
	root, err := s.load(ctx)
	if err != nil {
		return -1, err
	}
	v, ok := stageIndex.Value(root)
	if !ok {
		return -1, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return -1, NewFatalError(err)
	}
	return i, nil
}

// WorkflowLink is the raw reference to the owning workflow configuration.
func (s *Stage) WorkflowLink(ctx context.Context) (*element.Link, error) {
	root, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return stageWorkflow.Link(root), nil
}
