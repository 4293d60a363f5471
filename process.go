package clarity

import (
	"context"

	"github.com/c360studio/clarity/element"
	"github.com/c360studio/clarity/xmldoc"
)

var processTag = xmldoc.QName{Space: "http://genologics.com/ri/process", Local: "process"}

// processMeta declares an explicit request path: the naive pluralization
// would produce "processs".
var processMeta = element.Metadata{
	Tag:         processTag,
	Prefix:      "prc",
	Name:        "Process",
	RequestPath: "processes",
	Flags:       element.Query,
}

var (
	processType    = element.Text("type", "type")
	processDateRun = element.Text("date-run", "date-run")

	processFields = element.NewFieldSet(processType, processDateRun)
)

// Process is a completed or running protocol execution.
type Process struct {
	LimsElement
}

// Fields returns the declared field set.
func (p *Process) Fields() *element.FieldSet { return processFields }

// Type is the process type name.
func (p *Process) Type(ctx context.Context) (string, error) {
	root, err := p.load(ctx)
	if err != nil {
		return "", err
	}
	v, _ := processType.Value(root)
	return v, nil
}

// DateRun is the run date, empty when not recorded.
func (p *Process) DateRun(ctx context.Context) (string, error) {
	root, err := p.load(ctx)
	if err != nil {
		return "", err
	}
	v, _ := processDateRun.Value(root)
	return v, nil
}

// InputArtifacts returns lazy handles for every distinct input artifact of
// the process's input-output map.
func (p *Process) InputArtifacts(ctx context.Context) ([]*Artifact, error) {
	root, err := p.load(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var out []*Artifact
	for _, n := range root.FindAll("input-output-map/input") {
		uri, ok := n.Attr("uri")
		if !ok || seen[uri] {
			continue
		}
		seen[uri] = true
		out = append(out, p.session.Artifacts.FromURI(uri))
	}
	return out, nil
}
