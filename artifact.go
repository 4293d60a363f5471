package clarity

import (
	"context"

	"github.com/c360studio/clarity/element"
	"github.com/c360studio/clarity/xmldoc"
)

var artifactTag = xmldoc.QName{Space: "http://genologics.com/ri/artifact", Local: "artifact"}

var artifactMeta = element.Metadata{
	Tag:    artifactTag,
	Prefix: "art",
	Name:   "Artifact",
	Flags:  element.BatchGet | element.BatchUpdate | element.Query,
}

// QCFlag is the tri-state quality-control marker carried on artifacts.
type QCFlag string

const (
	QCPassed  QCFlag = "PASSED"
	QCFailed  QCFlag = "FAILED"
	QCUnknown QCFlag = "UNKNOWN"
)

// Workflow stage history statuses.
const (
	StageStatusQueued     = "QUEUED"
	StageStatusRemoved    = "REMOVED"
	StageStatusInProgress = "IN_PROGRESS"
)

var (
	artifactType          = element.Text("type", "type")
	artifactOutputType    = element.Text("output-type", "output-type")
	artifactLocationValue = element.Text("location-value", "location/value")
	artifactQCFlag        = element.Text("qc-flag", "qc-flag")
	artifactParentProcess = element.LinkTo("parent-process", "parent-process", processTag)
	artifactStageHistory  = element.List("workflow-stages", "workflow-stages", "workflow-stage",
		func(n *xmldoc.Node) *WorkflowStageHistory { return &WorkflowStageHistory{node: n} })
	artifactReagentLabels = element.List("reagent-labels", ".", "reagent-label",
		func(n *xmldoc.Node) *ReagentLabel { return &ReagentLabel{node: n} })

	artifactFields = element.NewFieldSet(
		artifactType,
		artifactOutputType,
		artifactLocationValue,
		artifactQCFlag,
		artifactStageHistory,
		artifactReagentLabels,
		artifactParentProcess,
	)
)

// WorkflowStageHistory is one entry in an artifact's workflow-stage
// history. It is a thin view over a child node of the artifact document.
type WorkflowStageHistory struct {
	node *xmldoc.Node
}

var (
	stageHistoryURI    = element.Attr("uri", "uri")
	stageHistoryStatus = element.Attr("status", "status")
	stageHistoryName   = element.Attr("name", "name")
	stageHistoryStage  = element.LinkTo("stage", ".", stageTag)
)

// URI is the stage URI recorded on the history entry.
func (h *WorkflowStageHistory) URI() string {
	v, _ := stageHistoryURI.Value(h.node)
	return v
}

// Status is QUEUED, REMOVED, IN_PROGRESS or a later lifecycle marker.
func (h *WorkflowStageHistory) Status() string {
	v, _ := stageHistoryStatus.Value(h.node)
	return v
}

// StageName is the display name recorded on the history entry.
func (h *WorkflowStageHistory) StageName() string {
	v, _ := stageHistoryName.Value(h.node)
	return v
}

// StageLink is the reference to the workflow stage configuration.
func (h *WorkflowStageHistory) StageLink() *element.Link {
	return stageHistoryStage.Link(h.node)
}

// ReagentLabel is a label node on an artifact; its name is read-only.
type ReagentLabel struct {
	node *xmldoc.Node
}

var reagentLabelName = element.Attr("name", "name", element.ReadOnly())

// Name returns the label name.
func (l *ReagentLabel) Name() string {
	v, _ := reagentLabelName.Value(l.node)
	return v
}

// Artifact is a derived or submitted item moving through workflows.
// Reference: https://www.genologics.com/files/permanent/API/latest/data_art.html#artifact
type Artifact struct {
	LimsElement
}

// Fields returns the declared field set for batch serialization.
func (a *Artifact) Fields() *element.FieldSet { return artifactFields }

// FieldMap returns the artifact's declared fields as a name-to-value map.
func (a *Artifact) FieldMap(ctx context.Context) (map[string]any, error) {
	root, err := a.load(ctx)
	if err != nil {
		return nil, err
	}
	return artifactFields.ToMap(root), nil
}

// UpdateFields applies a name-to-value map through the declared fields.
func (a *Artifact) UpdateFields(ctx context.Context, values map[string]any) error {
	root, err := a.load(ctx)
	if err != nil {
		return err
	}
	return artifactFields.ApplyMap(root, values)
}

// Type is the artifact type, e.g. "Analyte" or "ResultFile".
func (a *Artifact) Type(ctx context.Context) (string, error) {
	root, err := a.load(ctx)
	if err != nil {
		return "", err
	}
	v, _ := artifactType.Value(root)
	return v, nil
}

// OutputType is the output type recorded by the generating process.
func (a *Artifact) OutputType(ctx context.Context) (string, error) {
	root, err := a.load(ctx)
	if err != nil {
		return "", err
	}
	v, _ := artifactOutputType.Value(root)
	return v, nil
}

// LocationValue is the well position within the containing container,
// e.g. "A:1". For the container itself use Container.
func (a *Artifact) LocationValue(ctx context.Context) (string, error) {
	root, err := a.load(ctx)
	if err != nil {
		return "", err
	}
	v, _ := artifactLocationValue.Value(root)
	return v, nil
}

// WorkflowStages returns the artifact's full stage history in document
// order.
func (a *Artifact) WorkflowStages(ctx context.Context) ([]*WorkflowStageHistory, error) {
	root, err := a.load(ctx)
	if err != nil {
		return nil, err
	}
	return artifactStageHistory.Values(root), nil
}

// QueuedStages reduces the stage history to the set of stages the artifact
// is currently queued in. A QUEUED entry adds its stage; a later REMOVED or
// IN_PROGRESS entry for the same stage retracts it, covering histories
// where a queue entry is left behind without a matching removal record.
func (a *Artifact) QueuedStages(ctx context.Context) ([]*Stage, error) {
	histories, err := a.WorkflowStages(ctx)
	if err != nil {
		return nil, err
	}

	queued := make(map[string]*element.Link)
	var order []string
	for _, h := range histories {
		l := h.StageLink()
		if l == nil {
			continue
		}
		switch h.Status() {
		case StageStatusQueued:
			if _, ok := queued[l.URI]; !ok {
				order = append(order, l.URI)
			}
			queued[l.URI] = l
		case StageStatusRemoved, StageStatusInProgress:
			delete(queued, l.URI)
		}
	}

	// A retracted-then-requeued stage sits in order twice; emit each
	// queued stage exactly once.
	out := make([]*Stage, 0, len(queued))
	for _, uri := range order {
		if l, ok := queued[uri]; ok {
			delete(queued, uri)
			out = append(out, a.session.Stages.FromLink(l))
		}
	}
	return out, nil
}

// ParentProcessLink is the raw reference to the generating process.
func (a *Artifact) ParentProcessLink(ctx context.Context) (*element.Link, error) {
	root, err := a.load(ctx)
	if err != nil {
		return nil, err
	}
	return artifactParentProcess.Link(root), nil
}

// ParentProcess resolves the generating process, or nil when the artifact
// was submitted rather than produced.
func (a *Artifact) ParentProcess(ctx context.Context) (*Process, error) {
	root, err := a.load(ctx)
	if err != nil {
		return nil, err
	}
	return a.session.Processes.FromLinkNode(root.Find("parent-process")), nil
}

// ParentStep resolves the step that produced the artifact. Steps share
// their identifier with the parent process, so the same link node serves.
func (a *Artifact) ParentStep(ctx context.Context) (*Step, error) {
	root, err := a.load(ctx)
	if err != nil {
		return nil, err
	}
	return a.session.Steps.FromLinkNode(root.Find("parent-process")), nil
}

// Sample resolves the (first) originating sample.
func (a *Artifact) Sample(ctx context.Context) (*Sample, error) {
	root, err := a.load(ctx)
	if err != nil {
		return nil, err
	}
	return a.session.Samples.FromLinkNode(root.Find("sample")), nil
}

// Samples resolves every originating sample; pooled artifacts have several.
func (a *Artifact) Samples(ctx context.Context) ([]*Sample, error) {
	root, err := a.load(ctx)
	if err != nil {
		return nil, err
	}
	return a.session.Samples.FromLinkNodes(root.FindAll("sample")), nil
}

// Container resolves the containing container from location/container.
func (a *Artifact) Container(ctx context.Context) (*Container, error) {
	root, err := a.load(ctx)
	if err != nil {
		return nil, err
	}
	return a.session.Containers.FromLinkNode(root.Find("location/container")), nil
}

// IsControl reports whether the artifact derives from a control sample.
func (a *Artifact) IsControl(ctx context.Context) (bool, error) {
	root, err := a.load(ctx)
	if err != nil {
		return false, err
	}
	return root.Find("control-type") != nil, nil
}

// ControlType resolves the control type, or nil for non-controls.
func (a *Artifact) ControlType(ctx context.Context) (*ControlType, error) {
	root, err := a.load(ctx)
	if err != nil {
		return nil, err
	}
	return a.session.ControlTypes.FromLinkNode(root.Find("control-type")), nil
}

// File returns the artifact's attached file, or a new empty file named
// after the artifact when none is attached yet.
func (a *Artifact) File(ctx context.Context) (*File, error) {
	root, err := a.load(ctx)
	if err != nil {
		return nil, err
	}
	if f := a.session.Files.FromLinkNode(root.Find(fileTag.String())); f != nil {
		return f, nil
	}
	f := a.session.Files.New()
	name, err := a.Name(ctx)
	if err != nil {
		return nil, err
	}
	if err := f.SetName(ctx, name); err != nil {
		return nil, err
	}
	return f, nil
}

// ReagentLabels returns the artifact's reagent labels.
func (a *Artifact) ReagentLabels(ctx context.Context) ([]*ReagentLabel, error) {
	root, err := a.load(ctx)
	if err != nil {
		return nil, err
	}
	return artifactReagentLabels.Values(root), nil
}

// ReagentLabelNames returns the names of all reagent labels.
func (a *Artifact) ReagentLabelNames(ctx context.Context) ([]string, error) {
	labels, err := a.ReagentLabels(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(labels))
	for _, l := range labels {
		names = append(names, l.Name())
	}
	return names, nil
}

// ReagentLabelName returns the single reagent label name, "" when there is
// none, and a *element.MultiplicityError when there are several.
func (a *Artifact) ReagentLabelName(ctx context.Context) (string, error) {
	names, err := a.ReagentLabelNames(ctx)
	if err != nil {
		return "", err
	}
	if len(names) > 1 {
		return "", &element.MultiplicityError{Field: "reagent-label", Count: len(names)}
	}
	if len(names) == 0 {
		return "", nil
	}
	return names[0], nil
}

// SetReagentLabelName writes the single reagent label, creating the node
// on first write.
func (a *Artifact) SetReagentLabelName(ctx context.Context, name string) error {
	root, err := a.load(ctx)
	if err != nil {
		return err
	}
	root.MakeSubelementWithParents("reagent-label").SetAttr("name", name)
	return nil
}

// QCState returns the raw tri-state flag; a never-written field reads as
// QCUnknown.
func (a *Artifact) QCState(ctx context.Context) (QCFlag, error) {
	root, err := a.load(ctx)
	if err != nil {
		return QCUnknown, err
	}
	v, ok := artifactQCFlag.Value(root)
	if !ok {
		return QCUnknown, nil
	}
	switch QCFlag(v) {
	case QCPassed, QCFailed:
		return QCFlag(v), nil
	default:
		return QCUnknown, nil
	}
}

// QC maps the tri-state flag to an optional bool: PASSED reads as true,
// FAILED as false, UNKNOWN or absent as nil.
func (a *Artifact) QC(ctx context.Context) (*bool, error) {
	state, err := a.QCState(ctx)
	if err != nil {
		return nil, err
	}
	switch state {
	case QCPassed:
		v := true
		return &v, nil
	case QCFailed:
		v := false
		return &v, nil
	default:
		return nil, nil
	}
}

// SetQC writes the flag from an optional bool: true is PASSED, false is
// FAILED, nil unsets by writing the UNKNOWN marker.
func (a *Artifact) SetQC(ctx context.Context, value *bool) error {
	root, err := a.load(ctx)
	if err != nil {
		return err
	}
	state := QCUnknown
	if value != nil {
		if *value {
			state = QCPassed
		} else {
			state = QCFailed
		}
	}
	return artifactQCFlag.SetValue(root, string(state))
}

// QCPassed reports whether the flag is exactly PASSED.
func (a *Artifact) QCPassed(ctx context.Context) (bool, error) {
	state, err := a.QCState(ctx)
	return state == QCPassed, err
}

// QCFailed reports whether the flag is exactly FAILED.
func (a *Artifact) QCFailed(ctx context.Context) (bool, error) {
	state, err := a.QCState(ctx)
	return state == QCFailed, err
}
