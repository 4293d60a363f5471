package clarity

import (
	"context"

	"github.com/c360studio/clarity/element"
	"github.com/c360studio/clarity/xmldoc"
)

var sampleTag = xmldoc.QName{Space: "http://genologics.com/ri/sample", Local: "sample"}

var sampleMeta = element.Metadata{
	Tag:    sampleTag,
	Prefix: "smp",
	Name:   "Sample",
	Flags:  element.BatchAll,
}

var projectTag = xmldoc.QName{Space: "http://genologics.com/ri/project", Local: "project"}

var (
	sampleDateReceived  = element.Text("date-received", "date-received")
	sampleDateCompleted = element.Text("date-completed", "date-completed")
	sampleProject       = element.LinkTo("project", "project", projectTag)

	sampleFields = element.NewFieldSet(sampleDateReceived, sampleDateCompleted, sampleProject)
)

// Sample is a submitted sample record.
type Sample struct {
	LimsElement
}

// Fields returns the declared field set.
func (s *Sample) Fields() *element.FieldSet { return sampleFields }

// DateReceived is the submission date.
func (s *Sample) DateReceived(ctx context.Context) (string, error) {
	root, err := s.load(ctx)
	if err != nil {
		return "", err
	}
	v, _ := sampleDateReceived.Value(root)
	return v, nil
}

// SetDateReceived writes the submission date.
func (s *Sample) SetDateReceived(ctx context.Context, date string) error {
	root, err := s.load(ctx)
	if err != nil {
		return err
	}
	return sampleDateReceived.SetValue(root, date)
}

// DateCompleted is the completion date, empty while in progress.
func (s *Sample) DateCompleted(ctx context.Context) (string, error) {
	root, err := s.load(ctx)
	if err != nil {
		return "", err
	}
	v, _ := sampleDateCompleted.Value(root)
	return v, nil
}

// ProjectLink is the raw reference to the owning project.
func (s *Sample) ProjectLink(ctx context.Context) (*element.Link, error) {
	root, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return sampleProject.Link(root), nil
}

// Artifact resolves the sample's root analyte artifact.
func (s *Sample) Artifact(ctx context.Context) (*Artifact, error) {
	root, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return s.session.Artifacts.FromLinkNode(root.Find(artifactTag.String())), nil
}
