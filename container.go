package clarity

import (
	"context"
	"strconv"

	"github.com/c360studio/clarity/element"
	"github.com/c360studio/clarity/xmldoc"
)

var containerTag = xmldoc.QName{Space: "http://genologics.com/ri/container", Local: "container"}

var containerMeta = element.Metadata{
	Tag:    containerTag,
	Prefix: "con",
	Name:   "Container",
	Flags:  element.BatchAll,
}

var containerTypeTag = xmldoc.QName{Space: "http://genologics.com/ri/containertype", Local: "container-type"}

var (
	containerType          = element.LinkTo("type", "type", containerTypeTag)
	containerOccupiedWells = element.Text("occupied-wells", "occupied-wells")
	containerState         = element.Text("state", "state")

	containerFields = element.NewFieldSet(containerType, containerOccupiedWells, containerState)
)

// Container is a plate, tube or flow cell holding artifacts.
type Container struct {
	LimsElement
}

// Fields returns the declared field set.
func (c *Container) Fields() *element.FieldSet { return containerFields }

// TypeLink is the raw reference to the container type configuration.
func (c *Container) TypeLink(ctx context.Context) (*element.Link, error) {
	root, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	return containerType.Link(root), nil
}

// OccupiedWells is the number of filled positions, 0 when absent.
func (c *Container) OccupiedWells(ctx context.Context) (int, error) {
	root, err := c.load(ctx)
	if err != nil {
		return 0, err
	}
	v, ok := containerOccupiedWells.Value(root)
	if !ok {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, NewFatalError(err)
	}
	return n, nil
}

// State is the container lifecycle state, e.g. "Populated".
func (c *Container) State(ctx context.Context) (string, error) {
	root, err := c.load(ctx)
	if err != nil {
		return "", err
	}
	v, _ := containerState.Value(root)
	return v, nil
}

// Placements resolves the artifacts placed in the container.
func (c *Container) Placements(ctx context.Context) ([]*Artifact, error) {
	root, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	return c.session.Artifacts.FromLinkNodes(root.FindAll("placement")), nil
}
