package clarity

import (
	"context"

	"github.com/c360studio/clarity/element"
	"github.com/c360studio/clarity/xmldoc"
)

var controlTypeTag = xmldoc.QName{Space: "http://genologics.com/ri/controltype", Local: "control-type"}

var controlTypeMeta = element.Metadata{
	Tag:    controlTypeTag,
	Prefix: "ctrltp",
	Name:   "ControlType",
	Flags:  element.Query,
}

var (
	controlTypeSupplier  = element.Text("supplier", "supplier")
	controlTypeCatalogue = element.Text("catalogue-number", "catalogue-number")

	controlTypeFields = element.NewFieldSet(controlTypeSupplier, controlTypeCatalogue)
)

// ControlType is a configured control sample definition.
type ControlType struct {
	LimsElement
}

// Fields returns the declared field set.
func (c *ControlType) Fields() *element.FieldSet { return controlTypeFields }

// Supplier is the control vendor.
func (c *ControlType) Supplier(ctx context.Context) (string, error) {
	root, err := c.load(ctx)
	if err != nil {
		return "", err
	}
	v, _ := controlTypeSupplier.Value(root)
	return v, nil
}

// CatalogueNumber is the vendor catalogue reference.
func (c *ControlType) CatalogueNumber(ctx context.Context) (string, error) {
	root, err := c.load(ctx)
	if err != nil {
		return "", err
	}
	v, _ := controlTypeCatalogue.Value(root)
	return v, nil
}
