package clarity

import (
	"context"

	"github.com/c360studio/clarity/element"
	"github.com/c360studio/clarity/xmldoc"
)

var fileTag = xmldoc.QName{Space: "http://genologics.com/ri/file", Local: "file"}

var fileMeta = element.Metadata{
	Tag:    fileTag,
	Prefix: "file",
	Name:   "File",
	Flags:  element.BatchGet | element.BatchUpdate | element.Query,
}

var (
	fileAttachedTo       = element.LinkTo("attached-to", "attached-to", artifactTag)
	fileContentLocation  = element.Text("content-location", "content-location")
	fileOriginalLocation = element.Text("original-location", "original-location")
	fileIsPublished      = element.Text("is-published", "is-published")

	fileFields = element.NewFieldSet(fileAttachedTo, fileContentLocation, fileOriginalLocation, fileIsPublished)
)

// File is metadata for a file attached to an artifact or project. Content
// transfer is out of scope; only the record is modeled.
type File struct {
	LimsElement
}

// Fields returns the declared field set.
func (f *File) Fields() *element.FieldSet { return fileFields }

// AttachedToLink is the raw reference to the owning record.
func (f *File) AttachedToLink(ctx context.Context) (*element.Link, error) {
	root, err := f.load(ctx)
	if err != nil {
		return nil, err
	}
	return fileAttachedTo.Link(root), nil
}

// ContentLocation is where the file content lives on the server side.
func (f *File) ContentLocation(ctx context.Context) (string, error) {
	root, err := f.load(ctx)
	if err != nil {
		return "", err
	}
	v, _ := fileContentLocation.Value(root)
	return v, nil
}

// OriginalLocation is the upload-time path of the file.
func (f *File) OriginalLocation(ctx context.Context) (string, error) {
	root, err := f.load(ctx)
	if err != nil {
		return "", err
	}
	v, _ := fileOriginalLocation.Value(root)
	return v, nil
}

// SetOriginalLocation records the upload-time path.
func (f *File) SetOriginalLocation(ctx context.Context, path string) error {
	root, err := f.load(ctx)
	if err != nil {
		return err
	}
	return fileOriginalLocation.SetValue(root, path)
}

// IsPublished reports whether the file is visible in lab view.
func (f *File) IsPublished(ctx context.Context) (bool, error) {
	root, err := f.load(ctx)
	if err != nil {
		return false, err
	}
	v, _ := fileIsPublished.Value(root)
	return v == "true", nil
}

// SetPublished toggles lab-view visibility.
func (f *File) SetPublished(ctx context.Context, published bool) error {
	root, err := f.load(ctx)
	if err != nil {
		return err
	}
	v := "false"
	if published {
		v = "true"
	}
	return fileIsPublished.SetValue(root, v)
}
