package element

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/clarity/xmldoc"
)

func testFieldSet() *FieldSet {
	return NewFieldSet(
		Attr("name", "name"),
		Text("date-received", "date-received"),
		Attr("limsid", "limsid", ReadOnly()),
	)
}

func TestToMapCollectsDeclaredFields(t *testing.T) {
	_, root := sampleRoot(t)
	m := testFieldSet().ToMap(root)

	assert.Equal(t, "Blood-01", m["name"])
	assert.Equal(t, "2024-03-01", m["date-received"])
	assert.Equal(t, "S1", m["limsid"])
}

func TestToMapTreatsAbsentAsNil(t *testing.T) {
	_, root := sampleRoot(t)
	fs := testFieldSet().Extend(Text("note", "note"))
	m := fs.ToMap(root)

	v, present := m["note"]
	assert.True(t, present)
	assert.Nil(t, v)
}

func TestApplyMapWritesThroughDescriptors(t *testing.T) {
	_, root := sampleRoot(t)
	fs := testFieldSet()

	err := fs.ApplyMap(root, map[string]any{
		"name":          "Blood-09",
		"date-received": "2024-06-01",
	})
	require.NoError(t, err)

	m := fs.ToMap(root)
	assert.Equal(t, "Blood-09", m["name"])
	assert.Equal(t, "2024-06-01", m["date-received"])
}

func TestApplyMapRejectsReadOnlyField(t *testing.T) {
	_, root := sampleRoot(t)
	err := testFieldSet().ApplyMap(root, map[string]any{"limsid": "S2"})

	var roErr *ReadOnlyError
	require.ErrorAs(t, err, &roErr)
	assert.Equal(t, "limsid", roErr.Field)
}

func TestApplyMapRejectsUndeclaredField(t *testing.T) {
	_, root := sampleRoot(t)
	err := testFieldSet().ApplyMap(root, map[string]any{"bogus": "x"})
	assert.Error(t, err)
}

func TestApplyToMapIsIdempotent(t *testing.T) {
	_, root := sampleRoot(t)
	writable := NewFieldSet(
		Attr("name", "name"),
		Text("date-received", "date-received"),
	)

	once := writable.ToMap(root)
	require.NoError(t, writable.ApplyMap(root, once))
	after1 := writable.ToMap(root)
	require.NoError(t, writable.ApplyMap(root, after1))
	after2 := writable.ToMap(root)

	assert.Equal(t, once, after1)
	assert.Equal(t, after1, after2)
}

type failingField struct{}

func (failingField) Name() string                  { return "broken" }
func (failingField) ReadOnly() bool                { return false }
func (failingField) Get(*xmldoc.Node) (any, error) { return nil, assert.AnError }
func (failingField) Set(*xmldoc.Node, any) error   { return assert.AnError }

func TestToMapOmitsErroringFields(t *testing.T) {
	_, root := sampleRoot(t)
	fs := testFieldSet().Extend(failingField{})
	m := fs.ToMap(root)

	_, present := m["broken"]
	assert.False(t, present)
	assert.Equal(t, "Blood-01", m["name"])
}

func TestExtendPreservesOrder(t *testing.T) {
	base := NewFieldSet(Text("a", "a"), Text("b", "b"))
	ext := base.Extend(Text("c", "c"))

	var names []string
	for _, f := range ext.Fields() {
		names = append(names, f.Name())
	}
	assert.Equal(t, []string{"a", "b", "c"}, names)

	// The base set is not mutated.
	assert.Len(t, base.Fields(), 2)
}

func TestMetadataConventions(t *testing.T) {
	tests := []struct {
		name       string
		meta       Metadata
		collection string
		nameAttr   string
	}{
		{"defaults", Metadata{Name: "TestElement"}, "testelements", "name"},
		{"explicit path verbatim", Metadata{Name: "Process", RequestPath: "processes"}, "processes", "name"},
		{"no pluralization on override", Metadata{Name: "Stage", RequestPath: "configuration/workflows"}, "configuration/workflows", "name"},
		{"name attribute override", Metadata{Name: "File", NameAttribute: "original-location"}, "files", "original-location"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.collection, tt.meta.CollectionName())
			assert.Equal(t, tt.nameAttr, tt.meta.NameAttr())
		})
	}
}
