package xmldoc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const artifactXML = `<?xml version="1.0" encoding="UTF-8"?>
<art:artifact xmlns:art="http://genologics.com/ri/artifact" uri="http://localhost/api/v2/artifacts/A1" limsid="A1" name="Sample-1">
  <type>Analyte</type>
  <output-type>Analyte</output-type>
  <location>
    <container uri="http://localhost/api/v2/containers/C1" limsid="C1"/>
    <value>A:1</value>
  </location>
  <workflow-stages>
    <workflow-stage status="QUEUED" name="Stage A" uri="http://localhost/api/v2/stages/S1"/>
    <workflow-stage status="QUEUED" name="Stage B" uri="http://localhost/api/v2/stages/S2"/>
  </workflow-stages>
</art:artifact>`

func parseArtifact(t *testing.T) *Document {
	t.Helper()
	doc, err := Parse([]byte(artifactXML), "http://localhost/api/v2/artifacts/A1")
	require.NoError(t, err)
	return doc
}

func TestParseQName(t *testing.T) {
	tests := []struct {
		input string
		want  QName
	}{
		{"type", QName{Local: "type"}},
		{"{http://genologics.com/ri/artifact}artifact", QName{Space: "http://genologics.com/ri/artifact", Local: "artifact"}},
		{"{}unqualified", QName{Local: "unqualified"}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseQName(tt.input))
		})
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse([]byte("not xml <<<"), "")
	assert.Error(t, err)

	_, err = Parse(nil, "")
	assert.Error(t, err)
}

func TestRootTagIsNamespaceQualified(t *testing.T) {
	doc := parseArtifact(t)
	tag := doc.Root().Tag()
	assert.Equal(t, "http://genologics.com/ri/artifact", tag.Space)
	assert.Equal(t, "artifact", tag.Local)
}

func TestFindNestedPath(t *testing.T) {
	doc := parseArtifact(t)
	root := doc.Root()

	n := root.Find("location/value")
	require.NotNil(t, n)
	assert.Equal(t, "A:1", n.Text())

	assert.Nil(t, root.Find("location/missing"))
	assert.Nil(t, root.Find("no-such-node"))
}

func TestFindAllReturnsDocumentOrder(t *testing.T) {
	doc := parseArtifact(t)
	stages := doc.Root().FindAll("workflow-stages/workflow-stage")
	require.Len(t, stages, 2)

	first, _ := stages[0].Attr("name")
	second, _ := stages[1].Attr("name")
	assert.Equal(t, "Stage A", first)
	assert.Equal(t, "Stage B", second)
}

func TestGetTextAbsentIsNotAnError(t *testing.T) {
	doc := parseArtifact(t)
	_, ok := doc.Root().GetText("qc-flag")
	assert.False(t, ok)

	v, ok := doc.Root().GetText("type")
	assert.True(t, ok)
	assert.Equal(t, "Analyte", v)
}

func TestSetTextAutoVivifiesAndMarksDirty(t *testing.T) {
	doc := parseArtifact(t)
	require.False(t, doc.Dirty())

	doc.Root().SetText("sample-details/note/value", "hello")
	assert.True(t, doc.Dirty())

	v, ok := doc.Root().GetText("sample-details/note/value")
	require.True(t, ok)
	assert.Equal(t, "hello", v)
}

func TestSetTextOverwritesExisting(t *testing.T) {
	doc := parseArtifact(t)
	doc.Root().SetText("type", "ResultFile")

	v, _ := doc.Root().GetText("type")
	assert.Equal(t, "ResultFile", v)
	// No duplicate node was created.
	assert.Len(t, doc.Root().FindAll("type"), 1)
}

func TestMakeSubelementWithParentsReusesExisting(t *testing.T) {
	doc := parseArtifact(t)

	a := doc.Root().MakeSubelementWithParents("reagent-label")
	b := doc.Root().MakeSubelementWithParents("reagent-label")
	a.SetAttr("name", "IDT-1")

	v, ok := b.Attr("name")
	require.True(t, ok)
	assert.Equal(t, "IDT-1", v)
	assert.Len(t, doc.Root().FindAll("reagent-label"), 1)
}

func TestMakeSubelementWithParentsPanicsOnMalformedPath(t *testing.T) {
	doc := parseArtifact(t)
	assert.Panics(t, func() {
		doc.Root().MakeSubelementWithParents("../escape")
	})
	assert.Panics(t, func() {
		doc.Root().MakeSubelementWithParents("{http://ns}qualified")
	})
}

func TestAttrAccess(t *testing.T) {
	doc := parseArtifact(t)
	root := doc.Root()

	v, ok := root.Attr("limsid")
	require.True(t, ok)
	assert.Equal(t, "A1", v)

	_, ok = root.Attr("missing")
	assert.False(t, ok)

	require.False(t, doc.Dirty())
	root.SetAttr("name", "Renamed")
	assert.True(t, doc.Dirty())
	v, _ = root.Attr("name")
	assert.Equal(t, "Renamed", v)
}

func TestDirtyLifecycle(t *testing.T) {
	doc := parseArtifact(t)
	doc.Root().SetText("type", "x")
	require.True(t, doc.Dirty())
	doc.ClearDirty()
	assert.False(t, doc.Dirty())
	doc.MarkDirty()
	assert.True(t, doc.Dirty())
}

func TestNewCreatesPrefixedRoot(t *testing.T) {
	doc := New("art", QName{Space: "http://genologics.com/ri/artifact", Local: "artifact"})
	out, err := doc.Bytes()
	require.NoError(t, err)
	assert.Contains(t, string(out), `xmlns:art="http://genologics.com/ri/artifact"`)
	assert.Equal(t, QName{Space: "http://genologics.com/ri/artifact", Local: "artifact"}, doc.Root().Tag())
}

func TestAppendCopyIsDeep(t *testing.T) {
	src := parseArtifact(t)
	dst := New("ri", QName{Space: "http://genologics.com/ri", Local: "details"})

	copied := dst.Root().AppendCopy(src.Root())
	copied.SetText("type", "Changed")

	// Source tree is untouched.
	v, _ := src.Root().GetText("type")
	assert.Equal(t, "Analyte", v)
	assert.True(t, dst.Dirty())
}

func TestBytesRoundTrip(t *testing.T) {
	doc := parseArtifact(t)
	doc.Root().SetText("qc-flag", "PASSED")

	out, err := doc.Bytes()
	require.NoError(t, err)

	again, err := Parse(out, doc.URI())
	require.NoError(t, err)
	v, ok := again.Root().GetText("qc-flag")
	require.True(t, ok)
	assert.Equal(t, "PASSED", v)
	assert.False(t, again.Dirty())
}

func TestQualifiedChildLookup(t *testing.T) {
	xml := strings.Replace(artifactXML,
		"</art:artifact>",
		`<file:file xmlns:file="http://genologics.com/ri/file" uri="http://localhost/api/v2/files/F1" limsid="F1"/></art:artifact>`, 1)
	doc, err := Parse([]byte(xml), "")
	require.NoError(t, err)

	// Bare local names do not match namespaced children.
	assert.Nil(t, doc.Root().Find("file"))

	n := doc.Root().Find("{http://genologics.com/ri/file}file")
	require.NotNil(t, n)
	v, _ := n.Attr("limsid")
	assert.Equal(t, "F1", v)
}

func TestQualifiedSegmentInNestedPath(t *testing.T) {
	// The slashes inside a namespace URI must not split the path.
	doc, err := Parse([]byte(`<root>
		<wrap>
			<f:file xmlns:f="http://genologics.com/ri/file"><checksum>abc</checksum></f:file>
		</wrap>
	</root>`), "")
	require.NoError(t, err)

	n := doc.Root().Find("wrap/{http://genologics.com/ri/file}file/checksum")
	require.NotNil(t, n)
	assert.Equal(t, "abc", n.Text())

	v, ok := doc.Root().GetText("wrap/{http://genologics.com/ri/file}file/checksum")
	require.True(t, ok)
	assert.Equal(t, "abc", v)
}
