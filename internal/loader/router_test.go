package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MichalMlada/ETL-spacex/pkg/record"
)

func TestChildTable(t *testing.T) {
	assert.Equal(t, "launches_links", ChildTable("launches", "links"))
	assert.Equal(t, "launches_links_patch", ChildTable("launches_links", "patch"))
}

func TestRoute_Object(t *testing.T) {
	r := &Router{}

	exp, err := r.Route("launches", "L1", Fragment{
		Field: "links",
		Value: map[string]any{"webcast": "https://youtu.be/0a_00nJ_Y88"},
	})
	require.NoError(t, err)

	assert.Equal(t, "launches_links", exp.Table)
	require.NotNil(t, exp.ForeignKey)
	assert.Equal(t, "launches_id", exp.ForeignKey.Column)
	assert.Equal(t, "launches", exp.ForeignKey.ReferencedTable)
	assert.Equal(t, "id", exp.ForeignKey.ReferencedColumn)

	require.Len(t, exp.Records, 1)
	rec := exp.Records[0]
	assert.Equal(t, "L1", rec["launches_id"])
	assert.Equal(t, "https://youtu.be/0a_00nJ_Y88", rec["webcast"])
	assert.NotEmpty(t, rec["id"])
	assert.NotContains(t, rec, "item_index")
}

func TestRoute_ObjectKeepsEmbeddedID(t *testing.T) {
	exp, err := (&Router{}).Route("launches", "L1", Fragment{
		Field: "fairings",
		Value: map[string]any{"id": "F9", "reused": true},
	})
	require.NoError(t, err)
	assert.Equal(t, "F9", exp.Records[0]["id"])
}

func TestRoute_ObjectReplacesUnusableID(t *testing.T) {
	exp, err := (&Router{}).Route("launches", "L1", Fragment{
		Field: "fairings",
		Value: map[string]any{"id": nil, "reused": true},
	})
	require.NoError(t, err)

	rec := exp.Records[0]
	require.Contains(t, rec, "id")
	assert.NotNil(t, rec["id"])
}

func TestRoute_ArrayOfObjects(t *testing.T) {
	exp, err := (&Router{}).Route("launches", "L1", Fragment{
		Field: "cores",
		Value: []any{
			map[string]any{"core": "B1019", "flight": 1},
			map[string]any{"core": "B1021", "flight": 2},
		},
	})
	require.NoError(t, err)

	require.Len(t, exp.Records, 2)
	assert.Equal(t, 0, exp.Records[0]["item_index"])
	assert.Equal(t, 1, exp.Records[1]["item_index"])
	assert.Equal(t, "L1", exp.Records[0]["launches_id"])
	assert.Equal(t, "B1021", exp.Records[1]["core"])
	assert.NotEqual(t, exp.Records[0]["id"], exp.Records[1]["id"])
}

func TestRoute_ArrayOfScalars(t *testing.T) {
	exp, err := (&Router{}).Route("rockets", "R1", Fragment{
		Field: "flickr_images",
		Value: []any{"falcon1a.jpg", "falcon1b.jpg"},
	})
	require.NoError(t, err)

	assert.Equal(t, "rockets_flickr_images", exp.Table)
	require.Len(t, exp.Records, 2)

	first := exp.Records[0]
	assert.Equal(t, "falcon1a.jpg", first["value"])
	assert.Equal(t, 0, first["item_index"])
	assert.Equal(t, "R1", first["rockets_id"])
	assert.NotEmpty(t, first["id"])
}

func TestRoute_NestedArrayElement(t *testing.T) {
	exp, err := (&Router{}).Route("ships", "S1", Fragment{
		Field: "positions",
		Value: []any{[]any{-80.544, 28.401}},
	})
	require.NoError(t, err)

	require.Len(t, exp.Records, 1)
	value, ok := exp.Records[0]["value"].(record.Value)
	require.True(t, ok, "nested array should be carried as a document value")
	assert.Equal(t, record.KindDocument, value.Kind())
}

func TestRoute_DeterministicIDs(t *testing.T) {
	r := &Router{}
	frag := Fragment{Field: "links", Value: map[string]any{"webcast": "url"}}

	first, err := r.Route("launches", "L1", frag)
	require.NoError(t, err)
	second, err := r.Route("launches", "L1", frag)
	require.NoError(t, err)
	assert.Equal(t, first.Records[0]["id"], second.Records[0]["id"])

	other, err := r.Route("launches", "L2", frag)
	require.NoError(t, err)
	assert.NotEqual(t, first.Records[0]["id"], other.Records[0]["id"])
}

func TestRoute_RejectsScalarFragment(t *testing.T) {
	_, err := (&Router{}).Route("launches", "L1", Fragment{Field: "oops", Value: 42})
	assert.Error(t, err)
}
