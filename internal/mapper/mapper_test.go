package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vlm-vfx/FMP-plate-pusher/internal/models"
)

func TestNewTableRejectsDuplicates(t *testing.T) {
	_, err := NewTable([]models.FieldMapping{
		{SourceField: "sg_slate", TargetField: "Slate"},
		{SourceField: "sg_slate", TargetField: "Other"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate source field")

	_, err = NewTable([]models.FieldMapping{
		{SourceField: "sg_slate", TargetField: "Slate"},
		{SourceField: "sg_other", TargetField: "Slate"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate target field")
}

func TestNewTableRejectsUnknownTransform(t *testing.T) {
	_, err := NewTable([]models.FieldMapping{
		{SourceField: "shot", TargetField: "ForeignKey", Transform: "no_such_transform"},
	})
	require.Error(t, err)
}

func TestDefaultTableIsValid(t *testing.T) {
	assert.NotPanics(t, func() { Default() })
	assert.Len(t, Default().Entries(), 13)
}

func TestRequestFields(t *testing.T) {
	table, err := NewTable([]models.FieldMapping{
		{SourceField: "sg_slate", TargetField: "Slate"},
		{SourceField: "shot", TargetField: "ForeignKey", Transform: TransformReferenceID, IsReference: true},
	})
	require.NoError(t, err)

	fields := table.RequestFields()
	assert.Equal(t, []string{"id", "sg_slate", "shot", "shot.id", "shot.name", "shot.code"}, fields)
}

func TestRenderScalars(t *testing.T) {
	entry := models.FieldMapping{SourceField: "sg_slate", TargetField: "Slate"}

	v, ok := Render(entry, "A001_C002")
	require.True(t, ok)
	assert.Equal(t, "A001_C002", v)

	v, ok = Render(entry, float64(42))
	require.True(t, ok)
	assert.Equal(t, float64(42), v)

	_, ok = Render(entry, nil)
	assert.False(t, ok)

	_, ok = Render(entry, "")
	assert.False(t, ok)
}

func TestRenderReference(t *testing.T) {
	entry := models.FieldMapping{SourceField: "sg_latest_version", TargetField: "Plate Name", IsReference: true}

	v, ok := Render(entry, map[string]interface{}{"id": float64(88), "name": "PL_010"})
	require.True(t, ok)
	assert.Equal(t, "PL_010", v)

	// Name absent: fall back to the id.
	v, ok = Render(entry, map[string]interface{}{"id": float64(88)})
	require.True(t, ok)
	assert.Equal(t, float64(88), v)

	_, ok = Render(entry, map[string]interface{}{})
	assert.False(t, ok)
}

func TestRenderReferenceIDTransform(t *testing.T) {
	entry := models.FieldMapping{SourceField: "shot", TargetField: "ForeignKey", Transform: TransformReferenceID}

	// The id wins even when a name is present.
	v, ok := Render(entry, map[string]interface{}{"id": float64(501), "name": "SH010"})
	require.True(t, ok)
	assert.Equal(t, float64(501), v)

	_, ok = Render(entry, map[string]interface{}{"name": "SH010"})
	assert.False(t, ok)
}

func TestTransformFailureDegradesToNoValue(t *testing.T) {
	entry := models.FieldMapping{SourceField: "shot", TargetField: "ForeignKey", Transform: TransformReferenceID}

	// A scalar where a reference is expected panics inside the transform;
	// the field is omitted, never an error.
	assert.NotPanics(t, func() {
		_, ok := Render(entry, "not-a-reference")
		assert.False(t, ok)
	})
}

func TestRenderList(t *testing.T) {
	entry := models.FieldMapping{SourceField: "sg_lut", TargetField: "LUT"}

	v, ok := Render(entry, []interface{}{
		map[string]interface{}{"id": float64(1), "name": "show_lut"},
		map[string]interface{}{"id": float64(2)},
		"rec709",
		float64(3),
	})
	require.True(t, ok)
	assert.Equal(t, "show_lut, 2, rec709, 3", v)

	_, ok = Render(entry, []interface{}{})
	assert.False(t, ok)

	_, ok = Render(entry, []interface{}{nil, ""})
	assert.False(t, ok)
}
