package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vlm-vfx/FMP-plate-pusher/internal/models"
)

func testTable(t *testing.T) *Table {
	t.Helper()
	table, err := NewTable([]models.FieldMapping{
		{SourceField: "sg_latest_version", TargetField: "Plate Name", IsReference: true},
		{SourceField: "sg_slate", TargetField: "Slate"},
		{SourceField: "shot", TargetField: "ForeignKey", Transform: TransformReferenceID, IsReference: true},
	})
	require.NoError(t, err)
	return table
}

func TestBuildProducesOneRecordPerUsableEntity(t *testing.T) {
	builder := NewBuilder(testTable(t))

	entities := []models.SourceEntity{
		{
			ID: 10,
			Fields: map[string]interface{}{
				"sg_latest_version": map[string]interface{}{"id": float64(7), "name": "PL_010"},
				"sg_slate":          "A001_C002",
				"shot":              map[string]interface{}{"id": float64(501), "name": "SH010"},
			},
		},
		{
			ID: 11,
			Fields: map[string]interface{}{
				"sg_latest_version": nil,
				"sg_slate":          "",
				"shot":              nil,
			},
		},
	}

	records, statuses := builder.Build(entities)

	require.Len(t, records, 1)
	assert.Equal(t, models.TargetRecord{
		"Plate Name": "PL_010",
		"Slate":      "A001_C002",
		"ForeignKey": float64(501),
	}, records[0])

	require.Len(t, statuses, 2)
	assert.Equal(t, 10, statuses[0].SourceID)
	assert.Equal(t, models.StatusQueued, statuses[0].Status)
	assert.Equal(t, []string{"Plate Name", "Slate", "ForeignKey"}, statuses[0].Fields)

	assert.Equal(t, 11, statuses[1].SourceID)
	assert.Equal(t, models.StatusSkipped, statuses[1].Status)
	assert.Equal(t, "no mapped fields present", statuses[1].Reason)
}

func TestBuildSkipsAbsentFieldsWithoutError(t *testing.T) {
	builder := NewBuilder(testTable(t))

	records, statuses := builder.Build([]models.SourceEntity{
		{ID: 12, Fields: map[string]interface{}{"sg_slate": "B002_C001"}},
	})

	require.Len(t, records, 1)
	assert.Equal(t, models.TargetRecord{"Slate": "B002_C001"}, records[0])
	assert.Equal(t, models.StatusQueued, statuses[0].Status)
}

func TestBuildPreservesEntityOrder(t *testing.T) {
	builder := NewBuilder(testTable(t))

	entities := []models.SourceEntity{
		{ID: 3, Fields: map[string]interface{}{"sg_slate": "c"}},
		{ID: 1, Fields: map[string]interface{}{}},
		{ID: 2, Fields: map[string]interface{}{"sg_slate": "a"}},
	}

	records, statuses := builder.Build(entities)

	require.Len(t, statuses, 3)
	assert.Equal(t, []int{3, 1, 2}, []int{statuses[0].SourceID, statuses[1].SourceID, statuses[2].SourceID})
	require.Len(t, records, 2)
	assert.Equal(t, "c", records[0]["Slate"])
	assert.Equal(t, "a", records[1]["Slate"])
}
