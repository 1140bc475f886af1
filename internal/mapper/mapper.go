package mapper

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vlm-vfx/FMP-plate-pusher/internal/models"
)

// listSeparator joins rendered list elements in a FileMaker field.
const listSeparator = ", "

// Table is the field mapping table: an ordered, read-only set of
// ShotGrid-to-FileMaker field associations. Built once at startup and
// shared across requests.
type Table struct {
	entries []models.FieldMapping
}

// NewTable validates the entries and returns an immutable table. Source and
// target field names must each be unique (the mapping is one-to-one).
func NewTable(entries []models.FieldMapping) (*Table, error) {
	bySource := make(map[string]bool, len(entries))
	byTarget := make(map[string]bool, len(entries))

	kept := make([]models.FieldMapping, 0, len(entries))
	for _, e := range entries {
		if e.SourceField == "" || e.TargetField == "" {
			return nil, fmt.Errorf("mapping entry with empty source or target field")
		}
		if bySource[e.SourceField] {
			return nil, fmt.Errorf("duplicate source field in mapping table: %s", e.SourceField)
		}
		if byTarget[e.TargetField] {
			return nil, fmt.Errorf("duplicate target field in mapping table: %s", e.TargetField)
		}
		if e.Transform != "" {
			if _, ok := transforms[e.Transform]; !ok {
				return nil, fmt.Errorf("unknown transform %q for field %s", e.Transform, e.SourceField)
			}
		}
		bySource[e.SourceField] = true
		byTarget[e.TargetField] = true
		kept = append(kept, e)
	}

	return &Table{entries: kept}, nil
}

// Default returns the built-in plate mapping table.
func Default() *Table {
	t, err := NewTable(DefaultMappings())
	if err != nil {
		// The built-in table is validated by tests; reaching this is a bug.
		panic(err)
	}
	return t
}

// DefaultMappings returns the built-in mapping entries, used both as the
// fallback table and as the seed for the field_mappings table.
func DefaultMappings() []models.FieldMapping {
	return []models.FieldMapping{
		{SourceField: "sg_latest_version", TargetField: "Plate Name", IsReference: true, IsActive: true},
		{SourceField: "sg_slate", TargetField: "Slate", IsActive: true},
		{SourceField: "sg_camera_file_name", TargetField: "Source File Name", IsActive: true},
		{SourceField: "sg_source_in", TargetField: "Timecode In", IsActive: true},
		{SourceField: "sg_source_out", TargetField: "Timecode Out", IsActive: true},
		{SourceField: "sg_turnover", TargetField: "Turnover Package", IsActive: true},
		{SourceField: "sg_head_in", TargetField: "Head In", IsActive: true},
		{SourceField: "sg_cut_in", TargetField: "Cut In", IsActive: true},
		{SourceField: "sg_cut_out", TargetField: "Cut Out", IsActive: true},
		{SourceField: "sg_tail_out", TargetField: "Tail Out", IsActive: true},
		{SourceField: "sg_lut", TargetField: "LUT", IsActive: true},
		{SourceField: "description", TargetField: "Notes", IsActive: true},
		{SourceField: "shot", TargetField: "ForeignKey", Transform: TransformReferenceID, IsReference: true, IsActive: true},
	}
}

// Entries returns a copy of the mapping entries in table order.
func (t *Table) Entries() []models.FieldMapping {
	out := make([]models.FieldMapping, len(t.entries))
	copy(out, t.entries)
	return out
}

// RequestFields builds the ShotGrid field list for a query: the entity's
// own id, then every mapped source field in first-seen order. Reference
// fields additionally request their id/name/code sub-fields so rendering
// needs no second round trip.
func (t *Table) RequestFields() []string {
	fields := []string{"id"}
	seen := map[string]bool{"id": true}

	add := func(f string) {
		if !seen[f] {
			seen[f] = true
			fields = append(fields, f)
		}
	}

	for _, e := range t.entries {
		add(e.SourceField)
		if e.IsReference {
			add(e.SourceField + ".id")
			add(e.SourceField + ".name")
			add(e.SourceField + ".code")
		}
	}

	return fields
}

// Render converts one raw source value into a FileMaker scalar. The second
// return value is false when the field should be omitted entirely.
//
// Rules, in priority order: a registered transform wins (its failures
// degrade to "no value"); an entity reference renders as its name, else its
// id; a list renders each element and joins them; scalars pass through.
func Render(entry models.FieldMapping, raw interface{}) (interface{}, bool) {
	if raw == nil {
		return nil, false
	}

	if entry.Transform != "" {
		return applyTransform(entry.Transform, raw)
	}

	switch v := raw.(type) {
	case map[string]interface{}:
		return renderReference(v)
	case []interface{}:
		return renderList(v)
	case string:
		if v == "" {
			return nil, false
		}
		return v, true
	default:
		return v, true
	}
}

func renderReference(ref map[string]interface{}) (interface{}, bool) {
	if len(ref) == 0 {
		return nil, false
	}
	if name, ok := ref["name"].(string); ok && name != "" {
		return name, true
	}
	if id, ok := ref["id"]; ok && id != nil {
		return id, true
	}
	return nil, false
}

func renderList(list []interface{}) (interface{}, bool) {
	if len(list) == 0 {
		return nil, false
	}

	parts := make([]string, 0, len(list))
	for _, el := range list {
		if ref, ok := el.(map[string]interface{}); ok {
			if v, ok := renderReference(ref); ok {
				parts = append(parts, stringify(v))
			}
			continue
		}
		if el == nil {
			continue
		}
		if s := stringify(el); s != "" {
			parts = append(parts, s)
		}
	}

	if len(parts) == 0 {
		return nil, false
	}
	return strings.Join(parts, listSeparator), true
}

func stringify(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
