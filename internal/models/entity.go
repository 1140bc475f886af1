package models

// SourceEntity is one entity returned by a ShotGrid query: its id plus the
// raw values of the requested fields. A raw value is a scalar, an entity
// reference (map with at least "id", optionally "name"/"code"), or a list
// of either. Immutable once built, scoped to a single request.
type SourceEntity struct {
	ID     int
	Fields map[string]interface{}
}

// TargetRecord is the fieldData of one FileMaker record to create. Fields
// that rendered to no value are absent, never empty: FileMaker treats a
// missing key as "leave unset".
type TargetRecord map[string]interface{}
