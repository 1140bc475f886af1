package mapper

// Named transforms registered in the mapping table.
const (
	// TransformReferenceID renders a reference field as the referenced
	// record's id rather than its name. Used for FileMaker foreign keys.
	TransformReferenceID = "reference_id"
)

type transformFunc func(raw interface{}) (interface{}, bool)

var transforms = map[string]transformFunc{
	TransformReferenceID: referenceID,
}

// applyTransform runs a registered transform. A transform that panics or
// yields nothing degrades to "no value"; it never fails the entity.
func applyTransform(name string, raw interface{}) (value interface{}, ok bool) {
	fn, found := transforms[name]
	if !found {
		return nil, false
	}

	defer func() {
		if r := recover(); r != nil {
			value, ok = nil, false
		}
	}()

	return fn(raw)
}

func referenceID(raw interface{}) (interface{}, bool) {
	ref := raw.(map[string]interface{})
	id, present := ref["id"]
	if !present || id == nil {
		return nil, false
	}
	return id, true
}
