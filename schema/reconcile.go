package schema

// seedThreshold guards preset seeding: once a select field has accumulated
// this many choices it is considered user-customized and presets are no
// longer re-applied.
const seedThreshold = 5

// MissingFields computes the fields that must be created to bring an existing
// table up to the target layout. Identity is exact name equality; order
// follows the target. Existing fields are never altered, so running the
// result through the store and calling MissingFields again yields nothing.
func MissingFields(existing []ExistingField, target []FieldSpec) []FieldSpec {
	present := make(map[string]struct{}, len(existing))
	for _, f := range existing {
		present[f.Name] = struct{}{}
	}

	var missing []FieldSpec
	for _, spec := range target {
		if _, ok := present[spec.Name]; !ok {
			missing = append(missing, spec)
		}
	}
	return missing
}

// SeedChoices returns the preset choices to add to a select field. A field
// that already carries seedThreshold or more choices is treated as customized
// and left untouched. Presets already present (by name) are not re-added.
func SeedChoices(field ExistingField, presets []string) []Choice {
	if field.Kind != KindSingleSelect && field.Kind != KindMultipleSelects {
		return nil
	}
	if len(field.Choices) >= seedThreshold {
		return nil
	}

	have := make(map[string]struct{}, len(field.Choices))
	for _, c := range field.Choices {
		have[c.Name] = struct{}{}
	}

	var add []Choice
	for _, name := range presets {
		if _, ok := have[name]; ok {
			continue
		}
		add = append(add, Choice{Name: name, Color: randomChoiceColor()})
	}
	return add
}
