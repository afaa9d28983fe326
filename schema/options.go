package schema

import (
	"errors"
	"fmt"
)

// ErrUnknownFieldKind indicates a FieldKind outside the supported enumeration.
// It marks a defect in the target schema definition, not a runtime condition,
// and callers abort the run when they see it.
var ErrUnknownFieldKind = errors.New("unknown field kind")

// FieldOptions is the kind-specific option payload sent to the destination
// store when creating a field.
type FieldOptions map[string]any

// OptionsFor returns the canonical option payload for a field kind. Kinds
// without options return nil. An unrecognized kind is a configuration error.
func OptionsFor(kind FieldKind) (FieldOptions, error) {
	switch kind {
	case KindSingleLineText,
		KindMultilineText,
		KindURL,
		KindMultipleAttachments,
		KindMultipleRecordLinks,
		KindEmail,
		KindPhoneNumber,
		KindSingleCollaborator:
		return nil, nil
	case KindDuration:
		return FieldOptions{"durationFormat": "h:mm:ss"}, nil
	case KindNumber:
		return FieldOptions{"precision": 0}, nil
	case KindPercent:
		return FieldOptions{"precision": 5}, nil
	case KindCurrency:
		return FieldOptions{"precision": 2, "symbol": "$"}, nil
	case KindSingleSelect, KindMultipleSelects:
		return FieldOptions{"choices": []Choice{}}, nil
	case KindDate:
		return FieldOptions{
			"dateFormat": map[string]string{"name": "friendly", "format": "LL"},
		}, nil
	case KindDateTime:
		return FieldOptions{
			"dateFormat": map[string]string{"name": "friendly", "format": "LL"},
			"timeFormat": map[string]string{"name": "24hour", "format": "HH:mm"},
			"timeZone":   "utc",
		}, nil
	case KindCheckbox:
		return FieldOptions{"icon": "check", "color": "greenBright"}, nil
	case KindRating:
		return FieldOptions{"icon": "star", "max": 5, "color": "yellowBright"}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFieldKind, kind)
	}
}
