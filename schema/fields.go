// Package schema defines the destination table's target field layout and the
// reconciliation rules that grow an existing table toward it. Migrations are
// strictly additive: fields are created when missing, never renamed, retyped,
// or removed, and choice sets only ever gain entries.
package schema

// FieldKind enumerates the destination store's field types.
type FieldKind string

const (
	KindSingleLineText      FieldKind = "singleLineText"
	KindMultilineText       FieldKind = "multilineText"
	KindURL                 FieldKind = "url"
	KindNumber              FieldKind = "number"
	KindPercent             FieldKind = "percent"
	KindCurrency            FieldKind = "currency"
	KindDuration            FieldKind = "duration"
	KindDate                FieldKind = "date"
	KindDateTime            FieldKind = "dateTime"
	KindCheckbox            FieldKind = "checkbox"
	KindRating              FieldKind = "rating"
	KindSingleSelect        FieldKind = "singleSelect"
	KindMultipleSelects     FieldKind = "multipleSelects"
	KindMultipleAttachments FieldKind = "multipleAttachments"
	KindMultipleRecordLinks FieldKind = "multipleRecordLinks"
	KindEmail               FieldKind = "email"
	KindPhoneNumber         FieldKind = "phoneNumber"
	KindSingleCollaborator  FieldKind = "singleCollaborator"
)

// FieldSpec describes one field the destination table should have.
type FieldSpec struct {
	Name        string
	Kind        FieldKind
	Description string
}

// Choice is one enumerated value in a select field's choice set.
type Choice struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// ExistingField is a field as reported by the destination store. Identity is
// the exact, case-sensitive name. Choices is populated only for select kinds.
type ExistingField struct {
	Name    string
	Kind    FieldKind
	Choices []Choice
}

// VideoFields is the target layout for the video entity, in creation order.
// The first field is the table's primary field.
func VideoFields() []FieldSpec {
	return []FieldSpec{
		{Name: "Title", Kind: KindSingleLineText},
		{Name: "Video ID", Kind: KindSingleLineText},
		{Name: "Video URL", Kind: KindURL},
		{Name: "View Count", Kind: KindNumber},
		{Name: "Like Count", Kind: KindNumber},
		{Name: "Comment Count", Kind: KindNumber},
		{Name: "Duration", Kind: KindDuration},
		{Name: "Description", Kind: KindMultilineText},
		{Name: "Region Code", Kind: KindSingleLineText},
		{Name: "Upload Date", Kind: KindDate},
		{Name: "Video Tags", Kind: KindMultipleSelects},
		{Name: "Video Definition", Kind: KindSingleLineText},
		{Name: "Video Thumbnail", Kind: KindMultipleAttachments},
		{Name: "Content Type", Kind: KindSingleSelect},
		{Name: "Channel Name", Kind: KindSingleLineText},
		{Name: "Channel Subscribers", Kind: KindNumber},
		{Name: "Channel View Count", Kind: KindNumber},
		{Name: "Channel Total Videos", Kind: KindNumber},
		{Name: "Channel URL", Kind: KindURL},
		{Name: "Format Type", Kind: KindSingleSelect},
		{Name: "Themes", Kind: KindMultipleSelects},
		{Name: "Not Relevant?", Kind: KindCheckbox},
		{Name: "Data Checked?", Kind: KindCheckbox},
		{Name: "Platform", Kind: KindSingleLineText},
	}
}

// ChannelFields is the target layout for the channel entity, in creation order.
func ChannelFields() []FieldSpec {
	return []FieldSpec{
		{Name: "Channel Name", Kind: KindSingleLineText},
		{Name: "Channel ID", Kind: KindSingleLineText},
		{Name: "Channel URL", Kind: KindURL},
		{Name: "Description", Kind: KindMultilineText},
		{Name: "Country", Kind: KindSingleLineText},
		{Name: "Channel Subscribers", Kind: KindNumber},
		{Name: "Channel View Count", Kind: KindNumber},
		{Name: "Channel Total Videos", Kind: KindNumber},
		{Name: "Posts Per Year", Kind: KindNumber},
		{Name: "Posts Per Month", Kind: KindNumber},
		{Name: "Themes", Kind: KindMultipleSelects},
		{Name: "Not Relevant?", Kind: KindCheckbox},
		{Name: "Data Checked?", Kind: KindCheckbox},
		{Name: "Platform", Kind: KindSingleLineText},
	}
}

// PresetChoices returns the starter choice set for a target field, if any.
// These are seeded once into a fresh select field; a customized field is left
// alone (see SeedChoices).
func PresetChoices(fieldName string) []string {
	switch fieldName {
	case "Content Type":
		return []string{"video", "short"}
	case "Format Type":
		return []string{"Short Form", "Long Form", "Livestream", "Trailer", "Compilation"}
	case "Themes":
		return []string{"Comedy", "Education", "Gaming", "Music", "News", "Sport"}
	default:
		return nil
	}
}
