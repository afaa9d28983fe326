package schema

import "math/rand"

// MaxChoicesPerField is the destination store's hard ceiling on the size of a
// select field's choice set. Labels beyond it are dropped, not errored.
const MaxChoicesPerField = 10000

// choicePalette is the fixed set of color tokens assigned to new choices.
// Color is cosmetic; repeats across choices are fine.
var choicePalette = [10]string{
	"blueBright",
	"cyanBright",
	"tealBright",
	"greenBright",
	"yellowBright",
	"orangeBright",
	"redBright",
	"pinkBright",
	"purpleBright",
	"grayBright",
}

func randomChoiceColor() string {
	return choicePalette[rand.Intn(len(choicePalette))]
}

// DedupeLabels removes duplicate labels, keeping the first occurrence of each.
func DedupeLabels(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	var unique []string
	for _, l := range labels {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		unique = append(unique, l)
	}
	return unique
}

// ChoiceAdditions converts new labels into choice-set additions for a field
// that already holds existingCount choices, truncating at the ceiling. The
// second return reports whether anything was dropped so the caller can tally
// it; hitting the ceiling is not an error.
func ChoiceAdditions(existingCount int, labels []string, maxChoices int) ([]Choice, bool) {
	if maxChoices <= 0 {
		maxChoices = MaxChoicesPerField
	}

	room := maxChoices - existingCount
	if room < 0 {
		room = 0
	}

	truncated := len(labels) > room
	if truncated {
		labels = labels[:room]
	}

	additions := make([]Choice, 0, len(labels))
	for _, l := range labels {
		additions = append(additions, Choice{Name: l, Color: randomChoiceColor()})
	}
	return additions, truncated
}
