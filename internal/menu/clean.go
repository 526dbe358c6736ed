package menu

import (
	"regexp"
	"strings"
	"unicode"
)

const kcalMarker = "kcal"

var (
	// itemSeparators splits a cell into menu items. The comma makes Clean idempotent on its own output.
	itemSeparators = regexp.MustCompile(`[\n/,]`)
	// whitespace also covers Unicode spaces such as U+00A0 and U+3000.
	whitespace = regexp.MustCompile(`[\s\p{Z}]+`)
	// kcalSuffix matches a calorie note already formatted as a trailing "(...kcal...)".
	kcalSuffix = regexp.MustCompile(`\(([^()]*kcal[^()]*)\)[\s\p{Z}]*$`)
)

// Clean normalizes a raw table cell into "item, item (NNNkcal)".
//
// Items are separated by newlines, slashes or commas and lose all internal whitespace.
// An item containing "kcal" becomes the parenthesized suffix; if several do, the last wins.
// Empty and whitespace-only cells yield "".
func Clean(text string) string {
	text = strings.TrimFunc(text, isSpace)
	if text == "" {
		return ""
	}

	var kcal string
	if m := kcalSuffix.FindStringSubmatchIndex(text); m != nil {
		kcal = whitespace.ReplaceAllString(text[m[2]:m[3]], "")
		text = text[:m[0]]
	}

	items := make([]string, 0, 8)
	for _, item := range itemSeparators.Split(text, -1) {
		item = whitespace.ReplaceAllString(item, "")
		if item == "" {
			continue
		}
		if strings.Contains(item, kcalMarker) {
			kcal = unwrap(item)
			continue
		}
		items = append(items, item)
	}

	out := strings.Join(items, ", ")
	if kcal != "" {
		if out != "" {
			out += " "
		}
		out += "(" + kcal + ")"
	}
	return out
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || unicode.Is(unicode.Z, r)
}

func unwrap(item string) string {
	if strings.HasPrefix(item, "(") && strings.HasSuffix(item, ")") {
		return item[1 : len(item)-1]
	}
	return item
}
