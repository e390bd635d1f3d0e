package domain

import "strings"

// ParseFormFields turns freeform "key: value" lines into form fields.
// Keys are lower-cased; lines without both a key and a value are dropped.
// Only the first colon separates key from value.
func ParseFormFields(text string) map[string]string {
	fields := make(map[string]string)
	for _, line := range strings.Split(text, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			continue
		}
		fields[key] = value
	}
	return fields
}

// DefaultFormTemplate pre-fills the chat input with the fields the legal
// backend understands.
const DefaultFormTemplate = "name:\ngender:\nage:\nlocation:\nphone:\nid_number:\nemail:"
