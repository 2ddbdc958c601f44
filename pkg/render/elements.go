package render

// isInlineElement reports whether pretty output keeps tag on the line of its
// parent. It covers the inline tags pkg/html builds.
func isInlineElement(tag string) bool {
	switch tag {
	case "a", "b", "br", "code", "em", "i", "img", "kbd", "label",
		"mark", "small", "span", "strong", "time":
		return true
	}
	return false
}

// isBooleanAttr reports whether an empty value renders as the bare name.
// These are the flags pkg/html sets (disabled, hidden, ...), the checked and
// selected properties, plus open and multiple.
func isBooleanAttr(name string) bool {
	switch name {
	case "autofocus", "checked", "disabled", "hidden", "multiple",
		"open", "readonly", "required", "selected":
		return true
	}
	return false
}
