package html

import "strings"

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", `"`, "&quot;")
)

func escapeText(s string) string {
	return textEscaper.Replace(s)
}

func escapeAttr(s string) string {
	return attrEscaper.Replace(s)
}

// trimSpace trims HTML whitespace only. strings.TrimSpace would also eat
// U+00A0, which is content.
func trimSpace(s string) string {
	return strings.Trim(s, " \t\n\f\r")
}
