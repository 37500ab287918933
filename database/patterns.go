package database

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike makes s match literally inside a LIKE/ILIKE pattern.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// ContainsPattern matches s anywhere in the column.
func ContainsPattern(s string) string {
	return "%" + EscapeLike(s) + "%"
}

// SubsequencePattern matches every rune of s in order, with anything in
// between: "bat" becomes "%b%a%t%".
func SubsequencePattern(s string) string {
	var b strings.Builder
	b.WriteString("%")
	for _, r := range s {
		b.WriteString(EscapeLike(string(r)))
		b.WriteString("%")
	}
	return b.String()
}
