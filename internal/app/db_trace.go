package app

import "strings"

// maxSpanQueryBytes bounds db.statement; the bulk points update over unnest can
// otherwise grow with the user count.
const maxSpanQueryBytes = 512

// spanQuery flattens a repository query onto one line for the db.statement
// attribute. Line comments are dropped and runs of whitespace collapse to one space.
func spanQuery(query string) string {
	var b strings.Builder
	for _, line := range strings.Split(query, "\n") {
		if i := strings.Index(line, "--"); i >= 0 {
			line = line[:i]
		}
		for _, field := range strings.Fields(line) {
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(field)
		}
	}

	flat := b.String()
	if len(flat) <= maxSpanQueryBytes {
		return flat
	}
	return flat[:maxSpanQueryBytes] + "..."
}
