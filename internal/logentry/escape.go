package logentry

import "strings"

// writeEscaped appends v to sb with the backslash, the delimiter and line
// breaks escaped.
func writeEscaped(sb *strings.Builder, v string, delim byte) {
	for i := 0; i < len(v); i++ {
		switch b := v[i]; b {
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case delim:
			sb.WriteByte('\\')
			sb.WriteByte(b)
		default:
			sb.WriteByte(b)
		}
	}
}

// splitEscaped splits line on unescaped delimiters into at most n fields
// and unescapes each field. The last field keeps any further delimiters.
// A trailing lone backslash is kept literally.
func splitEscaped(line string, delim byte, n int) []string {
	fields := make([]string, 0, n)
	var cur strings.Builder
	for i := 0; i < len(line); i++ {
		b := line[i]
		switch {
		case b == '\\' && i+1 < len(line):
			i++
			switch next := line[i]; next {
			case 'n':
				cur.WriteByte('\n')
			case 'r':
				cur.WriteByte('\r')
			default:
				cur.WriteByte(next)
			}
		case b == delim && len(fields) < n-1:
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(b)
		}
	}
	return append(fields, cur.String())
}
