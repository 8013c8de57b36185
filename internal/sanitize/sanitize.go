// Package sanitize trims model output down to the generated source code.
package sanitize

import (
	"regexp"
	"strings"
)

// fenceLine matches a markdown fence marker on a line of its own, with any
// language tag
var fenceLine = regexp.MustCompile("(?m)^[ \t]*```[\\w+#.-]*[ \t]*$")

// codePrefixes mark the first line that looks like code
var codePrefixes = []string{
	"function ", "def ", "class ", "import ", "const ", "let ", "var ", "#include",
	"package ", "from ", "fn ", "pub ", "use ", "export ", "async ", "#!",
}

// trailerPrefixes mark commentary the model appends after the code
var trailerPrefixes = []string{"Note:", "Example:"}

// Sanitize removes markdown fences, leading prose and trailing notes from
// raw model output. It never fails; text without recognisable code is
// returned trimmed.
func Sanitize(raw string) string {
	code := strings.ReplaceAll(raw, "\r\n", "\n")
	code = fenceLine.ReplaceAllString(code, "")
	// Fences glued to a line of code
	code = strings.ReplaceAll(code, "```", "")
	code = strings.TrimSpace(code)

	lines := strings.Split(code, "\n")
	start := 0
	for i, line := range lines {
		if hasAnyPrefix(strings.TrimSpace(line), codePrefixes) {
			start = i
			break
		}
	}

	end := len(lines)
	for i := len(lines) - 1; i >= 0; i-- {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed != "" && !hasAnyPrefix(trimmed, trailerPrefixes) {
			end = i + 1
			break
		}
	}
	if end < start {
		return ""
	}

	return strings.TrimSpace(strings.Join(lines[start:end], "\n"))
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
