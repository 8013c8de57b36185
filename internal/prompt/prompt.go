// Package prompt builds the instructions sent to the model for each target.
package prompt

import (
	"fmt"
	"strings"
)

// Pair is the system and user prompt for a single compile
type Pair struct {
	System string
	User   string
}

// Combined joins both prompts for providers that take a single prompt string
func (p Pair) Combined() string {
	return p.System + "\n\n" + p.User
}

type template struct {
	system string
	user   string // receives the source text
}

// Query targets have dedicated templates; everything else is a general
// purpose language.
var templates = map[string]template{
	"sql": {
		system: `You are Lexi, a database query generator that converts English descriptions into clean, efficient SQL.

Rules:
1. Generate only the SQL code, no explanations or markdown
2. Use proper SQL syntax with appropriate JOINs, WHERE clauses, and indexing considerations
3. Include comments for complex queries
4. Use standard SQL that works across major databases (PostgreSQL, MySQL, SQL Server)
5. Generate complete, working SQL statements
6. Consider performance and use appropriate LIMIT clauses when needed

Target: SQL`,
		user: "Convert this description into SQL:\n\n%s\n\nGenerate clean, efficient SQL with proper syntax.",
	},
	"mongodb": {
		system: `You are Lexi, a MongoDB query generator that converts English descriptions into MongoDB queries.

Rules:
1. Generate only MongoDB JavaScript code, no explanations or markdown
2. Use proper MongoDB syntax with appropriate aggregation pipelines
3. Include comments for complex operations
4. Use modern MongoDB methods and operators
5. Generate complete, working MongoDB queries
6. Consider performance with appropriate indexing hints

Target: MongoDB JavaScript`,
		user: "Convert this description into MongoDB JavaScript:\n\n%s\n\nGenerate clean MongoDB queries with proper syntax.",
	},
	"redis": {
		system: `You are Lexi, a Redis command generator that converts English descriptions into Redis commands.

Rules:
1. Generate only Redis commands, no explanations or markdown
2. Use proper Redis syntax and data structures
3. Include comments for complex operations
4. Use appropriate Redis commands for the use case
5. Generate complete, working Redis command sequences
6. Consider memory usage and TTL when appropriate

Target: Redis`,
		user: "Convert this description into Redis commands:\n\n%s\n\nGenerate clean Redis commands with proper syntax.",
	},
}

const genericSystem = `You are Lexi, a code generator that converts English descriptions into clean, functional %[1]s code.

Rules:
1. Generate only the code, no explanations or markdown
2. Include proper error handling and edge cases
3. Use modern best practices for %[1]s
4. Add structural comments but no console.log statements
5. Make functions keyboard accessible if UI-related
6. Generate complete, working implementations

Target language: %[1]s`

const genericUser = "Convert this Lexi description into %s code:\n\n%s\n\nGenerate clean, production-ready code with proper function names and structure."

// IsQueryTarget reports whether target has a dedicated query template
func IsQueryTarget(target string) bool {
	_, ok := templates[strings.ToLower(target)]
	return ok
}

// Build returns the prompt pair for converting source into target.
// The source is embedded verbatim.
func Build(source, target string) Pair {
	if t, ok := templates[strings.ToLower(target)]; ok {
		return Pair{
			System: t.system,
			User:   fmt.Sprintf(t.user, source),
		}
	}
	return Pair{
		System: fmt.Sprintf(genericSystem, target),
		User:   fmt.Sprintf(genericUser, target, source),
	}
}
