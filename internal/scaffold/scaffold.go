// Package scaffold creates new lexi project directories.
package scaffold

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/sjson"

	"github.com/nvpkp/lexi/internal/apperr"
)

// Project layout
const (
	SourceDir      = "src"
	BuildDir       = "build"
	SampleFile     = "main.lxi"
	DescriptorFile = "lexi.config.json"
	ReadmeFile     = "README.md"
	ProjectVersion = "1.0.0"
	DefaultTarget  = "javascript"
)

// Targets lists the descriptor's target extensions in file order
var Targets = []struct {
	Name      string
	Extension string
}{
	{"javascript", ".js"},
	{"python", ".py"},
	{"java", ".java"},
}

const sampleProgram = `# Sample Lexi Program
# Write your logic in plain English below

Create a function that takes a list of numbers and returns only the even ones greater than 10

Create a function to check if a string is a palindrome, ignoring case and spaces

Build a simple web server that responds with "Hello, World!" on GET requests to the root path
`

// readmeTemplate takes the project name and a code fence
const readmeTemplate = `# %[1]s

A Lexi project - code generated from English descriptions using AI.

## Getting Started

1. Configure your LLM provider:
   %[2]sbash
   lexi config set provider openai
   lexi config set model gpt-4
   lexi config set api_key sk-your-key-here
   %[2]s

2. Write your logic in ` + "`src/main.lxi`" + `

3. Compile:
   %[2]sbash
   lexi compile src/main.lxi --target javascript
   %[2]s

4. Run:
   %[2]sbash
   node build/main.js
   %[2]s

## Commands

- ` + "`lexi compile <file.lxi>`" + ` - Compile to JavaScript (default)
- ` + "`lexi compile <file.lxi> --target python`" + ` - Compile to Python
- ` + "`lexi compile <file.lxi> --run`" + ` - Compile and run immediately
- ` + "`lexi config list`" + ` - Show current configuration

## Project Structure

%[2]s
%[1]s/
├── src/           # Your .lxi source files
├── build/         # Compiled output
├── lexi.config.json
└── README.md
%[2]s
`

// Project describes a created project
type Project struct {
	Name string
	Path string
}

// Files returns the created paths relative to the project root
func (p *Project) Files() []string {
	return []string{
		filepath.Join(SourceDir, SampleFile),
		BuildDir + "/",
		DescriptorFile,
		ReadmeFile,
	}
}

// Init creates the project name inside parent. It refuses to touch an
// existing directory.
func Init(parent, name string) (*Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Input("project name cannot be empty")
	}

	root := filepath.Join(parent, name)
	if _, err := os.Stat(root); err == nil {
		return nil, apperr.Input("directory '%s' already exists", name)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to check %s: %w", root, err)
	}

	for _, dir := range []string{SourceDir, BuildDir} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	descriptor, err := Descriptor(filepath.Base(name))
	if err != nil {
		return nil, err
	}

	files := map[string][]byte{
		filepath.Join(SourceDir, SampleFile): []byte(sampleProgram),
		DescriptorFile:                       descriptor,
		ReadmeFile:                           []byte(fmt.Sprintf(readmeTemplate, filepath.Base(name), "```")),
	}
	for rel, data := range files {
		if err := os.WriteFile(filepath.Join(root, rel), data, 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", rel, err)
		}
	}

	return &Project{Name: filepath.Base(name), Path: root}, nil
}

// Descriptor renders lexi.config.json for a project
func Descriptor(name string) ([]byte, error) {
	doc := []byte(`{}`)
	var err error

	set := func(path string, value any) {
		if err != nil {
			return
		}
		doc, err = sjson.SetBytes(doc, path, value)
	}

	set("name", name)
	set("version", ProjectVersion)
	set("defaultTarget", DefaultTarget)
	set("sourceDir", SourceDir)
	set("buildDir", BuildDir)
	for _, t := range Targets {
		set("targets."+t.Name+".extension", t.Extension)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build %s: %w", DescriptorFile, err)
	}

	var out bytes.Buffer
	if err := json.Indent(&out, doc, "", "  "); err != nil {
		return nil, fmt.Errorf("failed to format %s: %w", DescriptorFile, err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}
