package scaffold

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/nvpkp/lexi/internal/apperr"
)

func TestInit(t *testing.T) {
	parent := t.TempDir()

	project, err := Init(parent, "demo")
	require.NoError(t, err)
	assert.Equal(t, "demo", project.Name)
	assert.Equal(t, filepath.Join(parent, "demo"), project.Path)

	for _, dir := range []string{SourceDir, BuildDir} {
		info, err := os.Stat(filepath.Join(project.Path, dir))
		require.NoError(t, err)
		assert.True(t, info.IsDir(), "%s should be a directory", dir)
	}

	sample, err := os.ReadFile(filepath.Join(project.Path, SourceDir, SampleFile))
	require.NoError(t, err)
	assert.Contains(t, string(sample), "palindrome")

	readme, err := os.ReadFile(filepath.Join(project.Path, ReadmeFile))
	require.NoError(t, err)
	assert.Contains(t, string(readme), "# demo\n")
	assert.Contains(t, string(readme), "```bash\n")
	assert.Contains(t, string(readme), "demo/\n├── src/")

	descriptor, err := os.ReadFile(filepath.Join(project.Path, DescriptorFile))
	require.NoError(t, err)
	assert.True(t, gjson.ValidBytes(descriptor))
	assert.Equal(t, "demo", gjson.GetBytes(descriptor, "name").String())
}

func TestInitExistingDirectory(t *testing.T) {
	parent := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(parent, "taken"), 0755))
	marker := filepath.Join(parent, "taken", "keep.txt")
	require.NoError(t, os.WriteFile(marker, []byte("x"), 0644))

	_, err := Init(parent, "taken")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindInput))
	assert.Contains(t, err.Error(), "already exists")

	entries, err := os.ReadDir(filepath.Join(parent, "taken"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "existing directory must be left untouched")
}

func TestInitEmptyName(t *testing.T) {
	_, err := Init(t.TempDir(), "  ")
	assert.True(t, apperr.Is(err, apperr.KindInput))
}

func TestDescriptor(t *testing.T) {
	data, err := Descriptor("shop")
	require.NoError(t, err)

	doc := gjson.ParseBytes(data)
	assert.Equal(t, "shop", doc.Get("name").String())
	assert.Equal(t, "1.0.0", doc.Get("version").String())
	assert.Equal(t, "javascript", doc.Get("defaultTarget").String())
	assert.Equal(t, "src", doc.Get("sourceDir").String())
	assert.Equal(t, "build", doc.Get("buildDir").String())
	assert.Equal(t, ".js", doc.Get("targets.javascript.extension").String())
	assert.Equal(t, ".py", doc.Get("targets.python.extension").String())
	assert.Equal(t, ".java", doc.Get("targets.java.extension").String())

	var keys []string
	doc.ForEach(func(key, _ gjson.Result) bool {
		keys = append(keys, key.String())
		return true
	})
	assert.Equal(t, []string{"name", "version", "defaultTarget", "sourceDir", "buildDir", "targets"}, keys)
}
