package compiler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvpkp/lexi/config"
	"github.com/nvpkp/lexi/config/models"
	"github.com/nvpkp/lexi/internal/apperr"
	"github.com/nvpkp/lexi/internal/history"
	"github.com/nvpkp/lexi/internal/prompt"
	"github.com/nvpkp/lexi/internal/provider"
	"github.com/nvpkp/lexi/internal/runner"
)

// fixedAdapter answers every prompt with the same text
type fixedAdapter struct {
	text  string
	calls int
	last  prompt.Pair
}

func (a *fixedAdapter) Kind() provider.Kind { return provider.Local }

func (a *fixedAdapter) Invoke(_ context.Context, pair prompt.Pair) (string, error) {
	a.calls++
	a.last = pair
	return a.text, nil
}

type memoryRecorder struct {
	entries []history.Entry
}

func (r *memoryRecorder) Record(_ context.Context, e history.Entry) error {
	r.entries = append(r.entries, e)
	return nil
}

type testEnv struct {
	dir     string
	manager *config.Manager
	out     *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	return &testEnv{
		dir:     dir,
		manager: config.NewManager(filepath.Join(dir, ".lexi", "config.json")),
		out:     &bytes.Buffer{},
	}
}

func (e *testEnv) writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(e.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func (e *testEnv) set(t *testing.T, key, value string) {
	t.Helper()
	require.NoError(t, e.manager.UpdateKey(models.DefaultProfile, key, value))
}

func (e *testEnv) compiler(opts ...Option) *Compiler {
	base := []Option{WithOutput(e.out), WithWorkDir(e.dir)}
	return New(e.manager, append(base, opts...)...)
}

func (e *testEnv) fixed(text string) (*fixedAdapter, Option) {
	a := &fixedAdapter{text: text}
	return a, WithAdapterFactory(func(models.Configuration) (provider.Adapter, error) {
		return a, nil
	})
}

func TestCompileEndToEnd(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"` +
			"```python\\ndef add(a,b):\\n    return a+b\\n```" + `"}}]}`))
	}))
	defer srv.Close()

	env.set(t, "api_key", "sk-test")
	env.set(t, "base_url", srv.URL)
	input := env.writeInput(t, "task.lxi", "create a function that adds two numbers")

	res, err := env.compiler().Compile(context.Background(), Options{Input: input, Target: "python"})
	require.NoError(t, err)

	want := filepath.Join(env.dir, "task.py")
	assert.Equal(t, want, res.Output)
	assert.Equal(t, "openai", res.Provider)
	assert.Equal(t, "default", res.Profile)

	data, err := os.ReadFile(want)
	require.NoError(t, err)
	assert.Equal(t, "def add(a,b):\n    return a+b", string(data))

	assert.Contains(t, env.out.String(), "📚 Lexi v1.0.0 - Compiling "+input+"...")
	assert.Contains(t, env.out.String(), "✅ Successfully compiled to "+want)
}

func TestCompileInputErrors(t *testing.T) {
	env := newTestEnv(t)
	adapter, factory := env.fixed("const x = 1;")

	tests := []struct {
		name    string
		input   string
		content string
		wantMsg string
	}{
		{"bad extension", "task.txt", "add numbers", "must have .lxi or .lexi extension"},
		{"missing file", "", "", "not found"},
		{"empty file", "empty.lxi", "  \n\t", "source file is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := filepath.Join(env.dir, "missing.lxi")
			if tt.input != "" {
				input = env.writeInput(t, tt.input, tt.content)
			}

			_, err := env.compiler(factory).Compile(context.Background(), Options{Input: input})
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.KindInput), "kind = %v", apperr.KindOf(err))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}

	assert.Zero(t, adapter.calls, "no provider call on invalid input")
	matches, _ := filepath.Glob(filepath.Join(env.dir, "*.js"))
	assert.Empty(t, matches, "no output written on invalid input")
}

func TestCompileLexiExtension(t *testing.T) {
	env := newTestEnv(t)
	_, factory := env.fixed("SELECT 1;")
	input := env.writeInput(t, "report.lexi", "count all users")

	res, err := env.compiler(factory).Compile(context.Background(), Options{Input: input, Target: "SQL"})
	require.NoError(t, err)
	assert.Equal(t, "sql", res.Target)
	assert.Equal(t, filepath.Join(env.dir, "report.sql"), res.Output)
}

func TestCompileUnsupportedProvider(t *testing.T) {
	env := newTestEnv(t)
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
	}))
	defer srv.Close()

	env.set(t, "provider", "other")
	env.set(t, "base_url", srv.URL)
	input := env.writeInput(t, "task.lxi", "add numbers")

	_, err := env.compiler().Compile(context.Background(), Options{Input: input})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConfig))
	assert.Contains(t, err.Error(), "unsupported provider: other")
	assert.Zero(t, atomic.LoadInt32(&requests))
	assert.NoFileExists(t, filepath.Join(env.dir, "task.js"))
}

func TestCompileMissingAPIKey(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv(EnvAPIKey, "")
	input := env.writeInput(t, "task.lxi", "add numbers")

	_, err := env.compiler().Compile(context.Background(), Options{Input: input})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConfig))
	assert.Contains(t, err.Error(), "lexi config set api_key")
}

func TestCompileAPIKeyFromEnvironment(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sk-from-env", r.Header.Get("x-api-key"))
		_, _ = w.Write([]byte(`{"content":[{"text":"fn main() {}"}]}`))
	}))
	defer srv.Close()

	t.Setenv(EnvAPIKey, "sk-from-env")
	env.set(t, "provider", "anthropic")
	env.set(t, "base_url", srv.URL)
	input := env.writeInput(t, "main.lxi", "print hello")

	res, err := env.compiler().Compile(context.Background(), Options{Input: input, Target: "rust"})
	require.NoError(t, err)
	data, err := os.ReadFile(res.Output)
	require.NoError(t, err)
	assert.Equal(t, "fn main() {}", string(data))

	// The key is not persisted
	_, cfg, err := env.manager.GetActive()
	require.NoError(t, err)
	assert.Empty(t, cfg.APIKey)
}

func TestCompileProviderErrorWritesNothing(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid key"}`))
	}))
	defer srv.Close()

	env.set(t, "api_key", "sk-bad")
	env.set(t, "base_url", srv.URL)
	input := env.writeInput(t, "task.lxi", "add numbers")

	_, err := env.compiler().Compile(context.Background(), Options{Input: input})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindProvider))
	assert.Contains(t, err.Error(), `{"error":"invalid key"}`)
	assert.NoFileExists(t, filepath.Join(env.dir, "task.js"))
}

func TestCompileExplicitOutput(t *testing.T) {
	env := newTestEnv(t)
	adapter, factory := env.fixed("Here you go:\n```javascript\nconst x = 1;\n```\nNote: done")
	input := env.writeInput(t, "task.lxi", "make x")
	out := filepath.Join(env.dir, "build", "x.mjs")
	require.NoError(t, os.MkdirAll(filepath.Dir(out), 0755))

	res, err := env.compiler(factory).Compile(context.Background(), Options{Input: input, Output: out})
	require.NoError(t, err)
	assert.Equal(t, out, res.Output)
	assert.Equal(t, "javascript", res.Target)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "const x = 1;", string(data))
	assert.Contains(t, adapter.last.User, "make x")
	assert.Contains(t, adapter.last.System, "Target language: javascript")
}

func TestCompileRunUnsupportedTarget(t *testing.T) {
	env := newTestEnv(t)
	_, factory := env.fixed("fn main() {}")
	input := env.writeInput(t, "task.lxi", "hello")

	res, err := env.compiler(factory).Compile(context.Background(), Options{Input: input, Target: "rust", Run: true})
	require.NoError(t, err)
	assert.False(t, res.Ran)
	assert.Contains(t, env.out.String(), "⚠️  Auto-run not supported for rust yet")
	assert.FileExists(t, filepath.Join(env.dir, "task.rs"))
}

func TestCompileRun(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	env := newTestEnv(t)
	_, factory := env.fixed("echo generated program ran")
	input := env.writeInput(t, "task.lxi", "say something")

	var programOut bytes.Buffer
	r := runner.New()
	r.Interpreters["javascript"] = "sh"
	r.Stdin = nil
	r.Stdout = &programOut
	r.Stderr = &programOut

	res, err := env.compiler(factory, WithRunner(r)).Compile(context.Background(), Options{Input: input, Run: true})
	require.NoError(t, err)
	assert.True(t, res.Ran)
	assert.Contains(t, env.out.String(), "🚀 Running "+res.Output+"...")
	assert.Equal(t, "generated program ran\n", programOut.String())
}

func TestCompileRecordsHistory(t *testing.T) {
	env := newTestEnv(t)
	_, factory := env.fixed("def f(): pass")
	rec := &memoryRecorder{}
	c := env.compiler(factory, WithRecorder(rec))

	input := env.writeInput(t, "task.lxi", "stub")
	_, err := c.Compile(context.Background(), Options{Input: input, Target: "python"})
	require.NoError(t, err)

	_, err = c.Compile(context.Background(), Options{Input: filepath.Join(env.dir, "nope.txt")})
	require.Error(t, err)

	require.Len(t, rec.entries, 2)
	assert.Equal(t, history.StatusOK, rec.entries[0].Status)
	assert.Equal(t, "local", rec.entries[0].Provider)
	assert.Equal(t, filepath.Join(env.dir, "task.py"), rec.entries[0].Output)

	assert.Equal(t, history.StatusFailed, rec.entries[1].Status)
	assert.Contains(t, rec.entries[1].Error, "extension")
	assert.Empty(t, rec.entries[1].Output)
}

func TestCompileWaitLabel(t *testing.T) {
	env := newTestEnv(t)
	_, factory := env.fixed("let a = 1;")
	input := env.writeInput(t, "task.lxi", "a")

	var labels []string
	wait := func(ctx context.Context, label string, fn func(context.Context) (string, error)) (string, error) {
		labels = append(labels, label)
		return fn(ctx)
	}

	_, err := env.compiler(factory, WithWait(wait)).Compile(context.Background(), Options{Input: input})
	require.NoError(t, err)
	assert.Equal(t, []string{"🤖 Generating code with AI..."}, labels)
}

func TestDefaultOutput(t *testing.T) {
	tests := []struct {
		input  string
		target string
		want   string
	}{
		{"task.lxi", "javascript", "task.js"},
		{"src/task.lxi", "python", "task.py"},
		{"a.b.lexi", "java", "a.b.java"},
		{"x.lxi", "cpp", "x.cpp"},
		{"x.lxi", "rust", "x.rs"},
		{"x.lxi", "go", "x.go"},
		{"x.lxi", "sql", "x.sql"},
		{"x.lxi", "mongodb", "x.js"},
		{"x.lxi", "redis", "x.txt"},
		{"x.lxi", "haskell", "x.js"},
	}

	for _, tt := range tests {
		t.Run(tt.input+"_"+tt.target, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultOutput(tt.input, tt.target))
		})
	}
}
