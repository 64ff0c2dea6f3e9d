package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/arthur-debert/scaff/internal/version"
	"github.com/arthur-debert/scaff/pkg/config"
	"github.com/arthur-debert/scaff/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and stdin, returning stdout
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	rootCmd := NewRootCmd()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

const widgetManifest = `identifier = "com.example.widget"
name = "Widget"
description = "A small Go widget."

[[options]]
identifier = "name"
required = true
description = "Widget name"

[[options]]
identifier = "id"
generate = "uuid"

[[files]]
source = "main.go"
target = "«name:kebab»/main.go"

[[files]]
source = "README.md"
target = "«name:kebab»/README.md"
`

func writeWidgetBundle(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"template.toml": widgetManifest,
		"main.go":       "package «name:snake»\n\nconst ID = \"«id»\"\n",
		"README.md":     "# «name:title»\n\nid: «id»\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func TestRenderFromStdin(t *testing.T) {
	out, err := execute(t, "Hello «name:upper»!", "render", "--format", "text", "--set", "name=world")
	require.NoError(t, err)
	assert.Equal(t, "Hello WORLD!", out)
}

func TestRenderFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "greeting.txt")
	require.NoError(t, os.WriteFile(path, []byte("«id» «id:lower»"), 0644))

	out, err := execute(t, "", "render", path, "--format", "text", "--generate", "id=uuid")
	require.NoError(t, err)

	parts := strings.Split(out, " ")
	require.Len(t, parts, 2)
	assert.Regexp(t, regexp.MustCompile(`^[0-9A-F]{8}-[0-9A-F]{4}-[0-9A-F]{4}-[0-9A-F]{4}-[0-9A-F]{12}$`), parts[0])
	assert.Equal(t, strings.ToLower(parts[0]), parts[1])
}

func TestRenderXcodeSyntax(t *testing.T) {
	out, err := execute(t, "// ___FILENAME:basename___", "render", "--format", "text",
		"--syntax", "xcode", "--set", "FILENAME=Widget.swift")
	require.NoError(t, err)
	assert.Equal(t, "// Widget", out)
}

func TestRenderJSON(t *testing.T) {
	out, err := execute(t, "«a»", "render", "--format", "json", "--set", "a=1")
	require.NoError(t, err)

	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "1", got["output"])
}

func TestRenderErrors(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
		code  errors.ErrorCode
	}{
		{"unknown variable", "«missing»", nil, errors.ErrUnknownVariable},
		{"unknown modifier", "«a:shout»", []string{"--set", "a=x"}, errors.ErrUnknownModifier},
		{"unterminated", "«a", []string{"--set", "a=x"}, errors.ErrUnterminatedDirective},
		{"malformed set", "«a»", []string{"--set", "a"}, errors.ErrInvalidInput},
		{"unknown generator", "«a»", []string{"--generate", "a=serial"}, errors.ErrUnknownGenerator},
		{"unknown syntax", "«a»", []string{"--syntax", "erb"}, errors.ErrConfigValid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"render", "--format", "text"}, tt.args...)
			out, err := execute(t, tt.stdin, args...)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetErrorCode(err))
			assert.Empty(t, out)
		})
	}
}

func TestRenderErrorNamesStdin(t *testing.T) {
	_, err := execute(t, "ok «missing»", "render", "--format", "text")
	require.Error(t, err)

	details := errors.GetErrorDetails(err)
	assert.Equal(t, "<stdin>", details["file"])
	assert.Equal(t, 3, details["offset"])
}

func TestTokensJSON(t *testing.T) {
	out, err := execute(t, "a «b:upper»", "tokens", "--format", "json")
	require.NoError(t, err)

	var got []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "text", got[0]["kind"])
	assert.Equal(t, "directive", got[1]["kind"])
	assert.Equal(t, "b", got[1]["name"])
	assert.Equal(t, []interface{}{"upper"}, got[1]["modifiers"])
}

func TestNewBundle(t *testing.T) {
	bundleDir := writeWidgetBundle(t)
	outDir := filepath.Join(t.TempDir(), "out")

	out, err := execute(t, "", "new", bundleDir, outDir, "--format", "text", "--set", "name=My Widget")
	require.NoError(t, err)
	assert.Contains(t, out, "created ")

	mainGo, err := os.ReadFile(filepath.Join(outDir, "my-widget", "main.go"))
	require.NoError(t, err)
	readme, err := os.ReadFile(filepath.Join(outDir, "my-widget", "README.md"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(string(mainGo), "package my_widget\n"))
	assert.True(t, strings.HasPrefix(string(readme), "# My Widget\n"))

	id := regexp.MustCompile(`const ID = "([^"]+)"`).FindStringSubmatch(string(mainGo))
	require.Len(t, id, 2)
	assert.Contains(t, string(readme), "id: "+id[1])
}

func TestNewBundleDryRunAndOverwrite(t *testing.T) {
	bundleDir := writeWidgetBundle(t)
	outDir := t.TempDir()

	out, err := execute(t, "", "new", bundleDir, outDir, "--format", "text", "--set", "name=w", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "would create ")
	_, statErr := os.Stat(filepath.Join(outDir, "w", "main.go"))
	assert.True(t, os.IsNotExist(statErr))

	_, err = execute(t, "", "new", bundleDir, outDir, "--format", "text", "--set", "name=w")
	require.NoError(t, err)

	_, err = execute(t, "", "new", bundleDir, outDir, "--format", "text", "--set", "name=w")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileExists))

	_, err = execute(t, "", "new", bundleDir, outDir, "--format", "text", "--set", "name=w", "--force")
	require.NoError(t, err)
}

func TestNewBundleMissingRequiredOption(t *testing.T) {
	_, err := execute(t, "", "new", writeWidgetBundle(t), t.TempDir(), "--format", "text")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestInfo(t *testing.T) {
	out, err := execute(t, "", "info", writeWidgetBundle(t), "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "# Widget")
	assert.Contains(t, out, "A small Go widget.")
	assert.Contains(t, out, "name\t\t\tyes\tWidget name")
}

func TestInfoMissingBundle(t *testing.T) {
	_, err := execute(t, "", "info", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrBundleNotFound))
}

func TestConfigCmd(t *testing.T) {
	out, err := execute(t, "", "config")
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfigContent(), out)
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, version.Info(), out)
	assert.Contains(t, out, "scaff version "+version.Version)
}

func TestInvalidFormatFlag(t *testing.T) {
	_, err := execute(t, "", "version", "--format", "xml")
	assert.Error(t, err)
}

func TestHelpTopics(t *testing.T) {
	out, err := execute(t, "", "help", "topics")
	require.NoError(t, err)
	for _, name := range []string{"bundles", "generators", "modifiers", "syntax"} {
		assert.Contains(t, out, "  "+name+"\n")
	}

	out, err = execute(t, "", "help", "syntax", "--format", "text")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# Directive syntax"))
}

func TestRenderErrorHelper(t *testing.T) {
	rootCmd := NewRootCmd()
	rootCmd.SetArgs([]string{"version", "--format", "json"})
	require.NoError(t, rootCmd.Execute())

	var buf bytes.Buffer
	RenderError(rootCmd, &buf, errors.New(errors.ErrBundleNotFound, "no bundle").WithDetail("path", "/x"))

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "BUNDLE_NOT_FOUND", got["code"])
}
