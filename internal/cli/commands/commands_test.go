package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/alchemy/internal/cli/config"
)

const libraryMetadata = `
enums:
  - name: Genre
    values: [FICTION, HISTORY]
entities:
  - name: Author
    properties:
      - {name: name, type: String, required: true}
  - name: Book
    properties:
      - {name: title, type: String, required: true}
      - {name: year, type: Int}
      - {name: genre, type: Genre}
relationships:
  - {name: wrote, from: Author, to: Book, direction: outbound}
`

func writeMetadata(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "metadata.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()

	assert.Equal(t, "alchemy", cmd.Use)
	assert.NotEmpty(t, cmd.Short)

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	for _, expected := range []string{"version", "serve", "operations", "validate"} {
		assert.Contains(t, names, expected)
	}
}

func TestVersionCommand(t *testing.T) {
	Version = "1.0.0-test"
	GoVersion = "go1.23"
	defer func() {
		Version = "dev"
		GoVersion = "unknown"
	}()

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Alchemy version: 1.0.0-test")
	assert.Contains(t, out, "go1.23")
}

func TestValidateCommand(t *testing.T) {
	path := writeMetadata(t, libraryMetadata)

	out, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, path+": 2 entities, 1 enums, 1 relationships, 14 operations")
}

func TestValidateCommand_Invalid(t *testing.T) {
	path := writeMetadata(t, `
entities:
  - name: Book
    properties:
      - {name: genre, type: Genre}
`)

	_, err := execute(t, "validate", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestOperationsCommand(t *testing.T) {
	path := writeMetadata(t, libraryMetadata)

	out, err := execute(t, "operations", "--metadata", path, "--entity", "Book")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2+7)
	assert.Contains(t, lines[0], "Operation")

	var keys []string
	for _, line := range lines[2:] {
		keys = append(keys, strings.Fields(line)[0])
	}
	assert.Equal(t, []string{"book", "books", "createBook", "removeBook", "removeBooks", "updateBook", "updateBooks"}, keys)
	assert.True(t, strings.HasSuffix(lines[2], "_key: String, title: String"), lines[2])
	assert.True(t, strings.HasSuffix(lines[3], "_key: String, genre: Genre, title: String, year: Int"), lines[3])
	assert.NotContains(t, out, "Author")
}

func TestOperationsCommand_UnknownEntity(t *testing.T) {
	path := writeMetadata(t, libraryMetadata)

	_, err := execute(t, "operations", "--metadata", path, "--entity", "Bok")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown entity "Bok" (did you mean: Book?)`)
}

func TestNewLogger(t *testing.T) {
	logger, err := newLogger(config.LogConfig{Level: "debug", Development: true})
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = newLogger(config.LogConfig{Level: "loud"})
	assert.Error(t, err)
}
