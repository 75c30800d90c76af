package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, true, "Key", "Category", "Entity")
	table.AddRow("book", "query", "Book")
	table.AddRow("createBook", "mutation", "Book")
	table.Render()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, []string{
		"Key         Category  Entity",
		"──────────  ────────  ──────",
		"book        query     Book",
		"createBook  mutation  Book",
	}, lines)
	assert.Equal(t, 2, table.Len())
}

func TestTable_NoHeaders(t *testing.T) {
	var buf bytes.Buffer
	NewTable(&buf, true).Render()
	assert.Empty(t, buf.String())
}

func TestKeyValues(t *testing.T) {
	var buf bytes.Buffer
	KeyValues(&buf, true, [2]string{"Version", "dev"}, [2]string{"Go", "go1.23"})
	assert.Equal(t, "Version: dev\nGo:      go1.23\n", buf.String())
}

func TestSuggest(t *testing.T) {
	candidates := []string{"Author", "Book", "Publisher"}

	assert.Equal(t, []string{"Book"}, Suggest("bok", candidates, 3))
	assert.Equal(t, []string{"Author"}, Suggest("AUTHR", candidates, 3))
	assert.Empty(t, Suggest("Magazine", candidates, 3))
}

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 3, levenshtein("kitten", "sitting"))
	assert.Equal(t, 4, levenshtein("", "book"))
	assert.Equal(t, 0, levenshtein("book", "book"))
}
