package timeline

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/keybot/internal/input/key"
)

func sampleEntries() []Entry {
	return []Entry{
		{Gap: 100 * ms, Key: key.KeyA, Toggle: key.Down},
		{Gap: 50 * ms, Key: key.KeyA, Toggle: key.Up},
		{Gap: 0, Key: key.KeySpace, Toggle: key.Down},
	}
}

func TestExportYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, "main", sampleEntries(), FormatYAML))

	out := buf.String()
	assert.Contains(t, out, "version: 1")
	assert.Contains(t, out, "method: main")
	assert.Contains(t, out, "total: 150ms")
	assert.Contains(t, out, "at: 150ms")
	assert.Contains(t, out, "key: Space")
}

func TestExportImportJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, "jump", sampleEntries(), FormatJSON))
	assert.Contains(t, buf.String(), `"toggle": "down"`)

	method, entries, err := Import(&buf, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "jump", method)
	assert.Equal(t, sampleEntries(), entries)
}

func TestImportRejectsBadDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"future version", "version: 9\nevents: []\n"},
		{"missing version", "events:\n  - {at: 1s, gap: 1s, key: a, toggle: down}\n"},
		{"zero version", "version: 0\nevents: []\n"},
		{"bad gap", "version: 1\nevents:\n  - {at: 1s, gap: soon, key: a, toggle: down}\n"},
		{"negative gap", "version: 1\nevents:\n  - {at: 1s, gap: -1s, key: a, toggle: down}\n"},
		{"bad key", "version: 1\nevents:\n  - {at: 1s, gap: 1s, key: hyper, toggle: down}\n"},
		{"bad toggle", "version: 1\nevents:\n  - {at: 1s, gap: 1s, key: a, toggle: sideways}\n"},
		{"missing offset", "version: 1\nevents:\n  - {gap: 1s, key: a, toggle: down}\n"},
		{"offset disagrees with gaps", "version: 1\nevents:\n  - {at: 1s, gap: 1s, key: a, toggle: down}\n  - {at: 1s, gap: 5ms, key: a, toggle: up}\n"},
		{"gap sum overflows", "version: 1\nevents:\n  - {at: 2000000h, gap: 2000000h, key: a, toggle: down}\n  - {at: 2000000h, gap: 2000000h, key: a, toggle: up}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Import(strings.NewReader(tt.doc), FormatYAML)
			assert.Error(t, err)
		})
	}
}

func TestImportChecksOffsets(t *testing.T) {
	doc := "version: 1\nmethod: main\nevents:\n" +
		"  - {at: 100ms, gap: 100ms, key: a, toggle: down}\n" +
		"  - {at: 150ms, gap: 50ms, key: a, toggle: up}\n" +
		"  - {at: 150ms, gap: 0s, key: space, toggle: down}\n"

	method, entries, err := Import(strings.NewReader(doc), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "main", method)
	assert.Equal(t, sampleEntries(), entries)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	f, err = ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
	assert.Error(t, Export(&bytes.Buffer{}, "", nil, Format("xml")))
}
