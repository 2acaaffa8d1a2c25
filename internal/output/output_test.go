package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

var sampleTable = Table{
	Header: []string{"Name", "Count"},
	Rows:   [][]string{{"vm01", "2"}, {"vm02", "3"}},
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, sample{Name: "vm01", Count: 2}, sampleTable))
	assert.JSONEq(t, `{"name":"vm01","count":2}`, buf.String())
}

func TestWrite_YAMLUsesJSONTags(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatYAML, sample{Name: "vm01", Count: 2}, sampleTable))
	assert.Equal(t, "count: 2\nname: vm01\n", buf.String())
}

func TestWrite_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatTable, nil, sampleTable))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "NAME")
	assert.Contains(t, lines[0], "COUNT")
	assert.Contains(t, lines[1], "vm01")
	assert.Contains(t, lines[2], "vm02")
}

func TestWrite_UnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, "xml", nil, Table{})
	assert.ErrorContains(t, err, "xml")
}
