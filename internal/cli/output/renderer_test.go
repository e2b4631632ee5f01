package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func newTest(mode OutputMode, tty bool) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	return NewRendererWithTTY(out, errOut, tty, mode), out, errOut
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputMode
		wantErr bool
	}{
		{"", ModeAuto, false},
		{"auto", ModeAuto, false},
		{"TEXT", ModeText, false},
		{" markdown ", ModeMarkdown, false},
		{"json", ModeJSON, false},
		{"yaml", ModeYAML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		name string
		mode OutputMode
		tty  bool
		want OutputMode
	}{
		{"auto tty", ModeAuto, true, ModeText},
		{"auto pipe", ModeAuto, false, ModeMarkdown},
		{"empty is auto", "", false, ModeMarkdown},
		{"explicit json", ModeJSON, true, ModeJSON},
		{"explicit text on pipe", ModeText, false, ModeText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _ := newTest(tt.mode, tt.tty)
			assert.Equal(t, tt.want, r.EffectiveMode())
		})
	}
}

func TestNewRenderer_BufferIsNotTTY(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{}, &bytes.Buffer{}, ModeAuto)
	assert.False(t, r.IsTTY())
}

func TestMarkdownHasNoANSI(t *testing.T) {
	r, out, errOut := newTest(ModeMarkdown, false)
	r.Header(1, "Routes")
	r.Success("done")
	r.Muted("quiet")
	r.Warning("careful")
	r.StatusLine("users", "success", "57 rows")
	r.Table([]string{"Path", "ID"}, [][]string{{"/", "overview"}})

	s := out.String() + errOut.String()
	assert.NotContains(t, s, "\x1b[")
	assert.Contains(t, out.String(), "# Routes")
	assert.Contains(t, out.String(), "| Path | ID |")
	assert.Contains(t, out.String(), "| / | overview |")
	assert.Contains(t, errOut.String(), "careful")
}

func TestTextTTYIsStyled(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	r, out, _ := newTest(ModeText, true)
	r.Success("done")
	assert.Contains(t, out.String(), "\x1b[")
}

func TestTextTable(t *testing.T) {
	r, out, _ := newTest(ModeText, false)
	r.Table([]string{"Path"}, [][]string{{"/analytics"}})
	assert.Contains(t, out.String(), "/analytics")
	assert.Contains(t, strings.ToUpper(out.String()), "PATH")
}

func TestStructured(t *testing.T) {
	v := SeedOutput{Driver: "sqlite", Inserted: 3, Total: 3}

	r, out, _ := newTest(ModeJSON, false)
	ok, err := r.Data(v)
	require.NoError(t, err)
	require.True(t, ok)
	var gotJSON SeedOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &gotJSON))
	assert.Equal(t, v, gotJSON)

	r, out, _ = newTest(ModeYAML, false)
	ok, err = r.Data(v)
	require.NoError(t, err)
	require.True(t, ok)
	var gotYAML SeedOutput
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &gotYAML))
	assert.Equal(t, v, gotYAML)

	r, out, _ = newTest(ModeText, false)
	ok, err = r.Data(v)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, out.String())
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "## Title", FormatHeader(2, "Title"))
	assert.Equal(t, "# T", FormatHeader(0, "T"))
	assert.Equal(t, "###### T", FormatHeader(9, "T"))
	assert.Equal(t, "**Driver:** sqlite", FormatKeyValue("Driver", "sqlite"))
	assert.Equal(t, "- a\n- b\n", FormatList([]string{"a", "b"}))
	assert.Equal(t, "```yaml\nx: 1\n```", FormatCodeBlock("yaml", "x: 1\n"))
}
