package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOverrides(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Overrides
	}{
		{
			name:     "empty file",
			input:    "",
			expected: Overrides{},
		},
		{
			name:     "comments and blank lines ignored",
			input:    "# comment\n\n   \nA=1\n  # indented comment\n",
			expected: Overrides{"A": "1"},
		},
		{
			name:     "last occurrence wins",
			input:    "KEY=first\nOTHER=x\nKEY=second\n",
			expected: Overrides{"KEY": "second", "OTHER": "x"},
		},
		{
			name:     "keys are case sensitive",
			input:    "key=lower\nKEY=upper\n",
			expected: Overrides{"key": "lower", "KEY": "upper"},
		},
		{
			name:     "empty key discarded",
			input:    "=orphan\n  =also\nOK=1\n",
			expected: Overrides{"OK": "1"},
		},
		{
			name:     "line without equals ignored",
			input:    "JUSTAKEY\nA=1\n",
			expected: Overrides{"A": "1"},
		},
		{
			name:     "whitespace around key and value trimmed",
			input:    "  SPACED  =  value with spaces  \n",
			expected: Overrides{"SPACED": "value with spaces"},
		},
		{
			name:     "one matching pair of quotes removed",
			input:    "D=\"double\"\nS='single'\nN=\"\"nested\"\"\nM=\"mismatch'\n",
			expected: Overrides{"D": "double", "S": "single", "N": "\"nested\"", "M": "\"mismatch'"},
		},
		{
			name:     "empty value is kept",
			input:    "GROQ_API_KEY=\nQUOTED=\"\"\n",
			expected: Overrides{"GROQ_API_KEY": "", "QUOTED": ""},
		},
		{
			name:     "value may contain equals",
			input:    "URL=http://host/?a=b\n",
			expected: Overrides{"URL": "http://host/?a=b"},
		},
		{
			name:     "windows line endings",
			input:    "A=1\r\nB=2\r\n",
			expected: Overrides{"A": "1", "B": "2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOverrides(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestOverrides_LookupDistinguishesEmptyFromAbsent(t *testing.T) {
	o, err := ParseOverrides(strings.NewReader("EMPTY=\n"))
	require.NoError(t, err)

	v, ok := o.Lookup("EMPTY")
	assert.True(t, ok)
	assert.Equal(t, "", v)

	_, ok = o.Lookup("MISSING")
	assert.False(t, ok)
}

func TestLoadOverrides_MissingFile(t *testing.T) {
	o, err := LoadOverrides(filepath.Join(t.TempDir(), ".env"))
	assert.Error(t, err)
	assert.NotNil(t, o)
	assert.Empty(t, o)
}

func TestLoadOverrides_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("GROQ_API_KEY='abc'\nBACKEND_PORT=4000\n"), 0644))

	o, err := LoadOverrides(path)
	require.NoError(t, err)
	assert.Equal(t, Overrides{"GROQ_API_KEY": "abc", "BACKEND_PORT": "4000"}, o)
}

func TestLoadOverrides_LongLineKeepsOtherKeys(t *testing.T) {
	cert := strings.Repeat("A", 70*1024)
	path := filepath.Join(t.TempDir(), ".env")
	content := "GROQ_API_KEY=secret\nCERT=" + cert + "\nAFTER=1\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	o, err := LoadOverrides(path)
	require.NoError(t, err)
	assert.Equal(t, "secret", o["GROQ_API_KEY"])
	assert.Equal(t, cert, o["CERT"])
	assert.Equal(t, "1", o["AFTER"])
}
