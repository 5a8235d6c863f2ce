package dataset

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/widgets/internal/core/datatable"
)

func keys(cols []datatable.Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Key
	}
	return out
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"a.json", FormatJSON, false},
		{"A.JSON", FormatJSON, false},
		{"a.yaml", FormatYAML, false},
		{"a.yml", FormatYAML, false},
		{"a.csv", FormatCSV, false},
		{"a.xlsx", "", true},
		{"noext", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad_JSON(t *testing.T) {
	ds, err := Load(filepath.Join("testdata", "people.json"))
	require.NoError(t, err)

	require.Len(t, ds.Records, 3)
	assert.Equal(t, []string{"active", "age", "name", "team"}, keys(ds.Columns))
	assert.Equal(t, float64(36), ds.Records[0]["age"])
	assert.Equal(t, 54.5, ds.Records[2]["age"])
	assert.Equal(t, true, ds.Records[0]["active"])
	assert.NotContains(t, ds.Records[0], "team")
}

func TestLoad_YAML(t *testing.T) {
	ds, err := Load(filepath.Join("testdata", "people.yaml"))
	require.NoError(t, err)

	require.Len(t, ds.Records, 2)
	assert.Equal(t, []string{"age", "name", "team"}, keys(ds.Columns))
	assert.Equal(t, "Grace", ds.Records[1]["name"])
	assert.Equal(t, 1, datatable.CompareValues(ds.Records[1]["age"], ds.Records[0]["age"]))
}

func TestLoad_CSV(t *testing.T) {
	ds, err := Load(filepath.Join("testdata", "people.csv"))
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "age", "active", "team"}, keys(ds.Columns), "header order is kept")
	require.Len(t, ds.Records, 3)

	assert.Equal(t, datatable.Record{"name": "Ada", "age": float64(36), "active": true}, ds.Records[0])
	assert.Equal(t, datatable.Record{"name": "Grace", "age": float64(85), "team": "navy"}, ds.Records[1])
	assert.Equal(t, false, ds.Records[2]["active"])
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open dataset")
}

func TestParse_NotTabular(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		input  string
	}{
		{"json object", FormatJSON, `{"name": "Ada"}`},
		{"json scalars", FormatJSON, `[1, 2, 3]`},
		{"yaml mapping", FormatYAML, "name: Ada\n"},
		{"yaml scalars", FormatYAML, "- a\n- b\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input), tt.format)
			assert.ErrorIs(t, err, ErrNotTabular)
		})
	}
}

func TestParse_Empty(t *testing.T) {
	for _, format := range []Format{FormatCSV, FormatYAML} {
		ds, err := Parse(strings.NewReader(""), format)
		require.NoError(t, err, format)
		assert.Empty(t, ds.Records, format)
	}

	ds, err := Parse(strings.NewReader("[]"), FormatJSON)
	require.NoError(t, err)
	assert.Empty(t, ds.Records)
}

func TestParse_MalformedJSON(t *testing.T) {
	_, err := Parse(strings.NewReader("[{"), FormatJSON)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode json")
}

func TestParse_UnknownFormat(t *testing.T) {
	_, err := Parse(strings.NewReader(""), Format("toml"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestCSVValue(t *testing.T) {
	assert.Equal(t, float64(-3), csvValue("-3"))
	assert.Equal(t, 0.25, csvValue("0.25"))
	assert.Equal(t, float64(0), csvValue("0"))
	assert.Equal(t, "1.5e3", csvValue("1.5e3"), "exponent form stays text")
	assert.Equal(t, "007", csvValue("007"), "leading zeros stay text")
	assert.Equal(t, "0x10", csvValue("0x10"))
	assert.Equal(t, "+3", csvValue("+3"))
	assert.Equal(t, "1.", csvValue("1."))
	for _, word := range []string{"NaN", "Nan", "nan", "Inf", "inf", "-Inf", "Infinity"} {
		assert.Equal(t, word, csvValue(word))
	}
	assert.Equal(t, true, csvValue("true"))
	assert.Equal(t, "True", csvValue("True"))
	assert.Equal(t, "n/a", csvValue("n/a"))
}

func TestParseCSV_keepsIdentifiersAndWords(t *testing.T) {
	ds, err := Parse(strings.NewReader("id,name\n007,Nan\n0x10,Inf\n12,Ada\n"), FormatCSV)
	require.NoError(t, err)
	require.Len(t, ds.Records, 3)

	assert.Equal(t, datatable.Record{"id": "007", "name": "Nan"}, ds.Records[0])
	assert.Equal(t, datatable.Record{"id": "0x10", "name": "Inf"}, ds.Records[1])
	assert.Equal(t, datatable.Record{"id": float64(12), "name": "Ada"}, ds.Records[2])
}

func TestSelectColumns(t *testing.T) {
	cols := []datatable.Column{{Key: "name"}, {Key: "age"}, {Key: "team"}}

	got, err := SelectColumns(cols, nil)
	require.NoError(t, err)
	assert.Equal(t, cols, got)

	got, err = SelectColumns(cols, []string{"age:Age", " name "})
	require.NoError(t, err)
	assert.Equal(t, []datatable.Column{{Key: "age", Label: "Age"}, {Key: "name"}}, got)

	got, err = SelectColumns(cols, []string{"email"})
	require.NoError(t, err)
	assert.Equal(t, []datatable.Column{{Key: "email"}}, got)

	_, err = SelectColumns(cols, []string{":Label"})
	assert.Error(t, err)
}
