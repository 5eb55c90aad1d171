package scenario_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/NishanthRao01/bankguard/pkg/core/state"
	"github.com/NishanthRao01/bankguard/pkg/errors"
	"github.com/NishanthRao01/bankguard/pkg/scenario"
)

type ScenarioSuite struct {
	suite.Suite
	snap *state.State
}

func (s *ScenarioSuite) SetupTest() {
	// Two holders in a circular wait plus one idle process; small enough to
	// eyeball in encoded form, rich enough to exercise every field.
	s.snap = state.New(
		[]string{"editor", "compiler", "indexer"},
		[]string{"disk", "net"},
		[][]int{{1, 0}, {0, 1}, {0, 0}},
		[][]int{{1, 1}, {1, 1}, {0, 0}},
		[]int{0, 0},
	)
}

func (s *ScenarioSuite) TestJSONRoundTrip() {
	require := require.New(s.T())

	var buf bytes.Buffer
	require.NoError(scenario.Write(s.snap, &buf, scenario.FormatJSON))
	require.Contains(buf.String(), `"max_demand"`, "JSON field names are part of the file format")

	got, err := scenario.Read(&buf, scenario.FormatJSON)
	require.NoError(err)
	require.Equal(s.snap, got)
}

func (s *ScenarioSuite) TestTOMLRoundTrip() {
	require := require.New(s.T())

	var buf bytes.Buffer
	require.NoError(scenario.Write(s.snap, &buf, scenario.FormatTOML))
	require.Contains(buf.String(), "max_demand", "TOML keys mirror the JSON field names")

	got, err := scenario.Read(&buf, scenario.FormatTOML)
	require.NoError(err)
	require.Equal(s.snap, got)
}

func (s *ScenarioSuite) TestReadDefaultsOmittedNames() {
	require := require.New(s.T())

	const doc = `{
		"allocation": [[0, 1], [1, 0]],
		"max_demand": [[1, 1], [1, 1]],
		"available": [1, 1]
	}`
	got, err := scenario.Read(strings.NewReader(doc), scenario.FormatJSON)
	require.NoError(err)
	require.Equal([]string{"P0", "P1"}, got.Processes)
	require.Equal([]string{"R0", "R1"}, got.Resources)
}

func (s *ScenarioSuite) TestReadDefaultsResourceNamesFromAvailable() {
	require := require.New(s.T())

	// With no processes there are no allocation rows to count columns from,
	// so the resource count falls back to the available vector.
	const doc = `{"allocation": [], "max_demand": [], "available": [4, 2, 1]}`
	got, err := scenario.Read(strings.NewReader(doc), scenario.FormatJSON)
	require.NoError(err)
	require.Empty(got.Processes)
	require.Equal([]string{"R0", "R1", "R2"}, got.Resources)
}

func (s *ScenarioSuite) TestReadKeepsExplicitNames() {
	require := require.New(s.T())

	const doc = `{
		"processes": ["web", "db"],
		"resources": ["conn"],
		"allocation": [[1], [0]],
		"max_demand": [[1], [1]],
		"available": [1]
	}`
	got, err := scenario.Read(strings.NewReader(doc), scenario.FormatJSON)
	require.NoError(err)
	require.Equal([]string{"web", "db"}, got.Processes)
	require.Equal([]string{"conn"}, got.Resources)
}

func (s *ScenarioSuite) TestReadRejectsBadLabels() {
	require := require.New(s.T())

	cases := map[string]string{
		"empty process name":  `{"processes": ["P0", ""], "allocation": [[0], [0]], "max_demand": [[0], [0]], "available": [1]}`,
		"control characters":  `{"processes": ["P0", "P\u00011"], "allocation": [[0], [0]], "max_demand": [[0], [0]], "available": [1]}`,
		"empty resource name": `{"resources": [""], "allocation": [[0]], "max_demand": [[0]], "available": [1]}`,
	}
	for name, doc := range cases {
		_, err := scenario.Read(strings.NewReader(doc), scenario.FormatJSON)
		require.Error(err, name)
		require.Equal(errors.ErrCodeInvalidLabel, errors.GetCode(err), name)
	}
}

func (s *ScenarioSuite) TestReadMalformedDocuments() {
	require := require.New(s.T())

	_, err := scenario.Read(strings.NewReader(`{"allocation": [`), scenario.FormatJSON)
	require.Error(err)
	require.Equal(errors.ErrCodeInvalidScenario, errors.GetCode(err))
	require.True(errors.IsValidation(err))

	_, err = scenario.Read(strings.NewReader("allocation = [[1,"), scenario.FormatTOML)
	require.Error(err)
	require.Equal(errors.ErrCodeInvalidScenario, errors.GetCode(err))
}

func (s *ScenarioSuite) TestReadUnsupportedFormat() {
	require := require.New(s.T())

	_, err := scenario.Read(strings.NewReader("{}"), "yaml")
	require.Error(err)
	require.Equal(errors.ErrCodeInvalidFormat, errors.GetCode(err))

	err = scenario.Write(s.snap, &bytes.Buffer{}, "yaml")
	require.Error(err)
	require.Equal(errors.ErrCodeInvalidFormat, errors.GetCode(err))
}

func (s *ScenarioSuite) TestDetectFormat() {
	require := require.New(s.T())

	cases := []struct {
		path    string
		format  string
		wantErr bool
	}{
		{path: "snap.json", format: scenario.FormatJSON},
		{path: "snap.JSON", format: scenario.FormatJSON},
		{path: "dir/snap.toml", format: scenario.FormatTOML},
		{path: "snap.yaml", wantErr: true},
		{path: "snap", wantErr: true},
	}
	for _, tc := range cases {
		format, err := scenario.DetectFormat(tc.path)
		if tc.wantErr {
			require.Error(err, tc.path)
			require.Equal(errors.ErrCodeInvalidFormat, errors.GetCode(err), tc.path)
			continue
		}
		require.NoError(err, tc.path)
		require.Equal(tc.format, format, tc.path)
	}
}

func (s *ScenarioSuite) TestExportImportFiles() {
	require := require.New(s.T())
	dir := s.T().TempDir()

	for _, name := range []string{"snap.json", "snap.toml"} {
		path := filepath.Join(dir, name)
		require.NoError(scenario.Export(s.snap, path))

		got, err := scenario.Import(path)
		require.NoError(err, name)
		require.Equal(s.snap, got, name)
	}
}

func (s *ScenarioSuite) TestImportMissingFile() {
	require := require.New(s.T())

	_, err := scenario.Import(filepath.Join(s.T().TempDir(), "missing.json"))
	require.Error(err)
	require.Equal(errors.ErrCodeFileNotFound, errors.GetCode(err))
}

func TestScenarioSuite(t *testing.T) {
	suite.Run(t, new(ScenarioSuite))
}
