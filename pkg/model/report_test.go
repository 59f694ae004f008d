package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAssayReport(t *testing.T) {
	report, err := ParseAssayReport([]byte(`{
		"council": {"proposer": "model-a", "judge": "model-b"},
		"results": {"pass": true, "score": 98.5}
	}`))
	require.NoError(t, err)

	council, err := report.Council()
	require.NoError(t, err)
	assert.Equal(t, "model-a", council["proposer"])
	assert.Equal(t, "model-b", council["judge"])

	results, err := report.Results()
	require.NoError(t, err)
	assert.True(t, results.Pass)
	assert.Equal(t, 98.5, results.Score)
}

func TestParseAssayReportInvalid(t *testing.T) {
	_, err := ParseAssayReport([]byte(`{not json`))
	assert.Error(t, err)
}

func TestAssayReportCouncilErrors(t *testing.T) {
	report, err := ParseAssayReport([]byte(`{"results": {"pass": true, "score": 1}}`))
	require.NoError(t, err)
	_, err = report.Council()
	assert.Contains(t, err.Error(), "missing 'council'")

	report, err = ParseAssayReport([]byte(`{"council": "not-an-object"}`))
	require.NoError(t, err)
	_, err = report.Council()
	assert.Contains(t, err.Error(), "must be an object")

	report, err = ParseAssayReport([]byte(`{"council": null}`))
	require.NoError(t, err)
	_, err = report.Council()
	assert.Contains(t, err.Error(), "must be an object")
}

func TestAssayReportResultsErrors(t *testing.T) {
	report, err := ParseAssayReport([]byte(`{"council": {}}`))
	require.NoError(t, err)
	_, err = report.Results()
	assert.Contains(t, err.Error(), "missing 'results'")

	report, err = ParseAssayReport([]byte(`{"council": {}, "results": {"score": 10}}`))
	require.NoError(t, err)
	_, err = report.Results()
	assert.Contains(t, err.Error(), "missing 'pass'")

	report, err = ParseAssayReport([]byte(`{"council": {}, "results": {"pass": true}}`))
	require.NoError(t, err)
	_, err = report.Results()
	assert.Contains(t, err.Error(), "missing 'score'")
}

func TestWorkspacePaths(t *testing.T) {
	assert.Equal(t, "ws/evidence/assay_report.json", AssayReportPath("ws"))
	assert.Equal(t, "ws/council_manifest.lock", CouncilManifestPath("ws"))
	assert.Equal(t, "ws/models/distilled", DistilledModelsPath("ws"))
	assert.Equal(t, "candidate/v1.1.0", CandidateBranch("v1.1.0"))
	assert.Equal(t, "Release v1.1.0", ReleaseTitle("v1.1.0"))
}
