package model

import (
	"encoding/json"
	"fmt"
)

// AssayReport is the review report returned by the assay service.
//
// The raw document is retained verbatim: it is persisted as evidence exactly
// as served. Top-level sections stay undecoded so that each consumer enforces
// only the fields it actually needs.
type AssayReport struct {
	Raw      []byte                     `json:"-"`
	Sections map[string]json.RawMessage `json:"-"`
}

// AssayResults is the subset of the results section the certificate requires.
type AssayResults struct {
	Pass  bool
	Score float64
}

// ParseAssayReport decodes the top level of an assay report document.
func ParseAssayReport(raw []byte) (*AssayReport, error) {
	var sections map[string]json.RawMessage
	if err := json.Unmarshal(raw, &sections); err != nil {
		return nil, fmt.Errorf("failed to parse assay report: %v", err)
	}
	return &AssayReport{Raw: raw, Sections: sections}, nil
}

// Council decodes the council section. The section must be present and must
// be a JSON object.
func (r *AssayReport) Council() (map[string]interface{}, error) {
	section, ok := r.Sections["council"]
	if !ok {
		return nil, fmt.Errorf("assay report missing 'council' section")
	}
	var council map[string]interface{}
	if err := json.Unmarshal(section, &council); err != nil || council == nil {
		return nil, fmt.Errorf("assay report 'council' section must be an object")
	}
	return council, nil
}

// Results decodes the results section and requires the pass and score fields.
func (r *AssayReport) Results() (AssayResults, error) {
	section, ok := r.Sections["results"]
	if !ok {
		return AssayResults{}, fmt.Errorf("missing 'results' in report data")
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(section, &fields); err != nil || fields == nil {
		return AssayResults{}, fmt.Errorf("'results' section must be an object")
	}
	rawPass, ok := fields["pass"]
	if !ok {
		return AssayResults{}, fmt.Errorf("missing 'pass' in results")
	}
	rawScore, ok := fields["score"]
	if !ok {
		return AssayResults{}, fmt.Errorf("missing 'score' in results")
	}
	var results AssayResults
	if err := json.Unmarshal(rawPass, &results.Pass); err != nil {
		return AssayResults{}, fmt.Errorf("'pass' in results must be a boolean")
	}
	if err := json.Unmarshal(rawScore, &results.Score); err != nil {
		return AssayResults{}, fmt.Errorf("'score' in results must be a number")
	}
	return results, nil
}
