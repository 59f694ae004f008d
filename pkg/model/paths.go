package model

import "path/filepath"

// Fixed locations inside a workspace. All release tooling agrees on these,
// so they live here rather than in per-package constants.
const (
	// EvidenceDir holds verbatim copies of review evidence
	EvidenceDir = "evidence"

	// AssayReportFile is the persisted assay report, under EvidenceDir
	AssayReportFile = "assay_report.json"

	// CouncilManifestFile is the canonical council snapshot at the workspace root
	CouncilManifestFile = "council_manifest.lock"

	// CertificateFile is the rendered certificate of analysis
	CertificateFile = "CERTIFICATE.md"

	// AgentConfigFile declares the agent, including its version
	AgentConfigFile = "agent.yaml"

	// ChangelogFile keeps dated release sections, newest first
	ChangelogFile = "CHANGELOG.md"

	// ModelsDir is where model weights live
	ModelsDir = "models"

	// DistilledDir is the co-location target for stray weights, under ModelsDir
	DistilledDir = "distilled"

	// TestsDir is excluded from model weight scans
	TestsDir = "tests"

	// GitDir is the version-control metadata directory, excluded everywhere
	GitDir = ".git"

	// GitAttributesFile records large-object tracking patterns
	GitAttributesFile = ".gitattributes"
)

// AssayReportPath yields the evidence copy location for a workspace.
func AssayReportPath(workspace string) string {
	return filepath.Join(workspace, EvidenceDir, AssayReportFile)
}

// CouncilManifestPath yields the manifest location for a workspace.
func CouncilManifestPath(workspace string) string {
	return filepath.Join(workspace, CouncilManifestFile)
}

// CertificatePath yields the certificate location for a workspace.
func CertificatePath(workspace string) string {
	return filepath.Join(workspace, CertificateFile)
}

// AgentConfigPath yields the agent declaration location for a workspace.
func AgentConfigPath(workspace string) string {
	return filepath.Join(workspace, AgentConfigFile)
}

// ChangelogPath yields the changelog location for a workspace.
func ChangelogPath(workspace string) string {
	return filepath.Join(workspace, ChangelogFile)
}

// DistilledModelsPath yields the co-location destination for a workspace.
func DistilledModelsPath(workspace string) string {
	return filepath.Join(workspace, ModelsDir, DistilledDir)
}
