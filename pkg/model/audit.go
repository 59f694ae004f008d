// Copyright © 2025 CoReason, Inc.

package model

import "time"

// Signer roles recognized by the release workflows.
const (
	// RoleProposer is the operator proposing a release
	RoleProposer = "SRE"

	// RoleReviewer is the review-board member finalizing or rejecting it
	RoleReviewer = "SRB"
)

// ComplianceTag marks audit records as kept under 21 CFR Part 11 rules.
const ComplianceTag = "21 CFR Part 11"

// AuditRecord is the structured record embedded in change descriptions and
// forwarded to the audit sink. Field order matters: it is serialized as-is
// into documents that reviewers read and tooling re-parses.
type AuditRecord struct {
	SignerID   string    `json:"signer_id"`
	SignerRole string    `json:"signer_role"`
	Signature  string    `json:"signature"`
	Timestamp  time.Time `json:"timestamp"`
	Compliance string    `json:"compliance"`
}

// NewAuditRecord assembles a record for the given actor, stamped now in UTC.
func NewAuditRecord(identity Identity, signature, role string) AuditRecord {
	return AuditRecord{
		SignerID:   identity.ID,
		SignerRole: role,
		Signature:  signature,
		Timestamp:  time.Now().UTC(),
		Compliance: ComplianceTag,
	}
}
