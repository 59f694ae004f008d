// Copyright © 2025 CoReason, Inc.

package signer

import (
	"encoding/json"
	"strings"

	"github.com/coreason-ai/publisher/pkg/model"
	"github.com/coreason-ai/publisher/pkg/signer/status"
)

const (
	auditTrailHeader = "--- COREASON AUDIT TRAIL ---"
	auditTrailFooter = "----------------------------"
)

// FormatChangeDescription appends the delimited audit trail block to a change
// description (typically a commit message).
//
// The block is a JSON object carrying the signer identity, role, signature,
// a UTC timestamp taken at call time, and the compliance tag. Downstream
// tooling re-parses it, so the exact marker lines are a compatibility surface.
func (s *Signer) FormatChangeDescription(original string, identity model.Identity, signature, role string) string {
	record := model.NewAuditRecord(identity, signature, role)

	block, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		// AuditRecord marshalling cannot fail on valid UTF-8 inputs
		panic(err)
	}

	var b strings.Builder
	b.WriteString(original)
	b.WriteString("\n\n")
	b.WriteString(auditTrailHeader)
	b.WriteString("\n")
	b.Write(block)
	b.WriteString("\n")
	b.WriteString(auditTrailFooter)
	return b.String()
}

// ParseAuditTrail extracts the audit record embedded in a change description
// by FormatChangeDescription.
func ParseAuditTrail(description string) (model.AuditRecord, error) {
	var record model.AuditRecord

	start := strings.Index(description, auditTrailHeader)
	if start < 0 {
		return record, status.ErrNoAuditTrail
	}
	rest := description[start+len(auditTrailHeader):]
	end := strings.Index(rest, auditTrailFooter)
	if end < 0 {
		return record, status.ErrNoAuditTrail
	}

	if err := json.Unmarshal([]byte(strings.TrimSpace(rest[:end])), &record); err != nil {
		return record, status.ErrNoAuditTrail.Wrap(err)
	}
	return record, nil
}
