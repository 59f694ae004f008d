package model

import "fmt"

// Identity identifies the human accountable for a workflow action.
//
// The release workflows pass it through to signatures and audit records
// without validating it: an empty ID is recorded as-is, so the audit sink
// remains the single place deciding what an acceptable principal is.
type Identity struct {
	ID    string `json:"id" yaml:"id"`
	Email string `json:"email,omitempty" yaml:"email,omitempty"`
}

func (i Identity) String() string {
	if i.Email == "" {
		return i.ID
	}
	return fmt.Sprint(i.ID, " <", i.Email, ">")
}
