// Copyright © 2025 CoReason, Inc.

// Package signer computes deterministic content fingerprints over release
// bundles and formats the audit trail records attached to every signed
// change, as required by 21 CFR Part 11 record keeping.
//
// The fingerprint is a BLAKE2B-256 digest over the ordered set of
// (relative path, content) pairs in a directory tree. It is independent of
// filesystem enumeration order, timestamps and symlinks, and changes
// whenever a file is added, removed, renamed or modified.
//
// The signature of a bundle is currently its fingerprint. The Sign entry
// point is the reserved extension spot for asymmetric signing.
package signer
