// Package model describes the base objects manipulated by the publisher.
//
// The release workflow revolves around a few nouns:
//
//	Workspace:
//	  The checked-out agent repository being released. The bundler, signer
//	  and version manager all mutate or read this tree in place.
//
//	Bundle:
//	  The normalized content of a workspace at proposal time: oversized
//	  artifacts offloaded to remote storage, model weights co-located,
//	  compliance manifest and certificate generated.
//
//	Fingerprint / Signature:
//	  A deterministic content hash over the bundle tree. The signature is
//	  currently the fingerprint itself, reserved for asymmetric signing.
//
//	Audit record:
//	  The structured block appended to change descriptions and forwarded
//	  to the audit sink, as required by 21 CFR Part 11 record keeping.
//
//	Release:
//	  One transition of the state machine Proposed -> Finalized | Rejected,
//	  tracked on the hosting provider as a merge request plus a tag.
package model
