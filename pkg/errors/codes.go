// Package errors provides centralized error code definitions for RingSense.
// Codes are grouped by concern: general argument/contract failures, molecule
// graph contract violations, and input parsing.
package errors

// ErrorCode represents a typed error code used throughout RingSense.
// Codes are partitioned by concern to avoid conflicts and simplify
// maintenance.
type ErrorCode int

// ─────────────────────────────────────────────────────────────────────────────
// General / cross-cutting error codes  (1xxxx)
// ─────────────────────────────────────────────────────────────────────────────
const (
	// CodeOK indicates no error.
	CodeOK ErrorCode = 0

	// CodeUnknown is a catch-all for errors that have not been categorised.
	CodeUnknown ErrorCode = 10000

	// CodeInvalidArgument is returned when a caller passes a nil or foreign
	// atom, an empty attribute name or value, or any other parameter that
	// fails validation.
	CodeInvalidArgument ErrorCode = 10001

	// CodeNotFound is returned when an attribute lookup matches nothing, or
	// when a distance query finds its two atoms disconnected.
	CodeNotFound ErrorCode = 10002

	// CodeInternal is returned for unexpected failures that are not
	// attributable to the caller.
	CodeInternal ErrorCode = 10003
)

// ─────────────────────────────────────────────────────────────────────────────
// Molecule graph error codes  (2xxxx)
// ─────────────────────────────────────────────────────────────────────────────
const (
	// CodeValenceViolation is returned when adding a bond, or promoting its
	// order, would push an endpoint past its valence ceiling.
	CodeValenceViolation ErrorCode = 20001

	// CodeDuplicateAttribute is returned when an attribute name is added to
	// a molecule that already carries it.
	CodeDuplicateAttribute ErrorCode = 20002

	// CodeImmutability is returned on any attempt to mutate a completed
	// ring.
	CodeImmutability ErrorCode = 20003

	// CodeStateInconsistency is returned when a normalised-state invariant
	// is found broken: an uncharged atom whose neighbour and hydrogen counts
	// do not sum to its valence, a ring completed with fewer than three
	// atoms or a missing closing bond, or a smallest-ring query with a tie.
	CodeStateInconsistency ErrorCode = 20004
)

// ─────────────────────────────────────────────────────────────────────────────
// Input error codes  (3xxxx)
// ─────────────────────────────────────────────────────────────────────────────
const (
	// CodeUnknownElement is returned when an element symbol (with optional
	// isotope suffix) is not present in the periodic table.
	CodeUnknownElement ErrorCode = 30001

	// CodeSDFParseError is returned when an MDL/SDF V2000 block is
	// malformed: bad counts line, a block shorter than its declared counts,
	// an atom line with no symbol, a bond line naming an unknown atom or a
	// non-creatable order, an unparsable property line, or a malformed data
	// header.  A final record without a terminator is accepted.
	CodeSDFParseError ErrorCode = 30002
)

// String returns the human-readable name associated with an ErrorCode.
// It is safe to call on any value, including unknown codes.
func (c ErrorCode) String() string {
	switch c {
	case CodeOK:
		return "OK"
	case CodeUnknown:
		return "UNKNOWN"
	case CodeInvalidArgument:
		return "INVALID_ARGUMENT"
	case CodeNotFound:
		return "NOT_FOUND"
	case CodeInternal:
		return "INTERNAL_ERROR"
	case CodeValenceViolation:
		return "VALENCE_VIOLATION"
	case CodeDuplicateAttribute:
		return "DUPLICATE_ATTRIBUTE"
	case CodeImmutability:
		return "IMMUTABILITY"
	case CodeStateInconsistency:
		return "STATE_INCONSISTENCY"
	case CodeUnknownElement:
		return "UNKNOWN_ELEMENT"
	case CodeSDFParseError:
		return "SDF_PARSE_ERROR"
	default:
		return "UNKNOWN_CODE"
	}
}
