package serial

import "errors"

// The three failure classes of a conversion. Unresolved cross-references and
// absent optional fields are not errors; they degrade to omission or nil and
// are reported through the warning list instead.
var (
	// ErrMalformedDocument means the input is not well-formed XML.
	ErrMalformedDocument = errors.New("malformed document")

	// ErrSchemaMismatch means well-formed XML missing a required
	// element/attribute or carrying a value of the wrong shape.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrEncodingFailure means the model could not be rendered as valid
	// document text.
	ErrEncodingFailure = errors.New("encoding failure")
)
