package manifest

import "errors"

// ErrInvalid indicates manifest bytes that are not a well-formed entry array.
var ErrInvalid = errors.New("manifest: invalid manifest")
