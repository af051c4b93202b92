package analyzer

import "errors"

// ErrInternalComputation marks an unexpected fault inside scoring.
var ErrInternalComputation = errors.New("internal computation error")
