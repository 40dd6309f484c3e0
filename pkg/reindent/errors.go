package reindent

import "errors"

// ErrMissingConfiguration reports that no language configuration with
// indentation rules is available for a buffer. Re-indent operations
// degrade to a pass-through outcome carrying this sentinel as the reason
// rather than failing; guessing at structure is worse than doing nothing.
var ErrMissingConfiguration = errors.New("no indentation configuration for language")
