package sync

import "errors"

// ErrContentRootMissing aborts a run before any file is touched. Every other
// failure during a run is scoped to a single document.
var ErrContentRootMissing = errors.New("sync: content root does not exist")
