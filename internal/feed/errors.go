// internal/feed/errors.go
package feed

import "errors"

// ErrNoSelection reports a comment submitted while no post is selected.
var ErrNoSelection = errors.New("no post selected")
