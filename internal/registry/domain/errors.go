// Package registry holds the persisted entities of the station registry and
// the repository contracts their storage implements.
package registry

import "errors"

// ErrValidation marks an entity that fails its invariants. Callers branch
// on it with errors.Is; the message suffix names the violated field.
var ErrValidation = errors.New("registry: validation failed")
