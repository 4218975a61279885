package confkit

import (
	"dario.cat/mergo"
	"github.com/cockroachdb/errors"
)

// Merge overlays a feature's configuration on top of the domain root. The
// feature wins on every field it sets; fields the feature leaves at their
// zero value inherit from root. Map-valued fields merge per key, with the
// feature's keys winning. Neither input is modified.
//
// With typed configurations "set" means non-zero: a feature cannot override
// a root value back to the zero value. Model such fields as pointers if the
// distinction matters.
func Merge[C any](root, feature C) (C, error) {
	var merged C
	if err := mergo.Merge(&merged, feature); err != nil {
		return merged, errors.Wrap(err, "overlaying feature configuration")
	}
	if err := mergo.Merge(&merged, root); err != nil {
		return merged, errors.Wrap(err, "merging root configuration")
	}
	return merged, nil
}
