package confkit

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Sentinel errors for the registration and resolution failure modes.
// Match with errors.Is; the concrete errors carry the domain and feature
// identity in their message.
var (
	// ErrDuplicateRoot is reported when a root configuration is registered
	// twice for the same domain. Registration fails fast rather than
	// silently overwriting the earlier value.
	ErrDuplicateRoot = errors.New("root configuration already registered")

	// ErrDuplicateFeature is reported when two features in the same domain
	// share a name, whether within one bulk registration or across calls.
	ErrDuplicateFeature = errors.New("duplicate feature name")

	// ErrResolution is reported when an async configuration factory fails.
	// It wraps the original cause.
	ErrResolution = errors.New("configuration resolution failed")

	// ErrInvalidConfiguration is reported by client instantiators when a
	// merged configuration is missing required fields or fails shape
	// validation. The factory propagates it without modification.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrMissingDependency is reported when a dependency declared by an
	// async registration cannot be resolved.
	ErrMissingDependency = errors.New("missing dependency")
)

// InvalidConfiguration builds the error a client instantiator returns when
// the merged configuration for a feature is incomplete. The missing field
// names are included for diagnosis.
func InvalidConfiguration(domain, feature string, missing ...string) error {
	return errors.Mark(
		errors.Newf("domain %s: feature %s: missing or invalid fields: %s",
			domain, feature, strings.Join(missing, ", ")),
		ErrInvalidConfiguration,
	)
}

func duplicateRoot(domain string) error {
	return errors.Mark(
		errors.Newf("domain %s: root configuration already registered", domain),
		ErrDuplicateRoot,
	)
}

func duplicateFeatures(domain string, names []string) error {
	return errors.Mark(
		errors.Newf("domain %s: duplicate feature name(s): %s", domain, strings.Join(names, ", ")),
		ErrDuplicateFeature,
	)
}

func resolutionError(domain, feature string, cause error) error {
	return errors.Mark(
		errors.Wrapf(cause, "domain %s: resolving feature %s", domain, feature),
		ErrResolution,
	)
}

func rootResolutionError(domain string, cause error) error {
	return errors.Mark(
		errors.Wrapf(cause, "domain %s: resolving root configuration", domain),
		ErrResolution,
	)
}

func missingDependency(dep Dependency, cause error) error {
	return errors.Mark(
		errors.Wrapf(cause, "resolving dependency %s", dep),
		ErrMissingDependency,
	)
}
