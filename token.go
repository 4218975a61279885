package confkit

// Tokens key every provider a Factory stores. Including the domain as a
// prefix keeps tokens from different domains disjoint. Feature names are
// joined verbatim, with no escaping: a feature name that itself contains
// the separator can collide with another (domain, feature) pair, and
// choosing unambiguous names is the caller's responsibility.

const (
	featureSep        = "_Feature_"
	featureOptionsSep = "_Feature_Options_"
)

// RootToken returns the token under which a domain's root configuration is
// stored.
func RootToken(domain string) string {
	return domain
}

// FeatureOptionsToken returns the token under which a feature's configuration
// overrides are stored.
func FeatureOptionsToken(domain, feature string) string {
	return domain + featureOptionsSep + feature
}

// FeatureToken returns the token under which a feature's resolved client
// handle is stored.
func FeatureToken(domain, feature string) string {
	return domain + featureSep + feature
}
