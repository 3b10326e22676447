package algorithms

import (
	"fmt"

	"bgs-showcase/internal/version"
)

// Rule appends Algorithms to the base set when Applies holds for the tier.
type Rule struct {
	Name       string
	Applies    func(version.Tier) bool
	Algorithms []string
}

// BaseSet is available in every supported tier.
var BaseSet = []string{
	"FrameDifference", "StaticFrameDifference", "WeightedMovingMean",
	"WeightedMovingVariance", "AdaptiveBackgroundLearning",
	"AdaptiveSelectiveBackgroundLearning", "MixtureOfGaussianV2",
	"PixelBasedAdaptiveSegmenter", "SigmaDelta", "SuBSENSE", "LOBSTER",
	"PAWCS", "TwoPoints", "ViBe", "CodeBook",
	"FuzzySugenoIntegral", "FuzzyChoquetIntegral", "LBSimpleGaussian",
	"LBFuzzyGaussian", "LBMixtureOfGaussians", "LBAdaptiveSOM",
	"LBFuzzyAdaptiveSOM", "VuMeter", "KDE", "IndependentMultimodal",
}

// DefaultRules is evaluated in order after the base set.
var DefaultRules = []Rule{
	{
		Name:       "legacy only",
		Applies:    func(t version.Tier) bool { return t == version.TierLegacy },
		Algorithms: []string{"MixtureOfGaussianV1", "GMG"},
	},
	{
		Name:       "3.x and later",
		Applies:    func(t version.Tier) bool { return t != version.TierLegacy },
		Algorithms: []string{"KNN"},
	},
	{
		Name: "dropped in 4.x",
		Applies: func(t version.Tier) bool {
			return t == version.TierLegacy || t == version.TierEarly3 || t == version.Tier3
		},
		Algorithms: []string{
			"DPAdaptiveMedian", "DPGrimsonGMM", "DPZivkovicAGMM",
			"DPMean", "DPWrenGA", "DPPratiMediod", "DPEigenbackground",
			"DPTexture", "T2FGMM_UM", "T2FGMM_UV", "T2FMRF_UM",
			"T2FMRF_UV", "MultiCue",
		},
	},
	{
		Name:       "removed after 3.4.7",
		Applies:    func(t version.Tier) bool { return t == version.TierLegacy || t == version.TierEarly3 },
		Algorithms: []string{"LBP_MRF", "MultiLayer"},
	},
}

// Registry resolves the algorithms available for a toolkit version.
type Registry struct {
	base      []string
	rules     []Rule
	providers Providers
}

// NewRegistry returns a registry over the default rule table. Names missing
// from providers are still listed but cannot be constructed.
func NewRegistry(providers Providers) *Registry {
	return NewRegistryWithRules(BaseSet, DefaultRules, providers)
}

func NewRegistryWithRules(base []string, rules []Rule, providers Providers) *Registry {
	if providers == nil {
		providers = Providers{}
	}
	return &Registry{
		base:      base,
		rules:     rules,
		providers: providers,
	}
}

// Available returns the ordered descriptors for versionString: the base set
// first, then each matching rule's block in table order.
func (r *Registry) Available(versionString string) ([]Descriptor, error) {
	tier, err := version.Classify(versionString)
	if err != nil {
		return nil, err
	}
	return r.ForTier(tier), nil
}

// ForTier is Available for an already classified version.
func (r *Registry) ForTier(tier version.Tier) []Descriptor {
	names := make([]string, 0, len(r.base)+16)
	names = append(names, r.base...)
	for _, rule := range r.rules {
		if rule.Applies(tier) {
			names = append(names, rule.Algorithms...)
		}
	}

	descriptors := make([]Descriptor, len(names))
	for i, name := range names {
		descriptors[i] = r.describe(name)
	}
	return descriptors
}

// Rules returns the rule table in evaluation order.
func (r *Registry) Rules() []Rule {
	return append([]Rule(nil), r.rules...)
}

func (r *Registry) describe(name string) Descriptor {
	if ctor, ok := r.providers[name]; ok {
		return Descriptor{Name: name, New: ctor, linked: true}
	}
	return Descriptor{
		Name: name,
		New: func() (Algorithm, error) {
			return nil, fmt.Errorf("%w: %s", ErrNotLinked, name)
		},
	}
}

// Available resolves versionString against the default table with the given
// providers.
func Available(versionString string, providers Providers) ([]Descriptor, error) {
	return NewRegistry(providers).Available(versionString)
}

// Filter keeps the descriptors whose names appear in only, preserving order.
// An empty only keeps everything.
func Filter(descriptors []Descriptor, only []string) []Descriptor {
	if len(only) == 0 {
		return descriptors
	}
	keep := make(map[string]struct{}, len(only))
	for _, name := range only {
		keep[name] = struct{}{}
	}
	filtered := make([]Descriptor, 0, len(only))
	for _, d := range descriptors {
		if _, ok := keep[d.Name]; ok {
			filtered = append(filtered, d)
		}
	}
	return filtered
}

// Names extracts descriptor names in order.
func Names(descriptors []Descriptor) []string {
	names := make([]string, len(descriptors))
	for i, d := range descriptors {
		names[i] = d.Name
	}
	return names
}
