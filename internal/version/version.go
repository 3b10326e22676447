// Package version parses imaging toolkit version strings and classifies them
// into the tiers that gate algorithm availability.
package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformed is returned for anything that is not exactly three
// dot-separated non-negative integers.
var ErrMalformed = errors.New("malformed version")

type Version struct {
	Major int
	Minor int
	Patch int
}

// Tier is a coarse classification of a Version. Tiers are ordered.
type Tier int

const (
	// TierLegacy covers every 2.x release and anything older.
	TierLegacy Tier = iota
	// TierEarly3 covers 3.0.0 up to and including 3.4.7.
	TierEarly3
	// Tier3 covers the remaining 3.x releases.
	Tier3
	// TierModern covers 4.x and later.
	TierModern
)

func (t Tier) String() string {
	switch t {
	case TierLegacy:
		return "<=2.x"
	case TierEarly3:
		return "3.x<=3.4.7"
	case Tier3:
		return "3.x"
	case TierModern:
		return ">=4.x"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// Parse reads a major.minor.patch string.
func Parse(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("%w: %q: want major.minor.patch", ErrMalformed, s)
	}

	var nums [3]int
	for i, p := range parts {
		if p == "" || strings.TrimLeft(p, "0123456789") != "" {
			return Version{}, fmt.Errorf("%w: %q: component %d is not a non-negative integer", ErrMalformed, s, i+1)
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q: %v", ErrMalformed, s, err)
		}
		nums[i] = n
	}

	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// Tier classifies v. The "patch <= 347" boundary is an ordered comparison
// against 3.4.7, so 3.1.9 and 3.3.12 both fall in TierEarly3.
func (v Version) Tier() Tier {
	switch {
	case v.Major <= 2:
		return TierLegacy
	case v.Major == 3 && v.Compare(Version{Major: 3, Minor: 4, Patch: 7}) <= 0:
		return TierEarly3
	case v.Major == 3:
		return Tier3
	default:
		return TierModern
	}
}

// Compare returns -1, 0 or 1 depending on whether v sorts before, equal to or
// after o.
func (v Version) Compare(o Version) int {
	for _, d := range [...]int{v.Major - o.Major, v.Minor - o.Minor, v.Patch - o.Patch} {
		switch {
		case d < 0:
			return -1
		case d > 0:
			return 1
		}
	}
	return 0
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Classify parses s and returns its tier.
func Classify(s string) (Tier, error) {
	v, err := Parse(s)
	if err != nil {
		return 0, err
	}
	return v.Tier(), nil
}
