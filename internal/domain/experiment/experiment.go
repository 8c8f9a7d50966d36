// Package experiment deterministically buckets request contexts into
// A/B experiment variants.
//
// Assignment is pure: the same (key, context) pair always resolves to the
// same variant, so a player keeps seeing one strategy for the lifetime of
// an experiment. There is no time-based randomness anywhere in this package.
package experiment

import "fmt"

// Key identifies a registered experiment. Keys form a closed set so an
// unknown experiment is a compile-time concern for callers using the
// exported constants and a runtime error for anything else.
type Key string

// Registered experiment keys.
const (
	KeyDeckWeighting Key = "deck-weighting"
)

// Variant names for the deck-weighting experiment.
const (
	VariantControl   = "control"
	VariantMetaAware = "meta-aware"
)

// Variant is one arm of an experiment with its rollout weight.
type Variant struct {
	Name   string
	Weight int
}

// Descriptor describes an experiment: its ordered variants and the
// default escape hatch.
type Descriptor struct {
	Key            Key
	Variants       []Variant
	DefaultVariant string
}

// TotalWeight sums the declared variant weights.
func (d Descriptor) TotalWeight() int {
	total := 0
	for _, v := range d.Variants {
		total += v.Weight
	}
	return total
}

// Context carries the identifiers available for seeding an assignment.
// All fields are optional; OverrideVariant short-circuits hashing entirely.
type Context struct {
	UserID          string
	PlayerTag       string
	SessionID       string
	Seed            string
	OverrideVariant string
}

// Reason explains how a variant was chosen.
type Reason string

// Assignment reasons.
const (
	ReasonOverride Reason = "override"
	ReasonRollout  Reason = "rollout"
)

// Assignment is the outcome of bucketing one context.
type Assignment struct {
	Descriptor Descriptor
	Variant    string
	Reason     Reason
}

var catalog = map[Key]Descriptor{
	KeyDeckWeighting: {
		Key:            KeyDeckWeighting,
		DefaultVariant: VariantControl,
		Variants: []Variant{
			{Name: VariantControl, Weight: 80},
			{Name: VariantMetaAware, Weight: 20},
		},
	},
}

// Lookup returns the descriptor registered for key.
func Lookup(key Key) (Descriptor, bool) {
	d, ok := catalog[key]
	return d, ok
}

// Assign resolves the variant for a context against the experiment catalog.
// An override wins unconditionally and is not validated against the
// descriptor's variants; that is the caller's responsibility.
func Assign(key Key, ctx Context) (Assignment, error) {
	desc, ok := Lookup(key)
	if !ok {
		return Assignment{}, fmt.Errorf("%w: %s", ErrUnknownExperiment, key)
	}

	if ctx.OverrideVariant != "" {
		return Assignment{Descriptor: desc, Variant: ctx.OverrideVariant, Reason: ReasonOverride}, nil
	}

	seed := seedFor(key, ctx)
	roll := int(hashString(seed) % uint64(desc.TotalWeight()))

	cumulative := 0
	for _, v := range desc.Variants {
		cumulative += v.Weight
		if roll < cumulative {
			return Assignment{Descriptor: desc, Variant: v.Name, Reason: ReasonRollout}, nil
		}
	}

	// Unreachable when weights are declared correctly; the default variant
	// is the defined escape hatch.
	return Assignment{Descriptor: desc, Variant: desc.DefaultVariant, Reason: ReasonRollout}, nil
}

// seedFor picks the most specific identifier available for hashing.
func seedFor(key Key, ctx Context) string {
	switch {
	case ctx.Seed != "":
		return ctx.Seed
	case ctx.UserID != "":
		return fmt.Sprintf("%s:%s", key, ctx.UserID)
	case ctx.PlayerTag != "":
		return fmt.Sprintf("%s:%s", key, ctx.PlayerTag)
	case ctx.SessionID != "":
		return fmt.Sprintf("%s:%s", key, ctx.SessionID)
	default:
		return string(key)
	}
}

// hashString is a polynomial rolling hash over the seed bytes. The result
// is unsigned so the modulo bucketing below never sees a negative roll.
func hashString(s string) uint64 {
	var h uint64
	for i := 0; i < len(s); i++ {
		h = h*31 + uint64(s[i])
	}
	return h
}
