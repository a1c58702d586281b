// Package phrases holds the local text generators used when no remote
// analysis is requested: the flat call-to-action list and the templated
// creative lines.
package phrases

import "math/rand/v2"

// CTAPhrases is the fixed pool RandomCTA draws from.
var CTAPhrases = []string{
	"Download Now",
	"Free Content",
	"Try Today",
	"Get Started",
	"Learn More",
	"Sign Up",
	"Buy Now",
	"Join Today",
	"Start Free",
	"Watch Now",
	"Click Here",
	"Explore More",
	"Get Access",
	"Subscribe Now",
	"Limited Time",
	"Don't Miss",
	"Act Fast",
	"Save Today",
	"Exclusive Deal",
	"Premium Access",
	"Instant Access",
	"Free Trial",
	"No Risk",
	"Guaranteed Results",
	"Proven Method",
	"Expert Tips",
	"Step By Step",
	"Easy Setup",
	"Quick Start",
	"Begin Today",
}

// RandomCTA returns a uniformly chosen element of CTAPhrases.
func RandomCTA(r *rand.Rand) string {
	return pick(r, CTAPhrases)
}

func pick(r *rand.Rand, xs []string) string {
	if len(xs) == 0 {
		return ""
	}
	if r == nil {
		return xs[rand.IntN(len(xs))]
	}
	return xs[r.IntN(len(xs))]
}
