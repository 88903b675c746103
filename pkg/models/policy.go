package models

import "fmt"

// PolicyType discriminates the access-control union.
type PolicyType string

const (
	PolicyPublic      PolicyType = "public"
	PolicyPrivate     PolicyType = "private"
	PolicyConditional PolicyType = "conditional"
)

// AccessPolicy governs who may view a capsule's content.
//
// Conditional policies carry a descriptive condition taxonomy
// (token_holder, geo_location, quiz, ...) that is recorded but never
// evaluated: a conditional capsule is individually fetchable subject to
// the lifecycle gate only, and is excluded from public listings.
type AccessPolicy struct {
	Type PolicyType `json:"type"`

	// private
	AllowedViewers []string `json:"allowed_viewers,omitempty"`

	// conditional
	ConditionType string `json:"condition_type,omitempty"`
	ConditionData string `json:"condition_data,omitempty"`
}

// IsViewable reports whether the policy admits the given viewer. An empty
// viewer means an anonymous caller.
func (p AccessPolicy) IsViewable(viewer string) bool {
	switch p.Type {
	case PolicyPublic:
		return true
	case PolicyPrivate:
		if viewer == "" {
			return false
		}
		for _, v := range p.AllowedViewers {
			if v == viewer {
				return true
			}
		}
		return false
	case PolicyConditional:
		// Conditions are inert: no enforcement beyond the unlock date.
		return true
	default:
		return false
	}
}

// CheckType verifies the policy uses a known variant tag.
func (p AccessPolicy) CheckType() error {
	switch p.Type {
	case PolicyPublic, PolicyPrivate, PolicyConditional:
		return nil
	default:
		return fmt.Errorf("unknown access policy type: %q", p.Type)
	}
}
