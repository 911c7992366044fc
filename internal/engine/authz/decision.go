// Package authz implements the capability checks guarding every service
// operation. Checks are evaluated admin-first over a small set of
// predicates: system role, actor status, team role, team membership and
// self reference. Soft checks return a Decision the caller must consume;
// hard gates return a typed error directly.
package authz

// Decision is the result of a soft capability check. Call sites must
// either act on it or discard it with an explicit comment.
type Decision struct {
	Allowed bool
	Reason  string
}

// Allow grants the capability.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny refuses the capability with a human-readable reason naming what
// is missing.
func Deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}
