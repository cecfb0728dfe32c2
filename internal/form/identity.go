package form

import (
	"errors"
	"strings"
)

// AnyToken is the anonymous-instance placeholder. An entity created with it
// is only addressable through its left-hand assignment variable.
const AnyToken = "#PB_Any"

// ErrAnonymousIdentity marks an entity created with #PB_Any and no
// assignment: it has no stable key and must be treated read-only.
var ErrAnonymousIdentity = errors.New("#PB_Any identity without assignment")

// ResolveIdentity computes the stable key for an entity from its first
// parameter token and the optional left-hand assignment. The key is the
// assigned variable for #PB_Any creations, otherwise the literal first
// parameter token.
func ResolveIdentity(firstParam, assignedVar string) (id string, pbAny bool, err error) {
	token := strings.TrimSpace(firstParam)
	if token != AnyToken {
		return token, false, nil
	}
	if assignedVar == "" {
		return "", true, ErrAnonymousIdentity
	}
	return assignedVar, true, nil
}
