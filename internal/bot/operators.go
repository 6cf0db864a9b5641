package bot

import "github.com/cespare/xxhash/v2"

// OperatorAuthority is the authority level granted to configured operators.
const OperatorAuthority = 4

// Operators is a set of chat user ids stored as xxhash digests.
type Operators struct {
	ids map[uint64]struct{}
}

// NewOperators builds the set, empty ids are skipped.
func NewOperators(ids []string) *Operators {
	set := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		set[xxhash.Sum64String(id)] = struct{}{}
	}

	return &Operators{ids: set}
}

// Contains reports whether userID is an operator.
func (o *Operators) Contains(userID string) bool {
	if userID == "" {
		return false
	}
	_, ok := o.ids[xxhash.Sum64String(userID)]
	return ok
}
