package contributor

import "github.com/okineadev/gitpaper/internal/commit"

// Roster is an insertion-ordered set of contributors deduplicated by identity key.
type Roster struct {
	order []string
	byKey map[string]commit.Identity
}

// NewRoster returns an empty roster.
func NewRoster() *Roster {
	return &Roster{byKey: make(map[string]commit.Identity)}
}

// Add records an identity. A second identity with the same key is merged into
// the first: the first-seen name/email pairing stays, but a resolver-supplied
// display name and username replace the raw git name.
func (r *Roster) Add(id commit.Identity) {
	key := id.Key()
	if key == "" {
		return
	}

	existing, ok := r.byKey[key]
	if !ok {
		r.order = append(r.order, key)
		r.byKey[key] = id
		return
	}

	r.byKey[key] = merge(existing, id)
}

func merge(existing, incoming commit.Identity) commit.Identity {
	if existing.IsResolved() || !incoming.IsResolved() {
		return existing
	}
	existing.Username = incoming.Username
	if incoming.Name != "" {
		existing.Name = incoming.Name
	}
	return existing
}

// Len returns the number of distinct contributors.
func (r *Roster) Len() int {
	return len(r.order)
}

// Identities returns the contributors in first-seen order.
func (r *Roster) Identities() []commit.Identity {
	identities := make([]commit.Identity, 0, len(r.order))
	for _, key := range r.order {
		identities = append(identities, r.byKey[key])
	}
	return identities
}
