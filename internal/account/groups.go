package account

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"moneta/internal/core"
)

// Groups returns every group ordered by id ascending.
func (a *Account) Groups() []core.Group {
	out := make([]core.Group, 0, len(a.groups))
	for _, g := range a.groups {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// GroupByID returns the group with the given id, or false when no such
// group exists.
func (a *Account) GroupByID(id int) (core.Group, bool) {
	g, ok := a.groups[id]
	return g, ok
}

// NextAvailableGroupID returns max(existing group ids)+1, or 1 when the
// account has no groups.
func (a *Account) NextAvailableGroupID() int {
	next := 1
	for id := range a.groups {
		if id >= next {
			next = id + 1
		}
	}
	return next
}

// GroupNameInUse reports whether a group other than excludeID already
// holds the given name. The comparison is case-sensitive.
func (a *Account) GroupNameInUse(name string, excludeID int) bool {
	for id, g := range a.groups {
		if id != excludeID && g.Name == name {
			return true
		}
	}
	return false
}

// AddGroup persists a new group and inserts it in memory. The name must
// not be held by any existing group.
func (a *Account) AddGroup(ctx context.Context, g core.Group) error {
	if a.GroupNameInUse(g.Name, g.ID) {
		return fmt.Errorf("add group %q: %w", g.Name, ErrGroupNameInUse)
	}
	if err := a.repo.InsertGroup(ctx, g); err != nil {
		return err
	}
	a.groups[g.ID] = g
	return nil
}

// UpdateGroup persists changes keyed by g.ID and replaces the in-memory
// entry. Renaming to a name held by a different group is rejected;
// keeping the current name is allowed.
func (a *Account) UpdateGroup(ctx context.Context, g core.Group) error {
	if a.GroupNameInUse(g.Name, g.ID) {
		return fmt.Errorf("update group %q: %w", g.Name, ErrGroupNameInUse)
	}
	if err := a.repo.UpdateGroup(ctx, g); err != nil {
		return err
	}
	a.groups[g.ID] = g
	return nil
}

// DeleteGroup removes the group and detaches every transaction that
// referenced it, both in the store and in memory.
func (a *Account) DeleteGroup(ctx context.Context, id int) error {
	if err := a.repo.DeleteGroup(ctx, id); err != nil {
		return err
	}
	delete(a.groups, id)
	for tid, t := range a.transactions {
		if t.GroupID == id {
			t.GroupID = core.NoGroup
			a.transactions[tid] = t
		}
	}
	return nil
}

// GroupBalance returns the signed sum of the group's member
// transactions: income adds, expense subtracts. Always recomputed,
// never cached.
func (a *Account) GroupBalance(id int) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range a.transactions {
		if t.GroupID == id {
			sum = sum.Add(t.Signed())
		}
	}
	return sum
}
