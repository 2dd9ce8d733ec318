package invoice

import (
	"slices"

	"pharmacy/internal/core/id"
)

// Line is a quantity of one catalog row.
type Line struct {
	Ref      id.ID
	Quantity int64
}

// Change is the per-ref outcome of comparing two line sets.
// Delta = Proposed - Existing.
type Change struct {
	Ref      id.ID `json:"ref"`
	Existing int64 `json:"existing"`
	Proposed int64 `json:"proposed"`
	Delta    int64 `json:"delta"`
}

// Plan groups changes by kind. Every slice is in ascending ref order.
type Plan struct {
	Added     []Change `json:"added,omitempty"`
	Removed   []Change `json:"removed,omitempty"`
	Changed   []Change `json:"changed,omitempty"`
	Unchanged []Change `json:"unchanged,omitempty"`
}

// Diff compares the persisted lines of an invoice with the proposed ones.
// Duplicate refs within one side are summed. Diff performs no I/O.
func Diff(existing, proposed []Line) Plan {
	before := sumLines(existing)
	after := sumLines(proposed)

	refs := make([]id.ID, 0, len(before)+len(after))
	for ref := range before {
		refs = append(refs, ref)
	}
	for ref := range after {
		if _, ok := before[ref]; !ok {
			refs = append(refs, ref)
		}
	}
	slices.SortFunc(refs, id.Compare)

	var plan Plan
	for _, ref := range refs {
		oldQty, hadOld := before[ref]
		newQty, hasNew := after[ref]
		c := Change{Ref: ref, Existing: oldQty, Proposed: newQty, Delta: newQty - oldQty}

		switch {
		case !hadOld:
			plan.Added = append(plan.Added, c)
		case !hasNew:
			plan.Removed = append(plan.Removed, c)
		case c.Delta != 0:
			plan.Changed = append(plan.Changed, c)
		default:
			plan.Unchanged = append(plan.Unchanged, c)
		}
	}
	return plan
}

func sumLines(lines []Line) map[id.ID]int64 {
	out := make(map[id.ID]int64, len(lines))
	for _, l := range lines {
		out[l.Ref] += l.Quantity
	}
	return out
}

// Deltas returns every change that moves stock, in ascending ref order.
func (p Plan) Deltas() []Change {
	out := make([]Change, 0, len(p.Added)+len(p.Removed)+len(p.Changed))
	out = append(out, p.Added...)
	out = append(out, p.Changed...)
	out = append(out, p.Removed...)
	slices.SortFunc(out, func(a, b Change) int { return id.Compare(a.Ref, b.Ref) })
	return out
}

// Kept returns the changes whose ref stays on the invoice, in ascending ref order.
func (p Plan) Kept() []Change {
	out := make([]Change, 0, len(p.Added)+len(p.Changed)+len(p.Unchanged))
	out = append(out, p.Added...)
	out = append(out, p.Changed...)
	out = append(out, p.Unchanged...)
	slices.SortFunc(out, func(a, b Change) int { return id.Compare(a.Ref, b.Ref) })
	return out
}

// Refs returns every ref touched by either side, ascending.
func (p Plan) Refs() []id.ID {
	refs := make([]id.ID, 0, len(p.Added)+len(p.Removed)+len(p.Changed)+len(p.Unchanged))
	for _, group := range [][]Change{p.Added, p.Removed, p.Changed, p.Unchanged} {
		for _, c := range group {
			refs = append(refs, c.Ref)
		}
	}
	return id.SortedUnique(refs)
}

// IsNoop reports whether applying the plan would move no stock.
func (p Plan) IsNoop() bool {
	return len(p.Added) == 0 && len(p.Removed) == 0 && len(p.Changed) == 0
}

func linesFromItems(items []Item) []Line {
	out := make([]Line, 0, len(items))
	for _, it := range items {
		out = append(out, Line{Ref: it.Ref(), Quantity: it.Quantity})
	}
	return out
}

func linesFromInputs(items []ItemInput) []Line {
	out := make([]Line, 0, len(items))
	for _, it := range items {
		ref := it.MedicineID
		if ref == nil {
			ref = it.ProductID
		}
		out = append(out, Line{Ref: *ref, Quantity: it.Quantity})
	}
	return out
}
