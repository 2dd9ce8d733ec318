package invoice

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pharmacy/internal/core/id"
)

func TestDiff(t *testing.T) {
	a := id.MustParse("00000000-0000-7000-8000-00000000000a")
	b := id.MustParse("00000000-0000-7000-8000-00000000000b")
	c := id.MustParse("00000000-0000-7000-8000-00000000000c")
	d := id.MustParse("00000000-0000-7000-8000-00000000000d")

	tests := []struct {
		name     string
		existing []Line
		proposed []Line
		want     Plan
	}{
		{
			name:     "create",
			proposed: []Line{{b, 2}, {a, 1}},
			want: Plan{Added: []Change{
				{Ref: a, Existing: 0, Proposed: 1, Delta: 1},
				{Ref: b, Existing: 0, Proposed: 2, Delta: 2},
			}},
		},
		{
			name:     "delete",
			existing: []Line{{a, 3}},
			want:     Plan{Removed: []Change{{Ref: a, Existing: 3, Proposed: 0, Delta: -3}}},
		},
		{
			name:     "mixed",
			existing: []Line{{a, 4}, {b, 5}, {c, 1}},
			proposed: []Line{{a, 6}, {b, 5}, {d, 2}},
			want: Plan{
				Added:     []Change{{Ref: d, Existing: 0, Proposed: 2, Delta: 2}},
				Removed:   []Change{{Ref: c, Existing: 1, Proposed: 0, Delta: -1}},
				Changed:   []Change{{Ref: a, Existing: 4, Proposed: 6, Delta: 2}},
				Unchanged: []Change{{Ref: b, Existing: 5, Proposed: 5, Delta: 0}},
			},
		},
		{
			name:     "reduction",
			existing: []Line{{a, 20}},
			proposed: []Line{{a, 12}},
			want:     Plan{Changed: []Change{{Ref: a, Existing: 20, Proposed: 12, Delta: -8}}},
		},
		{
			name:     "duplicates are summed",
			existing: []Line{{a, 1}, {a, 2}},
			proposed: []Line{{a, 2}, {a, 1}},
			want:     Plan{Unchanged: []Change{{Ref: a, Existing: 3, Proposed: 3, Delta: 0}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.existing, tt.proposed)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDiffIsDeterministic(t *testing.T) {
	refs := make([]id.ID, 20)
	lines := make([]Line, 20)
	for i := range refs {
		refs[i] = id.New()
		lines[i] = Line{Ref: refs[i], Quantity: int64(i + 1)}
	}

	first := Diff(nil, lines)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Diff(nil, lines))
	}
	assert.Equal(t, id.SortedUnique(refs), first.Refs())
}

func TestPlanHelpers(t *testing.T) {
	a := id.MustParse("00000000-0000-7000-8000-00000000000a")
	b := id.MustParse("00000000-0000-7000-8000-00000000000b")
	c := id.MustParse("00000000-0000-7000-8000-00000000000c")

	plan := Diff([]Line{{a, 1}, {c, 2}}, []Line{{b, 1}, {c, 2}})

	assert.Equal(t, []id.ID{a, b, c}, plan.Refs())
	assert.False(t, plan.IsNoop())

	deltas := plan.Deltas()
	if assert.Len(t, deltas, 2) {
		assert.Equal(t, a, deltas[0].Ref)
		assert.Equal(t, b, deltas[1].Ref)
	}

	kept := plan.Kept()
	if assert.Len(t, kept, 2) {
		assert.Equal(t, b, kept[0].Ref)
		assert.Equal(t, c, kept[1].Ref)
	}

	assert.True(t, Diff([]Line{{c, 2}}, []Line{{c, 2}}).IsNoop())
}
