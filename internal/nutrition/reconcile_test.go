package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValue(t *testing.T) {
	v, ok := UseComputed().Get()
	assert.False(t, ok)
	assert.Zero(t, v)

	zero := Provided(0)
	assert.True(t, zero.IsSet())
	assert.Equal(t, 0.0, zero.OrElse(42))
	assert.Equal(t, 42.0, Value{}.OrElse(42))

	assert.Nil(t, Value{}.Ptr())
	x := 12.5
	assert.Equal(t, Provided(12.5), ValueOf(&x))
	assert.Equal(t, UseComputed(), ValueOf(nil))
	assert.Equal(t, 12.5, *ValueOf(&x).Ptr())
}

func TestResolveTotals(t *testing.T) {
	computed := Totals{Calories: 500, Proteins: 30, Fats: 20, Carbs: 50, Fiber: 5}
	stored := Totals{Calories: 410, Proteins: 25, Fats: 15, Carbs: 40, Fiber: 4, Alcohol: 1}
	calc := func([]Ingredient) Totals { return computed }
	items := []Ingredient{{Amount: 1}}

	tests := []struct {
		name string
		c    Composite
		want Totals
	}{
		{
			name: "auto-calculated uses composition",
			c:    Composite{AutoCalculated: true, Ingredients: items, Stored: stored},
			want: computed,
		},
		{
			name: "auto-calculated without ingredients keeps stored totals",
			c:    Composite{AutoCalculated: true, Stored: stored},
			want: stored,
		},
		{
			name: "manual calories blend with computed values",
			c: Composite{
				Ingredients: items,
				Manual:      Manual{Calories: Provided(650)},
				Stored:      stored,
			},
			want: Totals{Calories: 650, Proteins: 30, Fats: 20, Carbs: 50, Fiber: 5},
		},
		{
			name: "manual without ingredients blends with stored totals",
			c: Composite{
				Manual: Manual{Calories: Provided(650), Fats: Provided(0)},
				Stored: stored,
			},
			want: Totals{Calories: 650, Proteins: 25, Fats: 0, Carbs: 40, Fiber: 4, Alcohol: 1},
		},
		{
			name: "manual flags are ignored when auto-calculated",
			c: Composite{
				AutoCalculated: true,
				Ingredients:    items,
				Manual:         Manual{Calories: Provided(1)},
			},
			want: computed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveTotals(tt.c, calc))
		})
	}
}

func TestResolveTotalsSkipsCalculationWithoutIngredients(t *testing.T) {
	called := false
	ResolveTotals(Composite{AutoCalculated: true}, func([]Ingredient) Totals {
		called = true
		return Totals{}
	})
	assert.False(t, called)
}

func TestNeedsRefresh(t *testing.T) {
	base := Snapshot{Calories: Provided(100), Proteins: Provided(10), Fats: Provided(5), Carbs: Provided(20)}

	tests := []struct {
		name      string
		stored    Snapshot
		fresh     Snapshot
		tolerance float64
		want      bool
	}{
		{
			name:      "identical",
			stored:    base,
			fresh:     base,
			tolerance: DefaultTolerance,
			want:      false,
		},
		{
			name:      "difference within tolerance",
			stored:    Snapshot{Calories: Provided(100)},
			fresh:     Snapshot{Calories: Provided(100.005)},
			tolerance: 0.01,
			want:      false,
		},
		{
			name:      "difference beyond tolerance",
			stored:    Snapshot{Calories: Provided(100)},
			fresh:     Snapshot{Calories: Provided(100.02)},
			tolerance: 0.01,
			want:      true,
		},
		{
			name:      "both absent",
			stored:    Snapshot{},
			fresh:     Snapshot{},
			tolerance: DefaultTolerance,
			want:      false,
		},
		{
			name:      "one absent",
			stored:    Snapshot{Calories: Provided(100), Proteins: Provided(10), Fats: Provided(5)},
			fresh:     base,
			tolerance: DefaultTolerance,
			want:      true,
		},
		{
			name:      "absent compared to zero",
			stored:    Snapshot{},
			fresh:     Snapshot{Carbs: Provided(0)},
			tolerance: DefaultTolerance,
			want:      true,
		},
		{
			name:      "negative tolerance uses default",
			stored:    Snapshot{Fats: Provided(5)},
			fresh:     Snapshot{Fats: Provided(5.005)},
			tolerance: -1,
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NeedsRefresh(tt.stored, tt.fresh, tt.tolerance))
		})
	}
}

func TestSnapshotOf(t *testing.T) {
	s := SnapshotOf(Totals{Calories: 1, Proteins: 2, Fats: 3, Carbs: 4, Fiber: 5, Alcohol: 6})
	assert.Equal(t, Snapshot{Calories: Provided(1), Proteins: Provided(2), Fats: Provided(3), Carbs: Provided(4)}, s)
	assert.False(t, NeedsRefresh(s, SnapshotOf(Totals{Calories: 1, Proteins: 2, Fats: 3, Carbs: 4, Fiber: 50}), DefaultTolerance))
}
