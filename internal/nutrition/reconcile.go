package nutrition

import "math"

// DefaultTolerance is the largest per-channel difference between a cached and
// a freshly computed total that is still considered equal.
const DefaultTolerance = 0.01

// Value is an optional nutrient value. The zero Value means "not provided, use
// the computed value"; Provided(0) is an explicit zero.
type Value struct {
	v   float64
	set bool
}

// Provided returns a Value carrying v.
func Provided(v float64) Value {
	return Value{v: v, set: true}
}

// UseComputed returns the empty Value.
func UseComputed() Value {
	return Value{}
}

// ValueOf converts a nullable column into a Value.
func ValueOf(p *float64) Value {
	if p == nil {
		return Value{}
	}
	return Provided(*p)
}

// Get returns the value and whether it was provided.
func (v Value) Get() (float64, bool) {
	return v.v, v.set
}

// IsSet reports whether the value was provided.
func (v Value) IsSet() bool {
	return v.set
}

// OrElse returns the provided value or fallback.
func (v Value) OrElse(fallback float64) float64 {
	if v.set {
		return v.v
	}
	return fallback
}

// Ptr converts the value back into a nullable column.
func (v Value) Ptr() *float64 {
	if !v.set {
		return nil
	}
	x := v.v
	return &x
}

// Manual holds user supplied overrides, one optional value per channel.
type Manual struct {
	Calories Value
	Proteins Value
	Fats     Value
	Carbs    Value
	Fiber    Value
	Alcohol  Value
}

// Apply returns the manual values, taking each missing channel from fallback.
func (m Manual) Apply(fallback Totals) Totals {
	return Totals{
		Calories: m.Calories.OrElse(fallback.Calories),
		Proteins: m.Proteins.OrElse(fallback.Proteins),
		Fats:     m.Fats.OrElse(fallback.Fats),
		Carbs:    m.Carbs.OrElse(fallback.Carbs),
		Fiber:    m.Fiber.OrElse(fallback.Fiber),
		Alcohol:  m.Alcohol.OrElse(fallback.Alcohol),
	}
}

// Composite is the part of a meal or recipe that determines its nutrition.
// Stored holds the last persisted totals.
type Composite struct {
	AutoCalculated bool
	Ingredients    []Ingredient
	Manual         Manual
	Stored         Totals
}

// ResolveTotals picks the totals to report for c. calc computes the
// composition of a list of ingredients, normally Resolver.Calculate.
//
// Manual entities report their overrides, falling back per channel to the
// computed composition, or to the stored totals when there is nothing to
// compute from. Auto-calculated entities with no ingredients report their
// stored totals: an empty composition carries no information.
func ResolveTotals(c Composite, calc func([]Ingredient) Totals) Totals {
	var fallback Totals
	if len(c.Ingredients) > 0 {
		fallback = calc(c.Ingredients)
	} else {
		fallback = c.Stored
	}
	if !c.AutoCalculated {
		return c.Manual.Apply(fallback)
	}
	return fallback
}

// Snapshot is the part of a cached total compared by NeedsRefresh. Fiber and
// alcohol are not part of the staleness check.
type Snapshot struct {
	Calories Value
	Proteins Value
	Fats     Value
	Carbs    Value
}

// SnapshotOf builds a fully populated snapshot of t.
func SnapshotOf(t Totals) Snapshot {
	return Snapshot{
		Calories: Provided(t.Calories),
		Proteins: Provided(t.Proteins),
		Fats:     Provided(t.Fats),
		Carbs:    Provided(t.Carbs),
	}
}

// NeedsRefresh reports whether a cached snapshot differs from a freshly
// computed one. Two absent values are equal, an absent and a present value
// differ, and two present values differ when they are more than tolerance
// apart. A negative tolerance means DefaultTolerance.
func NeedsRefresh(stored, fresh Snapshot, tolerance float64) bool {
	if tolerance < 0 {
		tolerance = DefaultTolerance
	}
	return differs(stored.Calories, fresh.Calories, tolerance) ||
		differs(stored.Proteins, fresh.Proteins, tolerance) ||
		differs(stored.Fats, fresh.Fats, tolerance) ||
		differs(stored.Carbs, fresh.Carbs, tolerance)
}

func differs(a, b Value, tolerance float64) bool {
	if !a.set && !b.set {
		return false
	}
	if a.set != b.set {
		return true
	}
	return math.Abs(a.v-b.v) > tolerance
}
