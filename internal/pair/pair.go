// Package pair provides the two-sided home/away container used throughout
// the scoring pipeline. A game always has exactly two sides; every combinator
// preserves which side is which and visits home before away.
package pair

// Side tags one slot of a Pair.
type Side int

const (
	Home Side = iota
	Away
)

func (s Side) String() string {
	if s == Away {
		return "away"
	}
	return "home"
}

// Other returns the opposing side.
func (s Side) Other() Side {
	if s == Home {
		return Away
	}
	return Home
}

// Pair holds one value per side of a game.
type Pair[T any] struct {
	Home T
	Away T
}

func New[T any](home, away T) Pair[T] {
	return Pair[T]{Home: home, Away: away}
}

// Get returns the value for the given side.
func (p Pair[T]) Get(s Side) T {
	if s == Away {
		return p.Away
	}
	return p.Home
}

// Each visits both sides, home first.
func (p Pair[T]) Each(f func(Side, T)) {
	f(Home, p.Home)
	f(Away, p.Away)
}

// Slice returns both values in home, away order.
func (p Pair[T]) Slice() []T {
	return []T{p.Home, p.Away}
}

// Map applies f to both sides independently, preserving tags.
func Map[T, M any](p Pair[T], f func(T) M) Pair[M] {
	return Pair[M]{Home: f(p.Home), Away: f(p.Away)}
}

// MapSides applies f to each side together with the opposing side's value,
// so "self vs. opponent" computations run symmetrically in one pass.
func MapSides[T, M any](p Pair[T], f func(own, opp T, s Side) M) Pair[M] {
	return Pair[M]{
		Home: f(p.Home, p.Away, Home),
		Away: f(p.Away, p.Home, Away),
	}
}

// Two is a slot-wise pairing of values produced by Zip.
type Two[A, B any] struct {
	A A
	B B
}

// Zip combines two pairs slot-wise.
func Zip[A, B any](a Pair[A], b Pair[B]) Pair[Two[A, B]] {
	return Pair[Two[A, B]]{
		Home: Two[A, B]{A: a.Home, B: b.Home},
		Away: Two[A, B]{A: a.Away, B: b.Away},
	}
}

// Transpose lifts a pair of optional values into an optional pair.
// It reports ok only when both sides are present; partial data is discarded.
func Transpose[T any](p Pair[*T]) (Pair[T], bool) {
	if p.Home == nil || p.Away == nil {
		return Pair[T]{}, false
	}
	return Pair[T]{Home: *p.Home, Away: *p.Away}, true
}

// AndThen maps both sides through a fallible f and transposes the result.
// The home side is evaluated first and a failure short-circuits the away side.
func AndThen[T, M any](p Pair[T], f func(T) (M, bool)) (Pair[M], bool) {
	home, ok := f(p.Home)
	if !ok {
		return Pair[M]{}, false
	}
	away, ok := f(p.Away)
	if !ok {
		return Pair[M]{}, false
	}
	return Pair[M]{Home: home, Away: away}, true
}

// TryMap is AndThen for error-returning functions. The first error wins,
// home side first.
func TryMap[T, M any](p Pair[T], f func(T) (M, error)) (Pair[M], error) {
	home, err := f(p.Home)
	if err != nil {
		return Pair[M]{}, err
	}
	away, err := f(p.Away)
	if err != nil {
		return Pair[M]{}, err
	}
	return Pair[M]{Home: home, Away: away}, nil
}
