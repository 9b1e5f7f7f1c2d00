package pair

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSideOther(t *testing.T) {
	assert.Equal(t, Away, Home.Other())
	assert.Equal(t, Home, Away.Other())
	assert.Equal(t, "home", Home.String())
	assert.Equal(t, "away", Away.String())
}

func TestEachVisitsHomeFirst(t *testing.T) {
	var order []Side
	New("h", "a").Each(func(s Side, v string) {
		order = append(order, s)
	})
	assert.Equal(t, []Side{Home, Away}, order)
}

func TestMapSides(t *testing.T) {
	p := MapSides(New(1, 2), func(own, opp int, s Side) int {
		return own*10 + opp
	})
	assert.Equal(t, 12, p.Home)
	assert.Equal(t, 21, p.Away)
}

func TestZip(t *testing.T) {
	z := Zip(New("x", "y"), New(1, 2))
	assert.Equal(t, Two[string, int]{A: "x", B: 1}, z.Home)
	assert.Equal(t, Two[string, int]{A: "y", B: 2}, z.Away)
}

func TestTranspose(t *testing.T) {
	h, a := 1, 2

	both, ok := Transpose(New(&h, &a))
	require.True(t, ok)
	assert.Equal(t, New(1, 2), both)

	_, ok = Transpose(New(&h, (*int)(nil)))
	assert.False(t, ok)

	_, ok = Transpose(New((*int)(nil), &a))
	assert.False(t, ok)
}

func TestAndThenShortCircuitsOnHome(t *testing.T) {
	var calls []int
	_, ok := AndThen(New(1, 2), func(v int) (int, bool) {
		calls = append(calls, v)
		return 0, false
	})
	assert.False(t, ok)
	assert.Equal(t, []int{1}, calls, "away side must not be evaluated after home fails")
}

func TestAndThenBothSucceed(t *testing.T) {
	p, ok := AndThen(New(1, 2), func(v int) (int, bool) {
		return v * 10, true
	})
	require.True(t, ok)
	assert.Equal(t, New(10, 20), p)
}

func TestTryMapFirstErrorWins(t *testing.T) {
	_, err := TryMap(New(1, 2), func(v int) (int, error) {
		return 0, assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
}
