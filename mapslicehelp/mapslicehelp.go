// Package mapslicehelp has generic helpers around insertion ordered maps.
package mapslicehelp

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"golang.org/x/exp/constraints"
)

type number interface {
	constraints.Integer | constraints.Float
}

// Increment adds one to the value of k, inserting it when missing, and returns the new value.
func Increment[K comparable, V number](m *orderedmap.OrderedMap[K, V], k K) V {
	v, _ := m.Get(k)
	v++
	m.Set(k, v)
	return v
}

// FindFirstKeyWithMaxValue returns the oldest key holding the largest value,
// and how many keys share that value.
func FindFirstKeyWithMaxValue[K comparable, V constraints.Ordered](m *orderedmap.OrderedMap[K, V]) (maxK K, maxV V, numWinners uint) {
	first := true
	for p := m.Oldest(); p != nil; p = p.Next() {
		if first || p.Value > maxV {
			maxK = p.Key
			maxV = p.Value
			numWinners = 1
			first = false
			continue
		}
		if p.Value == maxV {
			numWinners++
		}
	}
	return
}

func OrderedMapKeys[K comparable, V any](m *orderedmap.OrderedMap[K, V]) []K {
	l := make([]K, m.Len())
	i := 0
	for p := m.Oldest(); p != nil; p = p.Next() {
		l[i] = p.Key
		i++
	}
	return l
}

func SumValues[K comparable, V number](m *orderedmap.OrderedMap[K, V]) V {
	var sum V
	for p := m.Oldest(); p != nil; p = p.Next() {
		sum += p.Value
	}
	return sum
}

func CountVals[K, V comparable](m *orderedmap.OrderedMap[K, V], v V) int {
	n := 0
	for p := m.Oldest(); p != nil; p = p.Next() {
		if p.Value == v {
			n++
		}
	}
	return n
}
