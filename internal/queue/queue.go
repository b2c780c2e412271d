// Package queue provides a bounded heap for nearest-neighbour selection.
package queue

import "slices"

// Neighbor is a candidate train item with its distance to the query.
type Neighbor struct {
	Index    int     // Index into the train collection.
	Distance float64 // Distance to the query; smaller is closer.
}

// closer orders by distance, breaking exact ties by the lower index.
func closer(a, b Neighbor) bool {
	if a.Distance != b.Distance {
		return a.Distance < b.Distance
	}
	return a.Index < b.Index
}

// TopK keeps the k nearest neighbors seen so far.
// Internally it is a max-heap whose root is the farthest retained neighbor.
type TopK struct {
	k     int
	items []Neighbor
}

// NewTopK creates a TopK that retains at most k neighbors.
func NewTopK(k int) *TopK {
	return &TopK{
		k:     k,
		items: make([]Neighbor, 0, k),
	}
}

// Len returns the number of retained neighbors.
func (q *TopK) Len() int { return len(q.items) }

// Push offers a neighbor. It is retained if fewer than k neighbors are held
// or if it is closer than the current farthest one.
func (q *TopK) Push(n Neighbor) {
	if q.k <= 0 {
		return
	}
	if len(q.items) < q.k {
		q.items = append(q.items, n)
		q.siftUp(len(q.items) - 1)
		return
	}
	if closer(n, q.items[0]) {
		q.items[0] = n
		q.siftDown(0)
	}
}

// Sorted returns the retained neighbors from nearest to farthest.
func (q *TopK) Sorted() []Neighbor {
	out := slices.Clone(q.items)
	slices.SortFunc(out, func(a, b Neighbor) int {
		if closer(a, b) {
			return -1
		}
		if closer(b, a) {
			return 1
		}
		return 0
	})
	return out
}

// Reset clears the queue for reuse.
func (q *TopK) Reset() {
	q.items = q.items[:0]
}

// less is the max-heap order: the farther neighbor ranks first.
func (q *TopK) less(i, j int) bool {
	return closer(q.items[j], q.items[i])
}

func (q *TopK) siftUp(i int) {
	for i > 0 {
		p := (i - 1) / 2
		if !q.less(i, p) {
			return
		}
		q.items[i], q.items[p] = q.items[p], q.items[i]
		i = p
	}
}

func (q *TopK) siftDown(i int) {
	n := len(q.items)
	for {
		l := 2*i + 1
		if l >= n {
			return
		}
		best := l
		r := l + 1
		if r < n && q.less(r, l) {
			best = r
		}
		if !q.less(best, i) {
			return
		}
		q.items[i], q.items[best] = q.items[best], q.items[i]
		i = best
	}
}

// Nearest returns the k nearest entries of row as neighbors sorted from
// nearest to farthest.
func Nearest(row []float64, k int) []Neighbor {
	q := NewTopK(k)
	for i, d := range row {
		q.Push(Neighbor{Index: i, Distance: d})
	}
	return q.Sorted()
}
