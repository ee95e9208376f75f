package orderbook

import "container/heap"

// priceHeap is the shared storage for both heap orientations. Only Less
// differs between the bid and ask views.
type priceHeap []int64

func (h priceHeap) Len() int      { return len(h) }
func (h priceHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *priceHeap) Push(x interface{}) {
	*h = append(*h, x.(int64))
}

func (h *priceHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

// peek returns the top price without removing it, 0 if empty.
func (h priceHeap) peek() int64 {
	if len(h) == 0 {
		return 0
	}
	return h[0]
}

// bidHeap keeps the highest bid price on top.
type bidHeap struct{ priceHeap }

func (h bidHeap) Less(i, j int) bool { return h.priceHeap[i] > h.priceHeap[j] }

// drop removes one occurrence of price. O(n) scan, but a level disappears far
// less often than it is peeked.
func (h *bidHeap) drop(price int64) {
	for i, p := range h.priceHeap {
		if p == price {
			heap.Remove(h, i)
			return
		}
	}
}

// askHeap keeps the lowest ask price on top.
type askHeap struct{ priceHeap }

func (h askHeap) Less(i, j int) bool { return h.priceHeap[i] < h.priceHeap[j] }

func (h *askHeap) drop(price int64) {
	for i, p := range h.priceHeap {
		if p == price {
			heap.Remove(h, i)
			return
		}
	}
}
