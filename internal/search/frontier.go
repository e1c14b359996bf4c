package search

// queue is a FIFO of arena indices.
type queue struct {
	items []int
	head  int
}

func (q *queue) Push(i int) {
	q.items = append(q.items, i)
}

func (q *queue) Pop() (int, bool) {
	if q.head == len(q.items) {
		return 0, false
	}
	i := q.items[q.head]
	q.head++
	// Reclaim the consumed prefix once it dominates the buffer.
	if q.head > 1024 && q.head*2 > len(q.items) {
		n := copy(q.items, q.items[q.head:])
		q.items = q.items[:n]
		q.head = 0
	}
	return i, true
}

func (q *queue) Len() int {
	return len(q.items) - q.head
}
