package table

// node is an internal linked list node for the queue.
type node[T any] struct {
	item T
	next *node[T]
}

// Queue is a FIFO backed by a singly linked list. Pops are consumed
// destructively; a queue is not safe for concurrent use.
type Queue[T any] struct {
	head *node[T]
	tail *node[T]
	size int
}

// NewQueue creates a queue holding items in order.
func NewQueue[T any](items ...T) *Queue[T] {
	q := &Queue[T]{}
	for _, item := range items {
		q.Push(item)
	}
	return q
}

// Push appends item to the back of the queue.
func (q *Queue[T]) Push(item T) {
	n := &node[T]{item: item}
	if q.tail == nil {
		q.head = n
	} else {
		q.tail.next = n
	}
	q.tail = n
	q.size++
}

// Pop removes and returns the item at the front of the queue.
// The second result is false if the queue is empty.
func (q *Queue[T]) Pop() (T, bool) {
	var zero T
	if q.head == nil {
		return zero, false
	}

	n := q.head
	q.head = n.next
	if q.head == nil {
		q.tail = nil
	}
	q.size--
	return n.item, true
}

// Peek returns the item at the front of the queue without removing it.
func (q *Queue[T]) Peek() (T, bool) {
	var zero T
	if q.head == nil {
		return zero, false
	}
	return q.head.item, true
}

// Drain removes and returns all items from the queue.
// Returns nil if the queue is empty.
func (q *Queue[T]) Drain() []T {
	if q.head == nil {
		return nil
	}

	results := make([]T, 0, q.size) // Preallocate with capacity
	for current := q.head; current != nil; current = current.next {
		results = append(results, current.item)
	}

	q.head, q.tail = nil, nil
	q.size = 0
	return results
}

// Len returns the current number of items in the queue.
func (q *Queue[T]) Len() int {
	return q.size
}

// IsEmpty returns true if the queue holds no items.
func (q *Queue[T]) IsEmpty() bool {
	return q.size == 0
}
