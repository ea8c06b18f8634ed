package app

import (
	"fmt"
	"sync"

	"github.com/roman-kulish/seismic-amplitude/internal/amplitude"
)

// node represents an internal linked list node for the result buffer.
type node struct {
	result *amplitude.Result
	next   *node
}

// ResultBuffer implements a thread-safe buffer for measurement results that
// keeps them ordered by measurement start time, so that every batch written
// to the database is in time order regardless of which worker finished first.
type ResultBuffer struct {
	capacity   int // Maximum number of results to hold before a flush is due
	flushCount int // Number of results to remove on each flush

	mu   sync.Mutex
	head *node
	size int
}

// NewResultBuffer creates a new result buffer.
//
// Parameters:
//   - capacity: number of results after which the buffer reports full
//   - flushCount: number of results to remove when buffer is full
//
// Returns an error if parameters are invalid.
func NewResultBuffer(capacity, flushCount int) (*ResultBuffer, error) {
	if capacity <= 0 || flushCount <= 0 || flushCount > capacity {
		return nil, fmt.Errorf("invalid buffer parameters: bufferCap=%d, toFlush=%d", capacity, flushCount)
	}
	return &ResultBuffer{
		capacity:   capacity,
		flushCount: flushCount,
	}, nil
}

// Insert adds a result to the buffer in start time order. Results with
// the same start time keep their detection ID order.
func (b *ResultBuffer) Insert(r *amplitude.Result) error {
	if r == nil {
		return fmt.Errorf("cannot insert nil result")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.head == nil || less(r, b.head.result) {
		b.head = &node{result: r, next: b.head}
		b.size++
		return nil
	}

	current := b.head
	for current.next != nil && !less(r, current.next.result) {
		current = current.next
	}

	current.next = &node{result: r, next: current.next}
	b.size++
	return nil
}

// IsFull returns true if the buffer has reached its capacity.
func (b *ResultBuffer) IsFull() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.size >= b.capacity
}

// Flush removes and returns the earliest results from the buffer.
// Returns nil if the buffer is empty.
func (b *ResultBuffer) Flush() []*amplitude.Result {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.size == 0 {
		return nil
	}

	count := b.flushCount
	if b.size > b.capacity {
		count += b.size - b.capacity
	}
	return b.take(min(count, b.size))
}

// DrainAll removes and returns all results from the buffer.
// Returns nil if the buffer is empty.
func (b *ResultBuffer) DrainAll() []*amplitude.Result {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.size == 0 {
		return nil
	}
	return b.take(b.size)
}

// Size returns the current number of results in the buffer.
func (b *ResultBuffer) Size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.size
}

func (b *ResultBuffer) take(count int) []*amplitude.Result {
	results := make([]*amplitude.Result, 0, count)
	current := b.head
	for i := 0; i < count && current != nil; i++ {
		results = append(results, current.result)
		current = current.next
	}

	b.head = current
	b.size -= len(results)
	return results
}

func less(a, b *amplitude.Result) bool {
	if a.Measurement.StartTime != b.Measurement.StartTime {
		return a.Measurement.StartTime < b.Measurement.StartTime
	}
	return a.Detection.ID < b.Detection.ID
}
