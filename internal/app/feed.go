package app

import (
	"sync"

	"repeater-test-service/internal/domain"
)

// ResultFeed fans graded results out to live subscribers (the admin results
// websocket). Publishing never blocks a grading pass: a slow subscriber loses
// its oldest undelivered event instead.
type ResultFeed struct {
	mu          sync.Mutex
	subscribers map[chan domain.GradedResult]struct{}
}

func NewResultFeed() *ResultFeed {
	return &ResultFeed{subscribers: make(map[chan domain.GradedResult]struct{})}
}

// Subscribe returns a channel of graded results. The caller must invoke the
// returned cancel function to avoid leaks.
func (f *ResultFeed) Subscribe() (<-chan domain.GradedResult, func()) {
	ch := make(chan domain.GradedResult, 8)

	f.mu.Lock()
	f.subscribers[ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if _, ok := f.subscribers[ch]; ok {
			delete(f.subscribers, ch)
			close(ch)
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers a result to every subscriber, dropping the oldest queued
// event for subscribers that have fallen behind.
func (f *ResultFeed) Publish(result domain.GradedResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subscribers {
		select {
		case ch <- result:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- result
		}
	}
}
