package memory

import (
	"context"
	"sync"
)

// AuditLog collects audit lines in memory, for tests and dry runs.
type AuditLog struct {
	mu    sync.Mutex
	lines []string
}

func NewAuditLog() *AuditLog {
	return &AuditLog{}
}

func (l *AuditLog) Append(_ context.Context, line string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, line)
	return nil
}

// Lines returns a snapshot of everything appended so far.
func (l *AuditLog) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.lines...)
}
