package file

import (
	"context"
	"fmt"
	"os"
	"sync"
)

// AuditLog appends one summary line per grading pass to a plain text file.
// O_APPEND keeps concurrent single-line writes whole on the local filesystems
// this service runs on.
type AuditLog struct {
	path string
	mu   sync.Mutex
}

func NewAuditLog(path string) *AuditLog {
	return &AuditLog{path: path}
}

func (l *AuditLog) Append(_ context.Context, line string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("append audit line: %w", err)
	}
	return nil
}
