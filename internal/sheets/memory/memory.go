package memory

import (
	"context"
	"fmt"
	"sync"

	ports "spendwise/internal/sheets"
)

// Store keeps the last table written per owner. Used for local runs and tests.
type Store struct {
	mu     sync.Mutex
	tables map[string][][]interface{}
	writes int
}

var _ ports.TableWriter = (*Store)(nil)

func New() *Store {
	return &Store{tables: make(map[string][][]interface{})}
}

// WriteTable replaces the owner's table and returns a synthetic range reference.
func (s *Store) WriteTable(ctx context.Context, owner string, values [][]interface{}) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	cp := make([][]interface{}, len(values))
	for i, row := range values {
		cp[i] = append([]interface{}(nil), row...)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[owner] = cp
	s.writes++
	return fmt.Sprintf("mem:%s!A1:R%d", owner, len(cp)), nil
}

// Table returns a copy of the owner's last written table.
func (s *Store) Table(owner string) ([][]interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[owner]
	if !ok {
		return nil, false
	}
	out := make([][]interface{}, len(t))
	for i, row := range t {
		out[i] = append([]interface{}(nil), row...)
	}
	return out, true
}

// Writes reports how many tables have been written.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
