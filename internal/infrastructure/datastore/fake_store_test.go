package datastore

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Pedidos-api/internal/application/ports"
	"github.com/jhoicas/Pedidos-api/internal/domain"
)

var errOffline = errors.New("dial tcp: connection refused")

// fakeStore RemoteStore en memoria. failOps["insert:order_items"] o failOps["*"] fuerzan fallos.
type fakeStore struct {
	tables  map[string][]ports.Row
	failOps map[string]error
	calls   []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{tables: map[string][]ports.Row{}, failOps: map[string]error{}}
}

func (s *fakeStore) offline() {
	s.failOps["*"] = &domain.TransportError{Op: "select", Err: errOffline}
}

func (s *fakeStore) fail(op, table string) error {
	s.calls = append(s.calls, op+":"+table)
	if err, ok := s.failOps["*"]; ok {
		return err
	}
	if err, ok := s.failOps[op+":"+table]; ok {
		return err
	}
	return nil
}

func (s *fakeStore) Query(_ context.Context, table string, filter ports.Filter) ([]ports.Row, error) {
	if err := s.fail("select", table); err != nil {
		return nil, err
	}
	out := []ports.Row{}
	for _, r := range s.tables[table] {
		if matches(r, filter.Where) {
			out = append(out, copyRow(r))
		}
	}
	if filter.OrderBy != "" {
		sort.SliceStable(out, func(i, j int) bool {
			less := lessValue(out[i][filter.OrderBy], out[j][filter.OrderBy])
			if filter.Descending {
				return lessValue(out[j][filter.OrderBy], out[i][filter.OrderBy])
			}
			return less
		})
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *fakeStore) Insert(_ context.Context, table string, rows []ports.Row) ([]ports.Row, error) {
	if err := s.fail("insert", table); err != nil {
		return nil, err
	}
	out := make([]ports.Row, 0, len(rows))
	for _, r := range rows {
		r = copyRow(r)
		if _, ok := r["id"]; !ok && table != tableOrderItems {
			r["id"] = uuid.NewString()
		}
		if table == tableOrders {
			if _, ok := r["created_at"]; !ok {
				r["created_at"] = time.Now().UTC()
			}
		}
		s.tables[table] = append(s.tables[table], r)
		out = append(out, copyRow(r))
	}
	return out, nil
}

func (s *fakeStore) Update(_ context.Context, table, id string, patch ports.Row) error {
	if err := s.fail("update", table); err != nil {
		return err
	}
	for _, r := range s.tables[table] {
		if r["id"] == id {
			for k, v := range patch {
				r[k] = v
			}
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *fakeStore) Delete(_ context.Context, table, id string) error {
	if err := s.fail("delete", table); err != nil {
		return err
	}
	rows := s.tables[table][:0]
	for _, r := range s.tables[table] {
		if r["id"] != id {
			rows = append(rows, r)
		}
	}
	s.tables[table] = rows
	return nil
}

func (s *fakeStore) Upsert(_ context.Context, table string, rows []ports.Row, conflictKey string) error {
	if err := s.fail("upsert", table); err != nil {
		return err
	}
	for _, r := range rows {
		replaced := false
		for _, existing := range s.tables[table] {
			if existing[conflictKey] == r[conflictKey] {
				for k, v := range r {
					existing[k] = v
				}
				replaced = true
				break
			}
		}
		if !replaced {
			r = copyRow(r)
			r["id"] = uuid.NewString()
			s.tables[table] = append(s.tables[table], r)
		}
	}
	return nil
}

func (s *fakeStore) CheckCredential(_ context.Context, _, _ string) (*ports.Identity, error) {
	if err := s.fail("credential", "credentials"); err != nil {
		return nil, err
	}
	return nil, domain.ErrUnauthorized
}

func matches(r ports.Row, where []ports.Condition) bool {
	for _, c := range where {
		switch c.Op {
		case ports.OpIn:
			found := false
			for _, v := range c.Value.([]string) {
				if r[c.Column] == v {
					found = true
				}
			}
			if !found {
				return false
			}
		default:
			if r[c.Column] != c.Value {
				return false
			}
		}
	}
	return true
}

func lessValue(a, b any) bool {
	switch av := a.(type) {
	case time.Time:
		bv, _ := b.(time.Time)
		return av.Before(bv)
	case string:
		bv, _ := b.(string)
		return av < bv
	}
	return false
}

func copyRow(r ports.Row) ports.Row {
	out := make(ports.Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
