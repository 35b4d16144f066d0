package postgres

import (
	"context"
	"fmt"
	"reflect"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type call struct {
	sql  string
	args []any
}

// fakeQuerier devuelve respuestas preparadas y registra cada sentencia recibida.
type fakeQuerier struct {
	calls []call

	execTag pgconn.CommandTag
	execErr error

	rows     [][]any
	queryErr error
	rowsErr  error
	closed   bool

	row    []any
	rowErr error
}

func (f *fakeQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.calls = append(f.calls, call{sql: sql, args: args})
	return f.execTag, f.execErr
}

func (f *fakeQuerier) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	f.calls = append(f.calls, call{sql: sql, args: args})
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return &fakeRows{data: f.rows, err: f.rowsErr, onClose: func() { f.closed = true }}, nil
}

func (f *fakeQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.calls = append(f.calls, call{sql: sql, args: args})
	if f.rowErr != nil {
		return errRow{err: f.rowErr}
	}
	if f.row == nil {
		return errRow{err: pgx.ErrNoRows}
	}
	return fakeRow(f.row)
}

func (f *fakeQuerier) last() call {
	return f.calls[len(f.calls)-1]
}

type fakeRow []any

func (r fakeRow) Scan(dest ...any) error { return assign(dest, r) }

type fakeRows struct {
	data    [][]any
	idx     int
	err     error
	onClose func()
}

func (r *fakeRows) Close() {
	if r.onClose != nil {
		r.onClose()
	}
}
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return r.data[r.idx-1], nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.idx >= len(r.data) {
		return false
	}
	r.idx++
	return true
}

func (r *fakeRows) Scan(dest ...any) error { return assign(dest, r.data[r.idx-1]) }

func assign(dest, values []any) error {
	if len(dest) != len(values) {
		return fmt.Errorf("se esperaban %d columnas, hay %d", len(dest), len(values))
	}
	for i := range dest {
		target := reflect.ValueOf(dest[i]).Elem()
		if values[i] == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		v := reflect.ValueOf(values[i])
		if !v.Type().AssignableTo(target.Type()) {
			return fmt.Errorf("columna %d: no se puede asignar %s a %s", i, v.Type(), target.Type())
		}
		target.Set(v)
	}
	return nil
}
