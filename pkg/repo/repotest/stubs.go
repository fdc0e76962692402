// Package repotest provides pgx stand-ins for repository tests that run
// without a database.
package repotest

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jacksonlee411/office-ops/pkg/constants"
)

// Call records one statement sent through a StubTx.
type Call struct {
	SQL  string
	Args []any
}

type StubTx struct {
	QueryFunc    func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRowFunc func(ctx context.Context, sql string, args ...any) pgx.Row
	ExecFunc     func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)

	Calls []Call
}

// Context returns ctx carrying the stub as the active transaction.
func (s *StubTx) Context(ctx context.Context) context.Context {
	return context.WithValue(ctx, constants.TxKey, s)
}

func (s *StubTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, errors.New("copy not implemented")
}

func (s *StubTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	var results pgx.BatchResults
	return results
}

func (s *StubTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	s.Calls = append(s.Calls, Call{SQL: sql, Args: arguments})
	if s.ExecFunc == nil {
		return pgconn.NewCommandTag("UPDATE 1"), nil
	}
	return s.ExecFunc(ctx, sql, arguments...)
}

func (s *StubTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	s.Calls = append(s.Calls, Call{SQL: sql, Args: args})
	if s.QueryFunc == nil {
		return nil, errors.New("query not implemented")
	}
	return s.QueryFunc(ctx, sql, args...)
}

func (s *StubTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	s.Calls = append(s.Calls, Call{SQL: sql, Args: args})
	if s.QueryRowFunc == nil {
		return StubRow{Err: errors.New("query row not implemented")}
	}
	return s.QueryRowFunc(ctx, sql, args...)
}

// assign copies src into the pointer dest. Nil sources zero the target.
func assign(dest, src any) error {
	dv := reflect.ValueOf(dest)
	if dv.Kind() != reflect.Ptr || dv.IsNil() {
		return fmt.Errorf("scan target %T is not a pointer", dest)
	}
	target := dv.Elem()
	if src == nil {
		target.Set(reflect.Zero(target.Type()))
		return nil
	}
	sv := reflect.ValueOf(src)
	switch {
	case sv.Type().AssignableTo(target.Type()):
		target.Set(sv)
	case sv.Type().ConvertibleTo(target.Type()):
		target.Set(sv.Convert(target.Type()))
	case target.Kind() == reflect.Ptr && sv.Type().AssignableTo(target.Type().Elem()):
		p := reflect.New(target.Type().Elem())
		p.Elem().Set(sv)
		target.Set(p)
	default:
		return fmt.Errorf("cannot scan %T into %T", src, dest)
	}
	return nil
}

func scanRow(row []any, dest []any) error {
	if len(dest) != len(row) {
		return fmt.Errorf("destination length %d does not match row length %d", len(dest), len(row))
	}
	for i := range dest {
		if err := assign(dest[i], row[i]); err != nil {
			return fmt.Errorf("column %d: %w", i, err)
		}
	}
	return nil
}

type StubRows struct {
	Data    [][]any
	RowsErr error
	idx     int
}

func (r *StubRows) Next() bool {
	if r.idx >= len(r.Data) {
		return false
	}
	r.idx++
	return true
}

func (r *StubRows) Scan(dest ...any) error {
	if r.idx == 0 || r.idx > len(r.Data) {
		return errors.New("no current row to scan")
	}
	return scanRow(r.Data[r.idx-1], dest)
}

func (r *StubRows) Values() ([]any, error) {
	if r.idx == 0 || r.idx > len(r.Data) {
		return nil, errors.New("no current row")
	}
	return r.Data[r.idx-1], nil
}

func (r *StubRows) RawValues() [][]byte                          { return nil }
func (r *StubRows) Err() error                                   { return r.RowsErr }
func (r *StubRows) Close()                                       {}
func (r *StubRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *StubRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *StubRows) Conn() *pgx.Conn                              { return nil }

// StubRow answers QueryRow with fixed values or an error.
type StubRow struct {
	Values []any
	Err    error
}

func (r StubRow) Scan(dest ...any) error {
	if r.Err != nil {
		return r.Err
	}
	return scanRow(r.Values, dest)
}
