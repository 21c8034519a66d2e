package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

// Queries holds the statements for one entry table. Both tables share the
// same shape, so the statements are rendered once per table name.
type Queries struct {
	db    DBTX
	table string
	stmts statements
}

type statements struct {
	create, get, update, delete, list, total, sumByCategory string
}

// New returns the queries for table. The table name must come from
// core.Domain.Table; it is interpolated into the SQL text.
func New(db DBTX, table string) *Queries {
	return &Queries{db: db, table: table, stmts: render(table)}
}

// WithTx returns a copy of q bound to tx.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx, table: q.table, stmts: q.stmts}
}

// Entry is a row of gastos or despesas.
type Entry struct {
	ID        int64
	Data      string
	Categoria string
	Descricao string
	Valor     float64
	CreatedAt string
}

type CreateEntryParams struct {
	Data      string
	Categoria string
	Descricao string
	Valor     float64
	CreatedAt string
}

type UpdateEntryParams struct {
	ID        int64
	Data      string
	Categoria string
	Descricao string
	Valor     float64
}

// EntryFilterParams uses empty strings for absent constraints.
type EntryFilterParams struct {
	DataInicio string
	DataFim    string
	Categoria  string
}

type CategorySum struct {
	Categoria string
	Total     float64
}

const entryColumns = "id, data, categoria, descricao, valor, created_at"

// rangeClause matches the optional inclusive date bounds bound to ?1 and ?2.
const rangeClause = "(?1 = '' OR data >= ?1) AND (?2 = '' OR data <= ?2)"

func render(table string) statements {
	return statements{
		create: fmt.Sprintf(`INSERT INTO %s (data, categoria, descricao, valor, created_at)
VALUES (?, ?, ?, ?, ?)
RETURNING %s`, table, entryColumns),

		get: fmt.Sprintf(`SELECT %s FROM %s WHERE id = ?`, entryColumns, table),

		update: fmt.Sprintf(`UPDATE %s
SET data = ?, categoria = ?, descricao = ?, valor = ?
WHERE id = ?
RETURNING %s`, table, entryColumns),

		delete: fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, table),

		list: fmt.Sprintf(`SELECT %s FROM %s
WHERE %s AND (?3 = '' OR categoria = ?3)
ORDER BY data DESC, id ASC`, entryColumns, table, rangeClause),

		total: fmt.Sprintf(`SELECT CAST(COALESCE(SUM(valor), 0) AS REAL) FROM %s
WHERE %s`, table, rangeClause),

		sumByCategory: fmt.Sprintf(`SELECT categoria, CAST(SUM(valor) AS REAL) AS total FROM %s
WHERE %s
GROUP BY categoria`, table, rangeClause),
	}
}

func scanEntry(row interface{ Scan(...any) error }) (Entry, error) {
	var i Entry
	err := row.Scan(&i.ID, &i.Data, &i.Categoria, &i.Descricao, &i.Valor, &i.CreatedAt)
	return i, err
}

func (q *Queries) CreateEntry(ctx context.Context, arg CreateEntryParams) (Entry, error) {
	row := q.db.QueryRowContext(ctx, q.stmts.create, arg.Data, arg.Categoria, arg.Descricao, arg.Valor, arg.CreatedAt)
	return scanEntry(row)
}

func (q *Queries) GetEntry(ctx context.Context, id int64) (Entry, error) {
	row := q.db.QueryRowContext(ctx, q.stmts.get, id)
	return scanEntry(row)
}

func (q *Queries) UpdateEntry(ctx context.Context, arg UpdateEntryParams) (Entry, error) {
	row := q.db.QueryRowContext(ctx, q.stmts.update, arg.Data, arg.Categoria, arg.Descricao, arg.Valor, arg.ID)
	return scanEntry(row)
}

func (q *Queries) DeleteEntry(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, q.stmts.delete, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (q *Queries) ListEntries(ctx context.Context, arg EntryFilterParams) ([]Entry, error) {
	rows, err := q.db.QueryContext(ctx, q.stmts.list, arg.DataInicio, arg.DataFim, arg.Categoria)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Entry
	for rows.Next() {
		i, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (q *Queries) GetTotal(ctx context.Context, dataInicio, dataFim string) (float64, error) {
	var total float64
	err := q.db.QueryRowContext(ctx, q.stmts.total, dataInicio, dataFim).Scan(&total)
	return total, err
}

func (q *Queries) GetCategorySums(ctx context.Context, dataInicio, dataFim string) ([]CategorySum, error) {
	rows, err := q.db.QueryContext(ctx, q.stmts.sumByCategory, dataInicio, dataFim)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CategorySum
	for rows.Next() {
		var i CategorySum
		if err := rows.Scan(&i.Categoria, &i.Total); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
