// Package sqlbuild constructs parameterized statements for allow-listed tables.
//
// Table and column identifiers are taken from a registry.TableDescriptor only;
// every caller-supplied value is returned in Statement.Args and never appears
// in Statement.SQL.
package sqlbuild

import (
	"sort"
	"strings"

	"matchTracker/internal/apperr"
	"matchTracker/internal/registry"
)

// Statement is SQL text plus its bound arguments.
type Statement struct {
	SQL  string
	Args []any
	// ReturnsKey is set on inserts whose generated key comes back as a result row
	// rather than through LastInsertId.
	ReturnsKey bool
}

// Builder builds statements for one dialect.
type Builder struct {
	Dialect Dialect
}

// New returns a Builder for d.
func New(d Dialect) Builder {
	return Builder{Dialect: d}
}

// Select lists every row of t.
func (b Builder) Select(t registry.TableDescriptor) Statement {
	return Statement{SQL: "SELECT * FROM " + quoteIdent(t.Name)}
}

// SelectByKey fetches rows of t whose primary key equals id.
func (b Builder) SelectByKey(t registry.TableDescriptor, id any) Statement {
	return Statement{
		SQL:  "SELECT * FROM " + quoteIdent(t.Name) + " WHERE " + quoteIdent(t.PrimaryKey) + " = " + b.Dialect.Placeholder(1),
		Args: []any{id},
	}
}

// Delete removes rows of t whose primary key equals id.
func (b Builder) Delete(t registry.TableDescriptor, id any) Statement {
	return Statement{
		SQL:  "DELETE FROM " + quoteIdent(t.Name) + " WHERE " + quoteIdent(t.PrimaryKey) + " = " + b.Dialect.Placeholder(1),
		Args: []any{id},
	}
}

// Insert builds an INSERT for values. Columns are emitted in sorted order.
func (b Builder) Insert(t registry.TableDescriptor, values map[string]any) (Statement, error) {
	cols, err := resolveColumns(t, values, true)
	if err != nil {
		return Statement{}, err
	}
	names := make([]string, len(cols))
	marks := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		names[i] = quoteIdent(c.name)
		marks[i] = b.Dialect.Placeholder(i + 1)
		args[i] = c.value
	}
	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(quoteIdent(t.Name))
	sb.WriteString(" (")
	sb.WriteString(strings.Join(names, ", "))
	sb.WriteString(") VALUES (")
	sb.WriteString(strings.Join(marks, ", "))
	sb.WriteString(")")
	st := Statement{Args: args}
	if b.Dialect == Postgres {
		sb.WriteString(" RETURNING ")
		sb.WriteString(quoteIdent(t.PrimaryKey))
		st.ReturnsKey = true
	}
	st.SQL = sb.String()
	return st, nil
}

// Update builds an UPDATE of values for the row keyed by id.
// The primary key itself cannot be assigned.
func (b Builder) Update(t registry.TableDescriptor, id any, values map[string]any) (Statement, error) {
	cols, err := resolveColumns(t, values, false)
	if err != nil {
		return Statement{}, err
	}
	sets := make([]string, len(cols))
	args := make([]any, 0, len(cols)+1)
	for i, c := range cols {
		sets[i] = quoteIdent(c.name) + " = " + b.Dialect.Placeholder(i+1)
		args = append(args, c.value)
	}
	args = append(args, id)
	sql := "UPDATE " + quoteIdent(t.Name) + " SET " + strings.Join(sets, ", ") +
		" WHERE " + quoteIdent(t.PrimaryKey) + " = " + b.Dialect.Placeholder(len(cols)+1)
	return Statement{SQL: sql, Args: args}, nil
}

type column struct {
	name  string
	value any
}

// resolveColumns maps payload keys onto the descriptor's own column names.
func resolveColumns(t registry.TableDescriptor, values map[string]any, allowPK bool) ([]column, error) {
	if len(values) == 0 {
		return nil, apperr.Validation("no columns given")
	}
	out := make([]column, 0, len(values))
	seen := make(map[string]bool, len(values))
	for k, v := range values {
		name, ok := t.Column(k)
		if !ok {
			return nil, apperr.NotAllowed("Invalid column name: " + k)
		}
		if !allowPK && name == t.PrimaryKey {
			return nil, apperr.NotAllowed("primary key cannot be updated")
		}
		if seen[name] {
			return nil, apperr.Validation("duplicate column: " + name)
		}
		seen[name] = true
		out = append(out, column{name: name, value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out, nil
}
