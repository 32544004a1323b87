package base

import (
	"strconv"
	"strings"
)

// Update builds a partial UPDATE statement. Column names are always literals chosen by the
// repository; only values travel as parameters.
type Update struct {
	table string
	key   string
	sets  []string
	args  []interface{}
}

// NewUpdate starts an UPDATE of table keyed by the key column.
func NewUpdate(table, key string) *Update {
	return &Update{table: table, key: key}
}

// Set adds column = value unconditionally.
func (u *Update) Set(column string, value interface{}) *Update {
	u.args = append(u.args, value)
	u.sets = append(u.sets, column+" = $"+strconv.Itoa(len(u.args)))
	return u
}

// SetIf adds column = *value when value is not nil.
func SetIf[T any](u *Update, column string, value *T) {
	if value != nil {
		u.Set(column, *value)
	}
}

// Empty reports whether no column was set.
func (u *Update) Empty() bool { return len(u.sets) == 0 }

// Columns returns the columns set so far, in order.
func (u *Update) Columns() []string {
	cols := make([]string, 0, len(u.sets))
	for _, s := range u.sets {
		cols = append(cols, strings.SplitN(s, " ", 2)[0])
	}
	return cols
}

// SQL renders the statement for the row with the given key.
func (u *Update) SQL(id int64) (string, []interface{}) {
	args := make([]interface{}, 0, len(u.args)+1)
	args = append(args, u.args...)
	args = append(args, id)

	query := "UPDATE " + u.table +
		" SET " + strings.Join(u.sets, ", ") +
		" WHERE " + u.key + " = $" + strconv.Itoa(len(args))
	return query, args
}
