package evaluator

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DBConn wraps an open SQLite handle. The evaluator is single-threaded, so
// the handle is never shared across goroutines.
type DBConn struct {
	Path   string
	Handle *sql.DB
	closed bool
}

func (c *DBConn) Type() ObjectType { return DB_CONN_OBJ }
func (c *DBConn) Inspect() string  { return fmt.Sprintf("<db %s>", c.Path) }

// DbExports is the export surface of the native db package, backed by the
// embedded SQLite driver.
func DbExports() map[string]Object {
	return map[string]Object{
		"open":  &Builtin{Name: "open", Arity: 1, Fn: builtinDbOpen},
		"exec":  &Builtin{Name: "exec", Arity: -1, Fn: builtinDbExec},
		"query": &Builtin{Name: "query", Arity: -1, Fn: builtinDbQuery},
		"close": &Builtin{Name: "close", Arity: 1, Fn: builtinDbClose},
	}
}

// open: (path) -> Connection. ":memory:" opens an in-memory database.
func builtinDbOpen(e *Evaluator, args ...Object) Object {
	path, ok := args[0].(*String)
	if !ok {
		return newError("TypeError: db.open expects a string path, got %s", typeName(args[0]))
	}
	handle, err := sql.Open("sqlite", path.Value)
	if err != nil {
		return newError("IOError: %v", err)
	}
	return &DBConn{Path: path.Value, Handle: handle}
}

func dbConnArg(name string, args []Object) (*DBConn, Object) {
	if len(args) < 2 {
		return nil, newError("ArityError: db.%s expects a connection and a statement", name)
	}
	conn, ok := args[0].(*DBConn)
	if !ok {
		return nil, newError("TypeError: db.%s expects a connection, got %s", name, typeName(args[0]))
	}
	if conn.closed {
		return nil, newError("IOError: connection to %s is closed", conn.Path)
	}
	return conn, nil
}

func dbStatementArgs(name string, args []Object) (string, []interface{}, Object) {
	stmt, ok := args[1].(*String)
	if !ok {
		return "", nil, newError("TypeError: db.%s expects a string statement, got %s", name, typeName(args[1]))
	}
	params := make([]interface{}, 0, len(args)-2)
	for _, arg := range args[2:] {
		switch v := arg.(type) {
		case *Number:
			params = append(params, v.Value)
		case *String:
			params = append(params, v.Value)
		case *Boolean:
			params = append(params, v.Value)
		case *Nil:
			params = append(params, nil)
		default:
			return "", nil, newError("TypeError: db.%s parameters must be numbers, strings, bools or nil, got %s",
				name, typeName(arg))
		}
	}
	return stmt.Value, params, nil
}

// exec: (conn, sql, params...) -> Number (affected rows)
func builtinDbExec(e *Evaluator, args ...Object) Object {
	conn, errObj := dbConnArg("exec", args)
	if errObj != nil {
		return errObj
	}
	stmt, params, errObj := dbStatementArgs("exec", args)
	if errObj != nil {
		return errObj
	}
	result, err := conn.Handle.Exec(stmt, params...)
	if err != nil {
		return newError("IOError: %v", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return &Number{Value: 0}
	}
	return &Number{Value: float64(affected)}
}

// query: (conn, sql, params...) -> List of Dicts, one per row in column order
func builtinDbQuery(e *Evaluator, args ...Object) Object {
	conn, errObj := dbConnArg("query", args)
	if errObj != nil {
		return errObj
	}
	stmt, params, errObj := dbStatementArgs("query", args)
	if errObj != nil {
		return errObj
	}
	rows, err := conn.Handle.Query(stmt, params...)
	if err != nil {
		return newError("IOError: %v", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return newError("IOError: %v", err)
	}

	var result []Object
	for rows.Next() {
		cells := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return newError("IOError: %v", err)
		}
		row := NewDict()
		for i, col := range columns {
			row.Set(col, sqlValue(cells[i]))
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return newError("IOError: %v", err)
	}
	return &List{Elements: result}
}

// close: (conn) -> Nil
func builtinDbClose(e *Evaluator, args ...Object) Object {
	conn, ok := args[0].(*DBConn)
	if !ok {
		return newError("TypeError: db.close expects a connection, got %s", typeName(args[0]))
	}
	if conn.closed {
		return NilValue
	}
	conn.closed = true
	if err := conn.Handle.Close(); err != nil {
		return newError("IOError: %v", err)
	}
	return NilValue
}

func sqlValue(cell interface{}) Object {
	switch v := cell.(type) {
	case nil:
		return NilValue
	case int64:
		return &Number{Value: float64(v)}
	case float64:
		return &Number{Value: v}
	case bool:
		return nativeBool(v)
	case string:
		return &String{Value: v}
	case []byte:
		return &String{Value: string(v)}
	}
	return &String{Value: fmt.Sprintf("%v", cell)}
}
