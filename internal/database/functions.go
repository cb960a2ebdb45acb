package database

import (
	"database/sql/driver"
	"strings"

	"modernc.org/sqlite"
)

// containsFold is available to every connection as contains_fold(s, substr).
// It matches substrings case-insensitively across Unicode, which LIKE only
// does for ASCII.
const containsFold = "contains_fold"

func init() {
	sqlite.MustRegisterDeterministicScalarFunction(containsFold, 2, containsFoldFunc)
}

func containsFoldFunc(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	s, ok := textArg(args[0])
	if !ok {
		return int64(0), nil
	}
	substr, ok := textArg(args[1])
	if !ok {
		return int64(0), nil
	}

	if strings.Contains(strings.ToLower(s), strings.ToLower(substr)) {
		return int64(1), nil
	}
	return int64(0), nil
}

// textArg accepts TEXT and BLOB values; NULL and numbers never match
func textArg(v driver.Value) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	}
	return "", false
}
