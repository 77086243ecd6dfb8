package persistence

// Errors persistence errors
type Errors int

const (
	// ErrNotOpen storage is not open
	ErrNotOpen Errors = iota
	// ErrNotFound object not found
	ErrNotFound
	// ErrBrokenEntry persisted entry cannot be decoded
	ErrBrokenEntry
)

var errorsDesc = map[Errors]string{
	ErrNotOpen:     "persistence: not open",
	ErrNotFound:    "persistence: not found",
	ErrBrokenEntry: "persistence: broken entry",
}

// Errors description during persistence
func (e Errors) Error() string {
	if s, ok := errorsDesc[e]; ok {
		return s
	}

	return "unknown error"
}
