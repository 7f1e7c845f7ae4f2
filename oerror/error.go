package oerror

import "fmt"

var (
	// ErrSettingsExist is returned by settings.SaveDefault when the file is already present.
	ErrSettingsExist = New("settings file already exists")
	// ErrSettingsMissing is returned by settings.Load when the file is not present.
	ErrSettingsMissing = New("settings file doesn't exist")
)

// Error is the error type returned by dynbones packages.
type Error struct {
	Err string
}

// New formats a new *Error.
func New(format string, args ...any) *Error {
	if len(args) == 0 {
		return &Error{Err: format}
	}
	return &Error{Err: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return e.Err
}
