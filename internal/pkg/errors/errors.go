package errors

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrNotFound is returned by lookups that matched nothing.
var ErrNotFound = errors.New("not found")

// annotatedError carries the position it was created at.
type annotatedError struct {
	msg   string
	at    string
	cause error
}

func (e *annotatedError) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("%s: %s", e.msg, e.at)
	}
	return fmt.Sprintf("%s %s \ncaused by: %s", e.msg, e.at, e.cause.Error())
}

func (e *annotatedError) Unwrap() error {
	return e.cause
}

// New creates a new error annotated with the caller position.
func New(msg string) error {
	return &annotatedError{msg: msg, at: filePath()}
}

// Wrap annotates err with msg and the caller position. A nil err stays nil.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &annotatedError{msg: msg, at: filePath(), cause: err}
}

// Summary renders err on one line without caller positions.
func Summary(err error) string {
	if err == nil {
		return ""
	}
	a, ok := err.(*annotatedError)
	if !ok {
		return err.Error()
	}
	if a.cause == nil {
		return a.msg
	}
	return a.msg + ": " + Summary(a.cause)
}

func Is(err error, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Join combines errs, dropping nils.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

func Errorf(format string, args ...interface{}) error {
	args = append(args, filePath())
	return fmt.Errorf(format+` %s`, args...)
}

func filePath() string {
	pc, f, l, ok := runtime.Caller(2)
	fn := `unknown`
	if ok {
		fn = runtime.FuncForPC(pc).Name()
	}
	return fmt.Sprintf("at %s\n\t%s:%d", fn, f, l)
}
