package safe

import (
	"github.com/pkg/errors"
)

//be safe, don't panic

// Run calls fn and turns a panic into the returned error.
func Run(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			switch x := r.(type) {
			case error:
				err = errors.WithMessage(x, "recovered from panic")
			default:
				err = errors.Errorf("recovered from panic: %v", x)
			}
		}
	}()
	err = fn()
	return err
}

// RunWithMessage is Run with the returned error annotated by message.
func RunWithMessage(fn func() error, message string) error {
	return errors.WithMessage(Run(fn), message)
}
