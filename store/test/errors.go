package test

import (
	"github.com/pkg/errors"
)

func errNotFound(kind string, id int32) error {
	return errors.Errorf("%s %d not found", kind, id)
}

func errDuplicate(kind, value string) error {
	return errors.Errorf("duplicate %s: %s", kind, value)
}
