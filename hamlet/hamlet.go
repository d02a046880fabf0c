// Package hamlet provides tiny "to be, or not to be" assertion helpers
// for tests. Specifications gives two handles: one that demands a
// condition to hold and one that demands the opposite.
package hamlet

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
)

type Hamlet struct {
	t        *testing.T
	expected bool
}

// Specifications returns the "must be" and "wont be" assertion handles
// bound to given test.
func Specifications(t *testing.T) (*Hamlet, *Hamlet) {
	t.Helper()
	return &Hamlet{t, true}, &Hamlet{t, false}
}

func (it *Hamlet) fail(form string, details ...interface{}) {
	it.t.Helper()
	it.t.Errorf(form, details...)
}

func (it *Hamlet) verify(condition bool, form string, details ...interface{}) {
	it.t.Helper()
	if condition != it.expected {
		it.fail(form, details...)
	}
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	reflected := reflect.ValueOf(value)
	switch reflected.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		return reflected.IsNil()
	}
	return false
}

func (it *Hamlet) Nil(value interface{}) {
	it.t.Helper()
	it.verify(isNil(value), "Expected nil to be %v, but got %#v!", it.expected, value)
}

func (it *Hamlet) True(value bool) {
	it.t.Helper()
	it.verify(value, "Expected true to be %v!", it.expected)
}

func (it *Hamlet) Equal(expected, actual interface{}) {
	it.t.Helper()
	it.verify(reflect.DeepEqual(expected, actual), "Expected %#v == %#v to be %v!", expected, actual, it.expected)
}

func (it *Hamlet) Text(expected string, actual interface{}) {
	it.t.Helper()
	it.verify(expected == fmt.Sprintf("%v", actual), "Expected text %q vs. %q to be %v!", expected, actual, it.expected)
}

func (it *Hamlet) Contain(fragment string, actual interface{}) {
	it.t.Helper()
	full := fmt.Sprintf("%v", actual)
	it.verify(strings.Contains(full, fragment), "Expected %q in %q to be %v!", fragment, full, it.expected)
}

func (it *Hamlet) Panic(todo func()) {
	it.t.Helper()
	defer func() {
		it.t.Helper()
		caught := recover()
		it.verify(caught != nil, "Expected panic to be %v, but got %v!", it.expected, caught)
	}()
	todo()
}
