package pretty_test

import (
	"testing"

	"github.com/lockbom/lockbom/common"
	"github.com/lockbom/lockbom/hamlet"
	"github.com/lockbom/lockbom/pretty"
)

func TestGuardLetsGoodConditionsPass(t *testing.T) {
	must, wont := hamlet.Specifications(t)

	wont.Panic(func() {
		pretty.Guard(true, 1, "should never show")
	})
	must.Panic(func() {
		pretty.Guard(false, 1, "boom")
	})
}

func TestExitCarriesCodeAndMessage(t *testing.T) {
	must, _ := hamlet.Specifications(t)

	defer func() {
		caught := recover()
		exit, ok := caught.(common.ExitCode)
		must.True(ok)
		must.Equal(3, exit.Code)
		must.Contain("gone wrong", exit.Message)
	}()
	pretty.Exit(3, "everything has %s", "gone wrong")
}
