//go:build !colguidedebug

package colguide

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReleaseIgnoresDoubleRender(t *testing.T) {
	lib := newTestLibrary(t, testOptions(testAssociation("*.go", testGuide(80))))
	a, v := attachView(t, lib, "main.go")
	assoc := lib.Model().Association(0)

	assert.NotPanics(t, func() {
		debugAssert(false, "ignored")
		a.addAssociation(assoc)
		a.addGuide(assoc, assoc.Guide(0))
	})
	assert.Len(t, v.Lines(), 1)
	requireConsistent(t, lib, a, v)
}
