//go:build colguidedebug

package colguide

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDebugAssertPanics(t *testing.T) {
	assert.PanicsWithValue(t, "colguide: broken", func() { debugAssert(false, "broken") })
	assert.NotPanics(t, func() { debugAssert(true, "fine") })
}

func TestDebugAssertCatchesDoubleRender(t *testing.T) {
	lib := newTestLibrary(t, testOptions(testAssociation("*.go", testGuide(80))))
	a, _ := attachView(t, lib, "main.go")
	assoc := lib.Model().Association(0)

	assert.PanicsWithValue(t, "colguide: association already rendered", func() {
		a.addAssociation(assoc)
	})
	assert.PanicsWithValue(t, "colguide: guide already rendered", func() {
		a.addGuide(assoc, assoc.Guide(0))
	})
}
