//go:build !colguidedebug

package colguide

const debugAssertions = false
