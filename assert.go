package colguide

// debugAssert panics when built with the colguidedebug tag and cond is false.
// Release builds ignore it and the caller falls back to a no-op.
func debugAssert(cond bool, msg string) {
	if debugAssertions && !cond {
		panic("colguide: " + msg)
	}
}
