package hostprovider

import (
	"runtime"

	"github.com/tetratelabs/cibackend/api"
)

// StackIntrospection walks the stack of the calling goroutine.
type StackIntrospection struct{}

// NewStackIntrospection returns a StackIntrospection.
func NewStackIntrospection() *StackIntrospection {
	return &StackIntrospection{}
}

// maxFrames bounds the depth of a walk.
const maxFrames = 256

// IterateFrames implements api.StackIntrospection. skip 0 is the caller of IterateFrames.
func (*StackIntrospection) IterateFrames(skip int, visit func(api.Frame) bool) {
	pcs := make([]uintptr, maxFrames)
	// Skip runtime.Callers and IterateFrames.
	n := runtime.Callers(skip+2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		f, more := frames.Next()
		if f.Function != "" && !visit(api.Frame{Function: f.Function, File: f.File, Line: f.Line}) {
			return
		}
		if !more {
			return
		}
	}
}
