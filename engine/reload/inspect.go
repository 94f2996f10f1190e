package reload

import (
	"reflect"
	"runtime"
	"strings"
)

// describe discovers the symbol name and defining source file of a compiled
// function value. The runtime reports qualified names like
// "example.com/pkg.AddOne" (or "...TestX.func1" for closures); the symbol is
// the last path segment. Both results can be empty for values the runtime
// has no function data for.
func describe(target any) (symbol, path string) {
	v := reflect.ValueOf(target)
	if !v.IsValid() || v.Kind() != reflect.Func {
		return "", ""
	}

	fn := runtime.FuncForPC(v.Pointer())
	if fn == nil {
		return "", ""
	}

	name := fn.Name()
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		symbol = name[i+1:]
	} else {
		symbol = name
	}

	path, _ = fn.FileLine(fn.Entry())
	return symbol, path
}
