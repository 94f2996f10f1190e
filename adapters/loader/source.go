// Package loader implements ports.Loader by re-evaluating Go source files
// with the yaegi interpreter.
package loader

import (
	"context"
	"go/parser"
	"go/token"
	"os"
	"reflect"

	"github.com/cespare/xxhash/v2"
	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
	"go.trai.ch/molt/core/domain"
	"go.trai.ch/molt/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Loader = (*SourceLoader)(nil)

var constructorType = reflect.TypeOf((func() map[string]any)(nil))

// SourceLoader builds artifacts by evaluating a unit's source file in a
// fresh interpreter and extracting the same-named definition. Evaluating
// the whole file gives the definition its full defining scope; no
// interpreter state is carried between reloads.
type SourceLoader struct {
	log ports.Logger
}

// New creates a SourceLoader with the given logger.
func New(log ports.Logger) *SourceLoader {
	return &SourceLoader{log: log}
}

// Fingerprint hashes the current source content.
func (l *SourceLoader) Fingerprint(path string) (uint64, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return 0, zerr.With(zerr.With(domain.ErrSourceUnavailable, "path", path), "cause", err.Error())
	}
	return xxhash.Sum64(src), nil
}

// Load re-evaluates the source file at path and extracts the definition
// named symbol.
func (l *SourceLoader) Load(ctx context.Context, symbol, path string, kind domain.Kind) (*domain.Artifact, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, zerr.With(zerr.With(domain.ErrSourceUnavailable, "path", path), "cause", err.Error())
	}
	digest := xxhash.Sum64(src)

	// Gate on the parser first: it pins syntax errors to a position and
	// yields the package name the symbol will be qualified with.
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, src, parser.SkipObjectResolution)
	if err != nil {
		return nil, zerr.With(zerr.With(domain.ErrParseFailure, "path", path), "cause", err.Error())
	}
	pkg := file.Name.Name

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, zerr.Wrap(err, "failed to load interpreter stdlib")
	}

	if _, err := i.EvalWithContext(ctx, string(src)); err != nil {
		return nil, zerr.With(zerr.With(domain.ErrParseFailure, "path", path), "cause", err.Error())
	}

	v, err := i.EvalWithContext(ctx, pkg+"."+symbol)
	if err != nil {
		// Symbols of a main package may only be addressable unqualified.
		if v, err = i.EvalWithContext(ctx, symbol); err != nil {
			return nil, zerr.With(zerr.With(domain.ErrSymbolNotFound, "symbol", symbol), "path", path)
		}
	}
	if !v.IsValid() || v.Kind() != reflect.Func {
		return nil, zerr.With(zerr.With(zerr.With(domain.ErrSymbolNotFound, "symbol", symbol), "path", path), "reason", "definition is not a function")
	}

	if kind == domain.KindClass {
		return l.classArtifact(symbol, path, v, digest)
	}

	l.log.Debug("source evaluated", "symbol", symbol, "path", path)
	return domain.NewFuncArtifact(v, digest)
}

func (l *SourceLoader) classArtifact(symbol, path string, v reflect.Value, digest uint64) (*domain.Artifact, error) {
	if v.Type() != constructorType {
		return nil, zerr.With(zerr.With(zerr.With(domain.ErrSymbolNotFound, "symbol", symbol), "path", path), "reason", "definition is not a class constructor")
	}

	members, ok := v.Call(nil)[0].Interface().(map[string]any)
	if !ok || members == nil {
		return nil, zerr.With(zerr.With(zerr.With(domain.ErrSymbolNotFound, "symbol", symbol), "path", path), "reason", "constructor returned no members")
	}

	desc, err := domain.NewDescriptor(symbol, members)
	if err != nil {
		return nil, err
	}

	l.log.Debug("source evaluated", "symbol", symbol, "path", path)
	return domain.NewClassArtifact(desc, digest), nil
}
