package ports

import (
	"context"

	"go.trai.ch/molt/core/domain"
)

//go:generate mockgen -source=loader.go -destination=mocks/mock_loader.go -package=mocks

// Loader produces fresh artifacts for a named unit from its defining source
// file. Implementations classify failures with the domain sentinels:
// domain.ErrSourceUnavailable when the file cannot be read,
// domain.ErrParseFailure when it is not valid source, and
// domain.ErrSymbolNotFound when evaluation yields no same-named definition.
type Loader interface {
	// Load re-evaluates the source file at path and extracts the definition
	// named symbol as an artifact of the given kind.
	Load(ctx context.Context, symbol, path string, kind domain.Kind) (*domain.Artifact, error)

	// Fingerprint returns a digest of the current source content, used to
	// skip re-evaluation when nothing changed.
	Fingerprint(path string) (uint64, error)
}
