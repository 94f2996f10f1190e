package ports

import "go.trai.ch/molt/core/domain"

//go:generate mockgen -source=handler.go -destination=mocks/mock_handler.go -package=mocks

// ReloadHandler is notified after a unit successfully swapped in a new
// implementation. OnReloaded runs synchronously on whichever goroutine
// performed the reload — a periodic worker or a directory dispatch
// goroutine — so it must not block indefinitely.
type ReloadHandler interface {
	// OnReloaded receives the freshly installed artifact.
	OnReloaded(art *domain.Artifact)
}
