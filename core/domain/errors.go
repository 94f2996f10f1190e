package domain

import "go.trai.ch/zerr"

var (
	// ErrSourceUnavailable is returned when the source text or file location
	// of a unit cannot be retrieved, e.g. for dynamically generated code.
	ErrSourceUnavailable = zerr.New("source unavailable")

	// ErrParseFailure is returned when the re-evaluated source is not valid Go.
	ErrParseFailure = zerr.New("source failed to parse")

	// ErrSymbolNotFound is returned when re-evaluating the source produced no
	// definition matching the unit's name.
	ErrSymbolNotFound = zerr.New("symbol not found after re-evaluation")

	// ErrIncompatibleLayout is returned when a reloaded class drops a field
	// that live instances still carry.
	ErrIncompatibleLayout = zerr.New("reloaded class layout is incompatible")

	// ErrIncompatibleSignature is returned when a reloaded function changes
	// its signature.
	ErrIncompatibleSignature = zerr.New("reloaded function signature is incompatible")

	// ErrUnsupportedTarget is returned when wrapping a value that is neither
	// a function nor a class constructor.
	ErrUnsupportedTarget = zerr.New("target is not a function or class constructor")

	// ErrArgumentMismatch is returned when a call provides arguments that do
	// not fit the implementation's parameter list.
	ErrArgumentMismatch = zerr.New("arguments do not match parameters")

	// ErrMethodNotFound is returned when an instance is asked for a method
	// its class does not define.
	ErrMethodNotFound = zerr.New("method not found")

	// ErrFieldNotFound is returned when an instance is asked for a field it
	// does not carry.
	ErrFieldNotFound = zerr.New("field not found")

	// ErrConfigNotFound is returned when no moltfile can be found.
	ErrConfigNotFound = zerr.New("could not find moltfile")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidInterval is returned when a configured reload interval is
	// zero or negative.
	ErrInvalidInterval = zerr.New("reload interval must be positive")

	// ErrWatchClosed is returned when scheduling on a stopped watcher.
	ErrWatchClosed = zerr.New("watcher already stopped")
)
