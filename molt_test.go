package molt_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.trai.ch/molt"
	"go.trai.ch/molt/adapters/logger"
	"go.trai.ch/molt/core/domain"
	"go.trai.ch/molt/core/ports"
	"go.trai.ch/molt/engine/reload"
)

// AddOne is the compiled implementation that tests swap out for edited
// source files.
func AddOne(x int) int { return x + 1 }

// Counter is the compiled class constructor used by the migration tests.
func Counter() map[string]any {
	return map[string]any{
		"count": 0,
		"incr": func(self map[string]any) {
			self["count"] = self["count"].(int) + 1
		},
	}
}

func quietLogger() ports.Logger {
	l := logger.New()
	l.SetOutput(io.Discard)
	return l
}

func newEngine(opts ...molt.Option) *molt.Engine {
	return molt.New(append([]molt.Option{molt.WithLogger(quietLogger())}, opts...)...)
}

func writeSource(t *testing.T, path, src string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
}

func callInt(t *testing.T, u *reload.Unit, arg int) int {
	t.Helper()
	out, err := u.Call(arg)
	require.NoError(t, err)
	require.Len(t, out, 1)
	return out[0].(int)
}

func TestFunctionHotSwap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "addone.go")
	writeSource(t, path, `package fns

func AddOne(x int) int { return x + 2 }
`)

	eng := newEngine()
	u, err := eng.Wrap(AddOne, reload.WithSourcePath(path))
	require.NoError(t, err)

	// Before any reload the compiled implementation serves.
	require.Equal(t, 6, callInt(t, u, 5))

	require.NoError(t, u.Reload(context.Background()))
	require.Equal(t, 7, callInt(t, u, 5))

	writeSource(t, path, `package fns

func AddOne(x int) int { return x + 9 }
`)
	require.NoError(t, u.Reload(context.Background()))
	require.Equal(t, 14, callInt(t, u, 5))
}

func TestFailedReloadKeepsServingCalls(t *testing.T) {
	path := filepath.Join(t.TempDir(), "addone.go")
	writeSource(t, path, `package fns

func AddOne(x int
`)

	eng := newEngine()
	u, err := eng.Wrap(AddOne, reload.WithSourcePath(path))
	require.NoError(t, err)

	require.ErrorIs(t, u.Reload(context.Background()), domain.ErrParseFailure)
	require.Equal(t, 6, callInt(t, u, 5))
}

func TestClassHotSwapMigratesLiveInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counter.go")
	writeSource(t, path, `package fns

func Counter() map[string]interface{} {
	return map[string]interface{}{
		"count": 0,
		"incr": func(self map[string]interface{}) {
			self["count"] = self["count"].(int) + 1
		},
		"double": func(self map[string]interface{}) int {
			return self["count"].(int) * 2
		},
	}
}
`)

	eng := newEngine()
	u, err := eng.Wrap(Counter, reload.WithSourcePath(path))
	require.NoError(t, err)

	inst, err := u.NewInstance()
	require.NoError(t, err)
	_, err = inst.Call("incr")
	require.NoError(t, err)

	// The compiled class has no double method yet.
	_, err = inst.Call("double")
	require.ErrorIs(t, err, domain.ErrMethodNotFound)

	require.NoError(t, u.Reload(context.Background()))

	// The existing instance now dispatches the reloaded method with its
	// field values intact.
	out, err := inst.Call("double")
	require.NoError(t, err)
	require.Equal(t, []any{2}, out)

	count, err := inst.Get("count")
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestAutoReloadFollowsFileChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "addone.go")
	writeSource(t, path, `package fns

func AddOne(x int) int { return x + 1 }
`)

	eng := newEngine()
	u, err := eng.AutoReload(AddOne, reload.WithSourcePath(path))
	require.NoError(t, err)
	defer eng.Shutdown(context.Background())

	writeSource(t, path, `package fns

func AddOne(x int) int { return x + 2 }
`)

	require.Eventually(t, func() bool {
		out, err := u.Call(5)
		return err == nil && out[0].(int) == 7
	}, 10*time.Second, 20*time.Millisecond)
}

func TestAutoUpdatePollsOnInterval(t *testing.T) {
	path := filepath.Join(t.TempDir(), "addone.go")
	writeSource(t, path, `package fns

func AddOne(x int) int { return x + 5 }
`)

	eng := newEngine(molt.WithInterval(20 * time.Millisecond))
	u, err := eng.AutoUpdate(AddOne, reload.WithSourcePath(path))
	require.NoError(t, err)
	defer eng.Shutdown(context.Background())

	require.Eventually(t, func() bool {
		out, err := u.Call(5)
		return err == nil && out[0].(int) == 10
	}, 10*time.Second, 5*time.Millisecond)
}

func TestShutdownStopsAllTriggers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "addone.go")
	writeSource(t, path, `package fns

func AddOne(x int) int { return x + 1 }
`)

	eng := newEngine(molt.WithInterval(10 * time.Millisecond))
	_, err := eng.AutoUpdate(AddOne, reload.WithSourcePath(path))
	require.NoError(t, err)
	_, err = eng.AutoReload(AddOne, reload.WithSourcePath(path))
	require.NoError(t, err)

	require.Equal(t, 1, eng.Coordinator().ActivePeriodic())
	require.Equal(t, 1, eng.Coordinator().ActiveWatches())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, eng.Shutdown(ctx))

	require.Equal(t, 0, eng.Coordinator().ActivePeriodic())
	require.Equal(t, 0, eng.Coordinator().ActiveWatches())
}
