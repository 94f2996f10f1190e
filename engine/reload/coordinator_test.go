package reload_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/require"
	"go.trai.ch/molt/core/domain"
	"go.trai.ch/molt/core/ports"
	"go.trai.ch/molt/core/ports/mocks"
	"go.trai.ch/molt/engine/reload"
	"go.uber.org/mock/gomock"
)

func TestPeriodicReloadCadence(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		loader := mocks.NewMockLoader(ctrl)
		u, coord := newTestUnit(t, AddOne, loader)

		var loads atomic.Int32
		loader.EXPECT().Fingerprint(gomock.Any()).Return(uint64(0), nil).AnyTimes()
		loader.EXPECT().Load(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(context.Context, string, string, domain.Kind) (*domain.Artifact, error) {
				loads.Add(1)
				return funcArtifact(t, AddOne, 0), nil
			}).AnyTimes()

		u.StartPeriodic(time.Second)
		require.Equal(t, 1, coord.ActivePeriodic())

		// One reload immediately, then one per elapsed second.
		time.Sleep(3500 * time.Millisecond)
		coord.StopAllPeriodic()
		require.Equal(t, 0, coord.ActivePeriodic())

		synctest.Wait()
		require.EqualValues(t, 4, loads.Load())
	})
}

func TestStopAllPeriodicDoesNotWaitForInflightReload(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		loader := mocks.NewMockLoader(ctrl)
		u, coord := newTestUnit(t, AddOne, loader)

		loader.EXPECT().Fingerprint(gomock.Any()).Return(uint64(0), nil).AnyTimes()
		loader.EXPECT().Load(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(context.Context, string, string, domain.Kind) (*domain.Artifact, error) {
				time.Sleep(time.Hour)
				return funcArtifact(t, AddOne, 0), nil
			}).Times(1)

		u.StartPeriodic(time.Second)
		synctest.Wait() // the worker is now stuck inside its first reload

		start := time.Now()
		coord.StopAllPeriodic()
		require.Zero(t, time.Since(start))
		require.Equal(t, 0, coord.ActivePeriodic())
	})
}

func TestShutdownWaitsForPeriodicWorkers(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		loader := mocks.NewMockLoader(ctrl)
		u, coord := newTestUnit(t, AddOne, loader)

		loader.EXPECT().Fingerprint(gomock.Any()).Return(uint64(0), nil).AnyTimes()
		loader.EXPECT().Load(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(context.Context, string, string, domain.Kind) (*domain.Artifact, error) {
				time.Sleep(time.Hour)
				return funcArtifact(t, AddOne, 0), nil
			}).Times(1)

		u.StartPeriodic(time.Second)
		synctest.Wait()

		start := time.Now()
		require.NoError(t, coord.Shutdown(context.Background()))
		require.Equal(t, time.Hour, time.Since(start))
		require.Equal(t, 0, coord.ActivePeriodic())
	})
}

func TestShutdownHonorsContextDeadline(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		loader := mocks.NewMockLoader(ctrl)
		u, coord := newTestUnit(t, AddOne, loader)

		loader.EXPECT().Fingerprint(gomock.Any()).Return(uint64(0), nil).AnyTimes()
		loader.EXPECT().Load(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(context.Context, string, string, domain.Kind) (*domain.Artifact, error) {
				time.Sleep(time.Hour)
				return funcArtifact(t, AddOne, 0), nil
			}).Times(1)

		u.StartPeriodic(time.Second)
		synctest.Wait()

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		require.ErrorIs(t, coord.Shutdown(ctx), context.DeadlineExceeded)
	})
}

func TestStartFileWatchSharesDirectoryWatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	watcher := mocks.NewMockWatcher(ctrl)
	watch := mocks.NewMockWatch(ctrl)
	coord := reload.NewCoordinator(quietLogger(), watcher)

	dir := t.TempDir()
	fileA := filepath.Join(dir, "a.go")
	fileB := filepath.Join(dir, "b.go")

	var dispatch ports.WatchFunc
	watcher.EXPECT().Schedule(dir, gomock.Any()).
		DoAndReturn(func(_ string, fn ports.WatchFunc) (ports.Watch, error) {
			dispatch = fn
			return watch, nil
		}).
		Times(1)

	loaderA := mocks.NewMockLoader(ctrl)
	loaderB := mocks.NewMockLoader(ctrl)
	unitA, _ := newTestUnit(t, AddOne, loaderA, reload.WithSourcePath(fileA))
	unitB, _ := newTestUnit(t, AddOne, loaderB, reload.WithSourcePath(fileB))

	require.NoError(t, coord.StartFileWatch(unitA, fileA))
	require.NoError(t, coord.StartFileWatch(unitB, fileB))
	require.Equal(t, 1, coord.ActiveWatches())

	// Only the unit registered for exactly this path reloads.
	loaderA.EXPECT().Fingerprint(gomock.Any()).Return(uint64(1), nil)
	loaderA.EXPECT().Load(gomock.Any(), gomock.Any(), fileA, domain.KindFunc).
		Return(funcArtifact(t, func(x int) int { return x + 2 }, 1), nil)
	dispatch(ports.WatchEvent{Path: fileA})

	out, err := unitA.Call(5)
	require.NoError(t, err)
	require.Equal(t, []any{7}, out)

	out, err = unitB.Call(5)
	require.NoError(t, err)
	require.Equal(t, []any{6}, out)

	// Directory events and unwatched files are dropped.
	dispatch(ports.WatchEvent{Path: dir, IsDir: true})
	dispatch(ports.WatchEvent{Path: filepath.Join(dir, "c.go")})
}

func TestStartFileWatchRequiresAPath(t *testing.T) {
	coord := reload.NewCoordinator(quietLogger(), mocks.NewMockWatcher(gomock.NewController(t)))
	u, _ := newTestUnit(t, AddOne, nil)

	err := coord.StartFileWatch(u, "")
	require.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

func TestStopAllFileWatchesStopsEveryWatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	watcher := mocks.NewMockWatcher(ctrl)
	coord := reload.NewCoordinator(quietLogger(), watcher)

	dirA, dirB := t.TempDir(), t.TempDir()
	watchA := mocks.NewMockWatch(ctrl)
	watchB := mocks.NewMockWatch(ctrl)
	watcher.EXPECT().Schedule(dirA, gomock.Any()).Return(watchA, nil)
	watcher.EXPECT().Schedule(dirB, gomock.Any()).Return(watchB, nil)

	u, _ := newTestUnit(t, AddOne, nil)
	require.NoError(t, coord.StartFileWatch(u, filepath.Join(dirA, "a.go")))
	require.NoError(t, coord.StartFileWatch(u, filepath.Join(dirB, "b.go")))
	require.Equal(t, 2, coord.ActiveWatches())

	watchA.EXPECT().Stop().Return(nil)
	watchB.EXPECT().Stop().Return(nil)
	require.NoError(t, coord.StopAllFileWatches())
	require.Equal(t, 0, coord.ActiveWatches())
}

func TestStopAllFileWatchesReportsStopFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	watcher := mocks.NewMockWatcher(ctrl)
	watch := mocks.NewMockWatch(ctrl)
	coord := reload.NewCoordinator(quietLogger(), watcher)

	dir := t.TempDir()
	watcher.EXPECT().Schedule(dir, gomock.Any()).Return(watch, nil)

	u, _ := newTestUnit(t, AddOne, nil)
	require.NoError(t, coord.StartFileWatch(u, filepath.Join(dir, "a.go")))

	watch.EXPECT().Stop().Return(errors.New("inotify handle gone"))
	require.Error(t, coord.StopAllFileWatches())
	require.Equal(t, 0, coord.ActiveWatches())
}
