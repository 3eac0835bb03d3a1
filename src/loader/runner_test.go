package loader

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingPlugin records hook calls and flags overlapping invocations
type recordingPlugin struct {
	mu         sync.Mutex
	calls      []string
	active     int
	overlapped bool

	migrateErr error
	unloadErr  error
	mainErr    error
	mainReady  chan struct{}
}

func newRecordingPlugin() *recordingPlugin {
	return &recordingPlugin{mainReady: make(chan struct{}, 1)}
}

func (p *recordingPlugin) enter(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, name)
	p.active++
	if p.active > 1 {
		p.overlapped = true
	}
}

func (p *recordingPlugin) leave() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.active--
}

func (p *recordingPlugin) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

func (p *recordingPlugin) Add(ctx context.Context, left, right int) (int, error) {
	return left + right, nil
}

func (p *recordingPlugin) Main(ctx context.Context) error {
	p.enter("main")
	defer p.leave()
	p.mainReady <- struct{}{}
	<-ctx.Done()
	return p.mainErr
}

func (p *recordingPlugin) Unload(ctx context.Context) error {
	p.enter("unload")
	defer p.leave()
	return p.unloadErr
}

func (p *recordingPlugin) Uninstall(ctx context.Context) error {
	p.enter("uninstall")
	defer p.leave()
	return nil
}

func (p *recordingPlugin) Migrate(ctx context.Context) error {
	p.enter("migrate")
	defer p.leave()
	return p.migrateErr
}

func waitMain(t *testing.T, p *recordingPlugin) {
	t.Helper()
	select {
	case <-p.mainReady:
	case <-time.After(time.Second):
		t.Fatal("main did not start")
	}
}

func TestRunnerLifecycleOrder(t *testing.T) {
	ctx := context.Background()
	p := newRecordingPlugin()
	r := NewRunner(p, nil)

	require.NoError(t, r.Start(ctx))
	waitMain(t, p)
	assert.Equal(t, StateRunning, r.State())

	require.NoError(t, r.Stop(ctx))
	assert.Equal(t, StateStopped, r.State())

	select {
	case <-r.Done():
	default:
		t.Fatal("Done should be closed after Stop")
	}

	require.NoError(t, r.Uninstall(ctx))
	assert.Equal(t, StateUninstalled, r.State())

	assert.Equal(t, []string{"migrate", "main", "unload", "uninstall"}, p.Calls())
	assert.False(t, p.overlapped)
}

func TestRunnerMigrationFailurePreventsMain(t *testing.T) {
	p := newRecordingPlugin()
	p.migrateErr = errors.New("permission denied")
	r := NewRunner(p, nil)

	err := r.Start(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, p.migrateErr)
	assert.Equal(t, StateIdle, r.State())
	assert.Equal(t, []string{"migrate"}, p.Calls())
	assert.Nil(t, r.Done())
}

func TestRunnerInvalidTransitions(t *testing.T) {
	ctx := context.Background()
	p := newRecordingPlugin()
	r := NewRunner(p, nil)

	assert.ErrorIs(t, r.Stop(ctx), ErrInvalidState)

	require.NoError(t, r.Start(ctx))
	waitMain(t, p)
	assert.ErrorIs(t, r.Start(ctx), ErrInvalidState)

	require.NoError(t, r.Uninstall(ctx))
	assert.ErrorIs(t, r.Uninstall(ctx), ErrInvalidState)
	assert.ErrorIs(t, r.Start(ctx), ErrInvalidState)

	assert.Equal(t, []string{"migrate", "main", "unload", "uninstall"}, p.Calls())
}

func TestRunnerRestart(t *testing.T) {
	ctx := context.Background()
	p := newRecordingPlugin()
	r := NewRunner(p, nil)

	require.NoError(t, r.Start(ctx))
	waitMain(t, p)
	require.NoError(t, r.Stop(ctx))

	require.NoError(t, r.Start(ctx))
	waitMain(t, p)
	require.NoError(t, r.Stop(ctx))

	assert.Equal(t, []string{"migrate", "main", "unload", "migrate", "main", "unload"}, p.Calls())
}

func TestRunnerUninstallWithoutStart(t *testing.T) {
	p := newRecordingPlugin()
	r := NewRunner(p, nil)

	require.NoError(t, r.Uninstall(context.Background()))
	assert.Equal(t, []string{"unload", "uninstall"}, p.Calls())
}

func TestRunnerStopReportsErrors(t *testing.T) {
	ctx := context.Background()
	p := newRecordingPlugin()
	p.mainErr = errors.New("main failed")
	p.unloadErr = errors.New("unload failed")
	r := NewRunner(p, nil)

	require.NoError(t, r.Start(ctx))
	waitMain(t, p)

	err := r.Stop(ctx)
	assert.ErrorIs(t, err, p.mainErr)
	assert.ErrorIs(t, err, p.unloadErr)
	assert.Equal(t, StateStopped, r.State())
}

func TestRunnerMainOutlivesStartContext(t *testing.T) {
	p := newRecordingPlugin()
	r := NewRunner(p, nil)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, r.Start(ctx))
	waitMain(t, p)
	cancel()

	select {
	case <-r.Done():
		t.Fatal("main stopped with the start context")
	case <-time.After(20 * time.Millisecond):
	}

	require.NoError(t, r.Stop(context.Background()))
}
