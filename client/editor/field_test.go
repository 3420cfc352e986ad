package editor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type saveRecorder struct {
	mu     sync.Mutex
	values []string
	err    error
}

func (r *saveRecorder) save(_ context.Context, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.values = append(r.values, value)
	return nil
}

func (r *saveRecorder) saved() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.values))
	copy(out, r.values)
	return out
}

func TestField_BeginRefusedForViewer(t *testing.T) {
	rec := &saveRecorder{}
	f := NewField(FieldConfig{Initial: "Ada", Owned: false, Save: rec.save})

	assert.ErrorIs(t, f.Begin(), ErrNotOwner)
	assert.Equal(t, StateViewing, f.State())
}

func TestField_CommitSavesTrimmedValue(t *testing.T) {
	rec := &saveRecorder{}
	f := NewField(FieldConfig{Initial: "Ada", Owned: true, Save: rec.save, IdleDelay: -1})

	require.NoError(t, f.Begin())
	require.NoError(t, f.SetValue("  Ada Lovelace  "))
	require.NoError(t, f.Commit(context.Background()))

	assert.Equal(t, []string{"Ada Lovelace"}, rec.saved())
	assert.Equal(t, "Ada Lovelace", f.Value())
	assert.Equal(t, StateViewing, f.State())
}

func TestField_TrimmedNoOpSkipsSave(t *testing.T) {
	rec := &saveRecorder{}
	f := NewField(FieldConfig{Initial: "Ada", Owned: true, Save: rec.save, IdleDelay: -1})

	require.NoError(t, f.Begin())
	require.NoError(t, f.SetValue("  Ada  "))
	require.NoError(t, f.Commit(context.Background()))

	assert.Empty(t, rec.saved())
	assert.Equal(t, "Ada", f.Value())
	assert.Equal(t, StateViewing, f.State())
}

func TestField_TrimmedNoOpSkipsSaveWithUntrimmedInitial(t *testing.T) {
	rec := &saveRecorder{}
	f := NewField(FieldConfig{Initial: "Ada ", Owned: true, Save: rec.save, IdleDelay: -1})

	require.NoError(t, f.Begin())
	require.NoError(t, f.SetValue("Ada"))
	require.NoError(t, f.Commit(context.Background()))

	assert.Empty(t, rec.saved())
	assert.Equal(t, "Ada ", f.Value())
	assert.Equal(t, StateViewing, f.State())
}

func TestField_CancelRevertsDraft(t *testing.T) {
	rec := &saveRecorder{}
	f := NewField(FieldConfig{Initial: "Ada", Owned: true, Save: rec.save, IdleDelay: -1})

	require.NoError(t, f.Begin())
	require.NoError(t, f.SetValue("Mallory"))
	f.Cancel()

	assert.Empty(t, rec.saved())
	assert.Equal(t, "Ada", f.Value())
	assert.Equal(t, "Ada", f.Draft())
	assert.Equal(t, StateViewing, f.State())
}

func TestField_FailedSaveRevertsAndSurfacesError(t *testing.T) {
	boom := errors.New("boom")
	rec := &saveRecorder{err: boom}
	f := NewField(FieldConfig{Initial: "Ada", Owned: true, Save: rec.save, IdleDelay: -1})

	require.NoError(t, f.Begin())
	require.NoError(t, f.SetValue("Grace"))

	err := f.Commit(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "Ada", f.Value())
	assert.Equal(t, "Ada", f.Draft())
	assert.Equal(t, StateViewing, f.State())
}

func TestField_IdleTimerCommits(t *testing.T) {
	rec := &saveRecorder{}
	f := NewField(FieldConfig{Initial: "Ada", Owned: true, Save: rec.save, IdleDelay: 20 * time.Millisecond})

	require.NoError(t, f.Begin())
	require.NoError(t, f.SetValue("Grace"))

	assert.Eventually(t, func() bool {
		return f.State() == StateViewing && f.Value() == "Grace"
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"Grace"}, rec.saved())
}

func TestField_TypingResetsIdleTimer(t *testing.T) {
	rec := &saveRecorder{}
	f := NewField(FieldConfig{Initial: "", Owned: true, Save: rec.save, IdleDelay: 60 * time.Millisecond})

	require.NoError(t, f.Begin())
	for _, partial := range []string{"G", "Gr", "Gra", "Grac", "Grace"} {
		require.NoError(t, f.SetValue(partial))
		time.Sleep(20 * time.Millisecond)
	}

	// only the final value is saved, once, after the pause
	assert.Eventually(t, func() bool {
		saved := rec.saved()
		return len(saved) == 1 && saved[0] == "Grace"
	}, time.Second, 5*time.Millisecond)
}

func TestField_CancelStopsIdleTimer(t *testing.T) {
	rec := &saveRecorder{}
	f := NewField(FieldConfig{Initial: "Ada", Owned: true, Save: rec.save, IdleDelay: 20 * time.Millisecond})

	require.NoError(t, f.Begin())
	require.NoError(t, f.SetValue("Grace"))
	f.Cancel()

	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, rec.saved())
	assert.Equal(t, "Ada", f.Value())
}

func TestField_SetValueOutsideEditing(t *testing.T) {
	f := NewField(FieldConfig{Initial: "Ada", Owned: true, Save: (&saveRecorder{}).save})

	assert.ErrorIs(t, f.SetValue("Grace"), ErrNotEditing)
}
