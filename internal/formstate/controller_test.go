package formstate

import (
	"context"
	"errors"
	"testing"
	"time"

	"alumni-form/internal/models"
	"alumni-form/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

// manualClock records scheduled callbacks so tests decide when they fire.
type manualClock struct {
	timers []*fakeTimer
}

func (m *manualClock) AfterFunc(d time.Duration, f func()) Stopper {
	t := &fakeTimer{d: d, f: f}
	m.timers = append(m.timers, t)
	return t
}

func (m *manualClock) fireAll() {
	for _, t := range m.timers {
		if !t.stopped {
			t.stopped = true
			t.f()
		}
	}
}

type stubSubmitter struct {
	calls   int
	err     error
	got     models.FormRecord
	block   chan struct{}
	entered chan struct{}
}

func (s *stubSubmitter) Submit(ctx context.Context, record models.FormRecord) (string, error) {
	s.calls++
	s.got = record
	if s.entered != nil {
		close(s.entered)
	}
	if s.block != nil {
		<-s.block
	}
	if s.err != nil {
		return "", s.err
	}
	return "ref-1", nil
}

func newTestController(sub Submitter) (*Controller, *manualClock) {
	clock := &manualClock{}
	ctrl := NewController(Options{
		Submitter:       sub,
		SuccessDuration: func() time.Duration { return 3 * time.Second },
		AfterFunc:       clock.AfterFunc,
	})
	return ctrl, clock
}

func TestUpdateFieldDoesNotValidate(t *testing.T) {
	ctrl, _ := newTestController(&stubSubmitter{})

	require.NoError(t, ctrl.UpdateField(models.Email, "not-an-email"))

	state := ctrl.Field(models.Email)
	assert.Equal(t, "not-an-email", state.Value)
	assert.False(t, state.Touched)
	assert.Empty(t, state.Error)
	assert.False(t, state.HasError())
}

func TestUpdateFieldUnknown(t *testing.T) {
	ctrl, _ := newTestController(&stubSubmitter{})
	err := ctrl.UpdateField(models.Field("age"), "30")
	assert.ErrorIs(t, err, models.ErrUnknownField)
}

func TestBlurTouchesAndValidates(t *testing.T) {
	ctrl, _ := newTestController(&stubSubmitter{})
	require.NoError(t, ctrl.Focus(models.NationalID))
	require.NoError(t, ctrl.UpdateField(models.NationalID, "123"))

	state, err := ctrl.Blur(models.NationalID)
	require.NoError(t, err)
	assert.True(t, state.Touched)
	assert.Equal(t, validation.NationalIDIncomplete(3), state.Error)
	assert.True(t, state.HasError())
	assert.False(t, state.Focused)

	require.NoError(t, ctrl.UpdateField(models.NationalID, "1234567890123"))
	state, err = ctrl.Blur(models.NationalID)
	require.NoError(t, err)
	assert.Empty(t, state.Error)
	assert.True(t, state.IsValid())
}

func TestIsValidRequiresValueAndTouch(t *testing.T) {
	ctrl, _ := newTestController(&stubSubmitter{})

	state, err := ctrl.Blur(models.WorkInfo)
	require.NoError(t, err)
	assert.False(t, state.IsValid(), "empty optional field is not marked valid")

	require.NoError(t, ctrl.UpdateField(models.WorkInfo, "Engineer"))
	state, _ = ctrl.Blur(models.WorkInfo)
	assert.True(t, state.IsValid())
}

func TestCompletionPercentage(t *testing.T) {
	ctrl, _ := newTestController(&stubSubmitter{})
	assert.Equal(t, 0, ctrl.Snapshot().Completion)

	require.NoError(t, ctrl.UpdateField(models.FullName, "Ann Lee"))
	require.NoError(t, ctrl.UpdateField(models.Phone, "0812345678"))
	require.NoError(t, ctrl.UpdateField(models.LineID, "annlee"))
	assert.Equal(t, 33, ctrl.Snapshot().Completion)

	require.NoError(t, ctrl.UpdateField(models.LineID, ""))
	assert.Equal(t, 22, ctrl.Snapshot().Completion)
}

func TestSubmitInvalidReturnsFirstInvalidField(t *testing.T) {
	sub := &stubSubmitter{}
	ctrl, _ := newTestController(sub)
	require.NoError(t, ctrl.UpdateField(models.FullName, "Ann Lee"))
	require.NoError(t, ctrl.UpdateField(models.Email, "bad"))

	res, err := ctrl.Submit(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Submitted)
	assert.Equal(t, models.NationalID, res.FirstInvalid)
	assert.Zero(t, sub.calls)

	snap := ctrl.Snapshot()
	for _, f := range models.Fields {
		assert.True(t, snap.Fields[f].Touched, "field %s should be touched", f)
	}
	assert.Equal(t, validation.MsgEmailInvalid, snap.Fields[models.Email].Error)
	assert.False(t, snap.Submitting)
}

func TestSubmitSuccessResetsAfterSuccessDuration(t *testing.T) {
	sub := &stubSubmitter{}
	ctrl, clock := newTestController(sub)
	require.NoError(t, ctrl.UpdateField(models.FullName, "Ann Lee"))
	require.NoError(t, ctrl.UpdateField(models.NationalID, "1234567890123"))

	res, err := ctrl.Submit(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Submitted)
	assert.Equal(t, "ref-1", res.Reference)
	assert.Equal(t, 1, sub.calls)
	assert.Equal(t, "Ann Lee", sub.got.FullName)

	snap := ctrl.Snapshot()
	assert.True(t, snap.ShowSuccess)
	assert.False(t, snap.Submitting)
	assert.Equal(t, 22, snap.Completion)

	require.Len(t, clock.timers, 1)
	assert.Equal(t, 3*time.Second, clock.timers[0].d)
	clock.fireAll()

	snap = ctrl.Snapshot()
	assert.False(t, snap.ShowSuccess)
	assert.Equal(t, 0, snap.Completion)
	assert.Equal(t, models.FormRecord{}, snap.Record)
	for _, f := range models.Fields {
		assert.False(t, snap.Fields[f].Touched)
		assert.Empty(t, snap.Fields[f].Error)
	}
}

func TestSubmitFailureKeepsState(t *testing.T) {
	sub := &stubSubmitter{err: errors.New("network unreachable")}
	ctrl, clock := newTestController(sub)
	require.NoError(t, ctrl.UpdateField(models.FullName, "Ann Lee"))
	require.NoError(t, ctrl.UpdateField(models.NationalID, "1234567890123"))

	_, err := ctrl.Submit(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, sub.err)

	snap := ctrl.Snapshot()
	assert.False(t, snap.Submitting)
	assert.False(t, snap.ShowSuccess)
	assert.Equal(t, "network unreachable", snap.Failure)
	assert.Equal(t, "Ann Lee", snap.Record.FullName)
	assert.Empty(t, clock.timers)
}

func TestSubmitRejectsConcurrentSubmit(t *testing.T) {
	sub := &stubSubmitter{block: make(chan struct{}), entered: make(chan struct{})}
	ctrl, _ := newTestController(sub)
	require.NoError(t, ctrl.UpdateField(models.FullName, "Ann Lee"))
	require.NoError(t, ctrl.UpdateField(models.NationalID, "1234567890123"))

	done := make(chan error, 1)
	go func() {
		_, err := ctrl.Submit(context.Background())
		done <- err
	}()
	<-sub.entered

	assert.True(t, ctrl.Snapshot().Submitting)
	_, err := ctrl.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSubmitInProgress)

	close(sub.block)
	require.NoError(t, <-done)
	assert.False(t, ctrl.Snapshot().Submitting)
}

func TestResetCancelsPendingTimer(t *testing.T) {
	ctrl, clock := newTestController(&stubSubmitter{})
	require.NoError(t, ctrl.UpdateField(models.FullName, "Ann Lee"))
	require.NoError(t, ctrl.UpdateField(models.NationalID, "1234567890123"))
	_, err := ctrl.Submit(context.Background())
	require.NoError(t, err)

	ctrl.Reset()
	require.Len(t, clock.timers, 1)
	assert.True(t, clock.timers[0].stopped)
}

func TestToggleNationalID(t *testing.T) {
	ctrl, _ := newTestController(&stubSubmitter{})
	assert.True(t, ctrl.ToggleNationalID())
	assert.True(t, ctrl.Snapshot().ShowNationalID)
	assert.False(t, ctrl.ToggleNationalID())
}

func fillValid(t *testing.T, ctrl *Controller) {
	t.Helper()
	require.NoError(t, ctrl.UpdateField(models.FullName, "Ann Lee"))
	require.NoError(t, ctrl.UpdateField(models.NationalID, "1234567890123"))
}

func TestSuccessDurationReadPerSubmit(t *testing.T) {
	clock := &manualClock{}
	duration := 3 * time.Second
	ctrl := NewController(Options{
		Submitter:       &stubSubmitter{},
		SuccessDuration: func() time.Duration { return duration },
		AfterFunc:       clock.AfterFunc,
	})
	fillValid(t, ctrl)

	_, err := ctrl.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, ctrl.Snapshot().ResetAfter)

	duration = 5 * time.Second
	clock.fireAll()
	assert.Zero(t, ctrl.Snapshot().ResetAfter)

	fillValid(t, ctrl)
	_, err = ctrl.Submit(context.Background())
	require.NoError(t, err)
	require.Len(t, clock.timers, 2)
	assert.Equal(t, 5*time.Second, clock.timers[1].d)
	assert.Equal(t, 5*time.Second, ctrl.Snapshot().ResetAfter)
}

func TestDefaultSuccessDuration(t *testing.T) {
	clock := &manualClock{}
	ctrl := NewController(Options{Submitter: &stubSubmitter{}, AfterFunc: clock.AfterFunc})
	fillValid(t, ctrl)

	_, err := ctrl.Submit(context.Background())
	require.NoError(t, err)
	require.Len(t, clock.timers, 1)
	assert.Equal(t, DefaultSuccessDuration, clock.timers[0].d)
}

func TestLateResetDoesNotClearNewerSuccess(t *testing.T) {
	ctrl, clock := newTestController(&stubSubmitter{})
	fillValid(t, ctrl)

	_, err := ctrl.Submit(context.Background())
	require.NoError(t, err)
	_, err = ctrl.Submit(context.Background())
	require.NoError(t, err)
	require.Len(t, clock.timers, 2)

	// The first timer fired before it could be stopped and runs late.
	clock.timers[0].f()

	snap := ctrl.Snapshot()
	assert.True(t, snap.ShowSuccess)
	assert.Equal(t, "Ann Lee", snap.Record.FullName)
	assert.False(t, clock.timers[1].stopped)

	clock.fireAll()
	assert.False(t, ctrl.Snapshot().ShowSuccess)
	assert.Equal(t, models.FormRecord{}, ctrl.Snapshot().Record)
}
