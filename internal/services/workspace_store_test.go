package services

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/smarttransit/schedule-admin/internal/form"
	"github.com/smarttransit/schedule-admin/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkspaceStore_GetCreatesOnce(t *testing.T) {
	collector := metrics.NewCollector()
	store := NewWorkspaceStore(time.Hour, time.Hour, collector)

	a := store.Get("session-a")
	require.NotNil(t, a.Form)
	require.NotNil(t, a.Listing)
	assert.Equal(t, form.New(), a.Form.Snapshot().Draft)

	assert.Same(t, a, store.Get("session-a"))
	assert.NotSame(t, a, store.Get("session-b"))

	assert.Equal(t, 2, store.Count())
	assert.Equal(t, 2.0, testutil.ToFloat64(collector.ActiveWorkspace))
}

func TestWorkspaceStore_DraftSurvivesReload(t *testing.T) {
	store := NewWorkspaceStore(time.Hour, time.Hour, metrics.NewCollector())

	ws := store.Get("session-a")
	require.NoError(t, ws.Form.Apply(func(d form.Draft) (form.Draft, error) {
		return form.SetField(d, form.SectionOperator, "name", "Lanka Express")
	}))

	again := store.Get("session-a")
	assert.Equal(t, "Lanka Express", again.Form.Snapshot().Draft.Record.Operator.Name)
}

func TestWorkspaceStore_Drop(t *testing.T) {
	collector := metrics.NewCollector()
	store := NewWorkspaceStore(time.Hour, time.Hour, collector)

	first := store.Get("session-a")
	store.Drop("session-a")
	assert.Equal(t, 0, store.Count())
	assert.Equal(t, 0.0, testutil.ToFloat64(collector.ActiveWorkspace))

	assert.NotSame(t, first, store.Get("session-a"))
}

func TestWorkspaceStore_Expiry(t *testing.T) {
	collector := metrics.NewCollector()
	store := NewWorkspaceStore(20*time.Millisecond, time.Hour, collector)

	first := store.Get("session-a")
	time.Sleep(40 * time.Millisecond)

	second := store.Get("session-a")
	assert.NotSame(t, first, second)
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.ActiveWorkspace))
}

func TestFormSession_ApplyError(t *testing.T) {
	session := NewFormSession()

	err := session.Apply(func(d form.Draft) (form.Draft, error) {
		return form.SetField(d, form.SectionBus, "fare", "abc")
	})
	assert.ErrorIs(t, err, form.ErrInvalidValue)
	assert.Equal(t, form.New(), session.Snapshot().Draft)
}

func TestFormSession_Reset(t *testing.T) {
	session := NewFormSession()
	require.NoError(t, session.Apply(func(d form.Draft) (form.Draft, error) {
		return form.AddIntermediateStop(d), nil
	}))
	session.finish(Feedback{Type: FeedbackError, Text: "Error: x"}, nil, false)

	session.Reset()
	snap := session.Snapshot()
	assert.Len(t, snap.Draft.IntermediateStops, 1)
	assert.Nil(t, snap.Feedback)
}
