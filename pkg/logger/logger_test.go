package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"botbi/pkg/errors"
)

type recordingTracker struct {
	errs []error
	tags []map[string]string
}

func (r *recordingTracker) CaptureError(ctx context.Context, err error, tags map[string]string) error {
	r.errs = append(r.errs, err)
	r.tags = append(r.tags, tags)
	return nil
}

func (r *recordingTracker) CaptureMessage(ctx context.Context, message string, level errors.Level, tags map[string]string) error {
	return nil
}

func (r *recordingTracker) AddBreadcrumb(ctx context.Context, message string, category string, level errors.Level, data map[string]interface{}) {
}

func (r *recordingTracker) Flush(ctx context.Context) error { return nil }

func newObserved(tracker errors.Tracker) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return &Logger{SugaredLogger: zap.New(core).Sugar(), errorTracker: tracker}, logs
}

func TestComponent_TagsLogsAndTracker(t *testing.T) {
	tracker := &recordingTracker{}
	log, logs := newObserved(tracker)

	child := log.Component("curation")
	child.Infow("pool ranked", "size", 3)
	child.Errorw("dispatch failed", "recipient", "ops@example.com")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "curation", entries[0].ContextMap()["component"])

	require.Len(t, tracker.errs, 1)
	assert.Equal(t, "dispatch failed", tracker.errs[0].Error())
	assert.Equal(t, "curation", tracker.tags[0]["component"])
}

func TestWarnDoesNotTrack(t *testing.T) {
	tracker := &recordingTracker{}
	log, _ := newObserved(tracker)

	log.Warnw("crypto tier fell back", "tier", "fixed")

	assert.Empty(t, tracker.errs)
}

func TestErrorWithContext_MergesTags(t *testing.T) {
	tracker := &recordingTracker{}
	log, _ := newObserved(tracker)

	log.Component("ingestion").ErrorWithContext(context.Background(), errors.ErrUnavailable, map[string]string{"feed": "cnbc"})

	require.Len(t, tracker.tags, 1)
	assert.Equal(t, "ingestion", tracker.tags[0]["component"])
	assert.Equal(t, "cnbc", tracker.tags[0]["feed"])
}

func TestNewNop(t *testing.T) {
	log := NewNop()
	assert.NotPanics(t, func() {
		log.Component("x").Errorf("boom %d", 1)
	})
}
