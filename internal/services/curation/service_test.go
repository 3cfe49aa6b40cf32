package curation

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"botbi/internal/domain/news"
	"botbi/pkg/errors"
	"botbi/pkg/logger"
)

// MockReasoner is a mock for ai.Reasoner
type MockReasoner struct {
	mock.Mock
}

func (m *MockReasoner) Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (string, error) {
	args := m.Called(ctx, systemPrompt, userPrompt, temperature)
	return args.String(0), args.Error(1)
}

func (m *MockReasoner) Name() string { return "mock/test" }

func newTestPipeline(r *MockReasoner) *Pipeline {
	return NewPipeline(r, time.Second, logger.NewNop())
}

func TestCurate_EmptyPoolSkipsCall(t *testing.T) {
	r := new(MockReasoner)

	got := newTestPipeline(r).Curate(context.Background(), nil, 10)

	assert.Empty(t, got)
	assert.NotNil(t, got)
	r.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCurate_Ranked(t *testing.T) {
	abc := []news.EnrichedItem{{ID: "1", Title: "A"}, {ID: "2", Title: "B"}, {ID: "3", Title: "C"}}

	var prompt string
	r := new(MockReasoner)
	r.On("Complete", mock.Anything, systemPrompt, mock.AnythingOfType("string"), 0.0).
		Run(func(args mock.Arguments) { prompt = args.String(2) }).
		Return("2, 9, 1", nil).
		Once()

	got := newTestPipeline(r).Curate(context.Background(), abc, 10)

	assert.Equal(t, []string{"2", "1"}, got.IDs())
	assert.Equal(t, "B", got[0].Title)
	assert.Contains(t, prompt, "ID: 1 | Title: A\n")
	assert.Contains(t, prompt, "ID: 2 | Title: B\n")
	assert.Contains(t, prompt, "ID: 3 | Title: C\n")
	r.AssertExpectations(t)
}

func TestCurate_PromptListsWholePool(t *testing.T) {
	items := pool(30)
	var prompt string
	r := new(MockReasoner)
	r.On("Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { prompt = args.String(2) }).
		Return("30", nil)

	newTestPipeline(r).Curate(context.Background(), items, 10)

	assert.Equal(t, 30, strings.Count(prompt, " | Title: "))
}

func TestCurate_FallsBackToPoolOrder(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		err   error
	}{
		{name: "call failed", err: errors.ErrTimeout},
		{name: "no known ids", reply: "99, 100"},
		{name: "empty reply", reply: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := new(MockReasoner)
			r.On("Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
				Return(tt.reply, tt.err).
				Once()

			got := newTestPipeline(r).Curate(context.Background(), pool(15), 10)

			assert.Equal(t, []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}, got.IDs())
			r.AssertNumberOfCalls(t, "Complete", 1)
		})
	}
}

func TestCurate_FallbackOnSmallPool(t *testing.T) {
	r := new(MockReasoner)
	r.On("Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.ErrUnavailable)

	got := newTestPipeline(r).Curate(context.Background(), pool(3), 10)

	assert.Equal(t, []string{"1", "2", "3"}, got.IDs())
}

func TestCurate_PlausibleSelection(t *testing.T) {
	items := pool(20)
	r := new(MockReasoner)
	r.On("Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("20, 19, 3, 3, 42, 7, 1, 2, 4, 5, 6, 8, 9, 10", nil)

	got := newTestPipeline(r).Curate(context.Background(), items, 0)

	require.LessOrEqual(t, len(got), MaxSelection)
	seen := map[string]bool{}
	known := map[string]bool{}
	for _, item := range items {
		known[item.ID] = true
	}
	for _, id := range got.IDs() {
		assert.False(t, seen[id], "duplicate id %s", id)
		assert.True(t, known[id], "id %s not in pool", id)
		seen[id] = true
	}
	assert.Equal(t, []string{"20", "19", "3", "7", "1", "2", "4", "5", "6", "8"}, got.IDs())
}

func TestCurate_SelectionDoesNotAliasPool(t *testing.T) {
	items := pool(3)
	r := new(MockReasoner)
	r.On("Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.ErrUnavailable)

	got := newTestPipeline(r).Curate(context.Background(), items, 10)
	got[0].Title = "changed"

	assert.Equal(t, "T1", items[0].Title)
}
