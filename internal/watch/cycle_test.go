package watch

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockRenderer struct {
	mock.Mock
}

func (m *mockRenderer) Render(ctx context.Context, rawURL string) (Page, error) {
	args := m.Called(ctx, rawURL)
	return args.Get(0).(Page), args.Error(1)
}

type mockExtractor struct {
	mock.Mock
}

func (m *mockExtractor) Extract(page Page) ([]RawObservation, error) {
	args := m.Called(page)
	if obs := args.Get(0); obs != nil {
		return obs.([]RawObservation), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(ctx context.Context, subject, body string) error {
	args := m.Called(ctx, subject, body)
	return args.Error(0)
}

func newTestChecker(r Renderer, e Extractor, n Notifier, tracker *Tracker) *Checker {
	return NewChecker(
		r, e,
		newTestNormalizer("Beanstalk", "Ember Lily"),
		tracker,
		n,
		CycleConfig{
			URL:           "https://stock.example/garden",
			RenderTimeout: 5 * time.Second,
			Subject:       "Gamersberg Stock Alert!",
		},
		zap.NewNop(),
	)
}

func TestRunCycle_NotifiesNewAvailability(t *testing.T) {
	t.Parallel()

	renderer := new(mockRenderer)
	extractor := new(mockExtractor)
	notifier := new(mockNotifier)
	tracker := NewTracker(NotifyOncePerProcess)

	page := Page{URL: "https://stock.example/garden", Body: []byte("<html/>")}
	renderer.On("Render", mock.Anything, "https://stock.example/garden").Return(page, nil)
	extractor.On("Extract", page).Return([]RawObservation{
		{Label: "Beanstalk Seed", StatusText: "Stock: 3"},
		{Label: "Ember Lily Seed", StatusText: "Stock: 0"},
	}, nil)
	notifier.On("Notify", mock.Anything, "Gamersberg Stock Alert!", mock.AnythingOfType("string")).Return(nil)

	res := newTestChecker(renderer, extractor, notifier, tracker).RunCycle(context.Background())

	require.Equal(t, OutcomeNotified, res.Outcome)
	require.Equal(t, 1, res.Notified)
	notifier.AssertNumberOfCalls(t, "Notify", 1)

	body := notifier.Calls[0].Arguments.String(2)
	require.Contains(t, body, "- Beanstalk: 3 available!")
	require.NotContains(t, body, "Ember Lily")
}

func TestRunCycle_SecondCycleIsNoChange(t *testing.T) {
	t.Parallel()

	renderer := new(mockRenderer)
	extractor := new(mockExtractor)
	notifier := new(mockNotifier)
	tracker := NewTracker(NotifyOncePerProcess)

	page := Page{Body: []byte("<html/>")}
	renderer.On("Render", mock.Anything, mock.Anything).Return(page, nil)
	extractor.On("Extract", page).Return([]RawObservation{
		{Label: "Beanstalk Seed", StatusText: "Stock: 3"},
	}, nil).Once()
	extractor.On("Extract", page).Return([]RawObservation{
		{Label: "Beanstalk Seed", StatusText: "Stock: 5"},
	}, nil).Once()
	notifier.On("Notify", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	checker := newTestChecker(renderer, extractor, notifier, tracker)
	first := checker.RunCycle(context.Background())
	second := checker.RunCycle(context.Background())

	require.Equal(t, OutcomeNotified, first.Outcome)
	require.Equal(t, OutcomeNoChange, second.Outcome)
	notifier.AssertNumberOfCalls(t, "Notify", 1)
}

func TestRunCycle_RenderFailure(t *testing.T) {
	t.Parallel()

	renderer := new(mockRenderer)
	extractor := new(mockExtractor)
	notifier := new(mockNotifier)
	tracker := NewTracker(NotifyOncePerProcess)

	renderer.On("Render", mock.Anything, mock.Anything).
		Return(Page{}, context.DeadlineExceeded)

	res := newTestChecker(renderer, extractor, notifier, tracker).RunCycle(context.Background())

	require.Equal(t, OutcomeFailed, res.Outcome)
	require.ErrorIs(t, res.Err, context.DeadlineExceeded)
	require.Empty(t, tracker.notified)
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything)
	extractor.AssertNotCalled(t, "Extract", mock.Anything)
}

func TestRunCycle_EmptyExtractionFailsClosed(t *testing.T) {
	t.Parallel()

	renderer := new(mockRenderer)
	extractor := new(mockExtractor)
	notifier := new(mockNotifier)
	tracker := NewTracker(NotifyOncePerProcess)

	page := Page{Body: []byte("<html/>")}
	renderer.On("Render", mock.Anything, mock.Anything).Return(page, nil)
	extractor.On("Extract", page).Return([]RawObservation{}, nil)

	res := newTestChecker(renderer, extractor, notifier, tracker).RunCycle(context.Background())

	require.Equal(t, OutcomeFailed, res.Outcome)
	require.ErrorIs(t, res.Err, ErrEmptyExtraction)
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything)
}

func TestRunCycle_NoWatchedItemsFailsClosed(t *testing.T) {
	t.Parallel()

	renderer := new(mockRenderer)
	extractor := new(mockExtractor)
	notifier := new(mockNotifier)
	tracker := NewTracker(NotifyOncePerProcess)

	page := Page{Body: []byte("<html/>")}
	renderer.On("Render", mock.Anything, mock.Anything).Return(page, nil)
	// Containers were found, but the whole watch-list is missing: that is
	// a markup change, not universal sell-out.
	extractor.On("Extract", page).Return([]RawObservation{
		{Label: "Carrot Seed", StatusText: "Stock: 10"},
	}, nil)

	res := newTestChecker(renderer, extractor, notifier, tracker).RunCycle(context.Background())

	require.Equal(t, OutcomeFailed, res.Outcome)
	require.ErrorIs(t, res.Err, ErrNoWatchedItems)
}

func TestRunCycle_NotifierFailureDoesNotRollBack(t *testing.T) {
	t.Parallel()

	renderer := new(mockRenderer)
	extractor := new(mockExtractor)
	notifier := new(mockNotifier)
	tracker := NewTracker(NotifyOncePerProcess)

	page := Page{Body: []byte("<html/>")}
	renderer.On("Render", mock.Anything, mock.Anything).Return(page, nil)
	extractor.On("Extract", page).Return([]RawObservation{
		{Label: "Beanstalk Seed", StatusText: "Stock: 2"},
	}, nil)
	notifier.On("Notify", mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("smtp: auth failed"))

	checker := newTestChecker(renderer, extractor, notifier, tracker)
	first := checker.RunCycle(context.Background())
	second := checker.RunCycle(context.Background())

	// At-most-once attempt: the name stays marked even though delivery failed.
	require.Equal(t, OutcomeNotified, first.Outcome)
	require.Equal(t, OutcomeNoChange, second.Outcome)
	notifier.AssertNumberOfCalls(t, "Notify", 1)
}

func TestRunCycle_DuplicateContainersNotifyOnce(t *testing.T) {
	t.Parallel()

	renderer := new(mockRenderer)
	extractor := new(mockExtractor)
	notifier := new(mockNotifier)
	tracker := NewTracker(NotifyOncePerProcess)

	page := Page{Body: []byte("<html/>")}
	renderer.On("Render", mock.Anything, mock.Anything).Return(page, nil)
	extractor.On("Extract", page).Return([]RawObservation{
		{Label: "Beanstalk Seed", StatusText: "Stock: 1"},
		{Label: "Beanstalk Seed", StatusText: "Stock: 1"},
	}, nil)
	notifier.On("Notify", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	res := newTestChecker(renderer, extractor, notifier, tracker).RunCycle(context.Background())

	require.Equal(t, OutcomeNotified, res.Outcome)
	require.Equal(t, 1, res.Notified)

	body := notifier.Calls[0].Arguments.String(2)
	require.Equal(t, 1, strings.Count(body, "Beanstalk"))
}

func TestFormatAlertBody(t *testing.T) {
	t.Parallel()

	body := formatAlertBody(Snapshot{
		{Name: "Beanstalk", Quantity: 3},
		{Name: "Ember Lily", Quantity: 1},
	})

	require.Equal(t,
		"The following target seeds are now available:\n\n"+
			"- Beanstalk: 3 available!\n"+
			"- Ember Lily: 1 available!",
		body,
	)
}
