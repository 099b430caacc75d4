package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdemidenko/homework-bot/config"
	"github.com/mdemidenko/homework-bot/internal/practicum"
)

// ----- Fakes -----

type fakeResult struct {
	body any
	err  error
}

type fakeFetcher struct {
	mu         sync.Mutex
	results    []fakeResult
	timestamps []int64
}

func (f *fakeFetcher) GetAPIAnswer(ctx context.Context, timestamp int64) (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.timestamps = append(f.timestamps, timestamp)
	if len(f.results) == 0 {
		return map[string]any{"homeworks": []any{}, "current_date": json.Number("0")}, nil
	}
	r := f.results[0]
	f.results = f.results[1:]
	return r.body, r.err
}

func (f *fakeFetcher) calls() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.timestamps...)
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []string
}

func (n *fakeNotifier) Send(ctx context.Context, text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, text)
}

func (n *fakeNotifier) messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.sent...)
}

type fakeRepo struct {
	saved   []int64
	loaded  int64
	hasLoad bool
	saveErr error
}

func (r *fakeRepo) Load() (int64, bool, error) { return r.loaded, r.hasLoad, nil }

func (r *fakeRepo) Save(v int64) error {
	r.saved = append(r.saved, v)
	return r.saveErr
}

func response(date int64, homeworks ...any) fakeResult {
	if homeworks == nil {
		homeworks = []any{}
	}
	return fakeResult{body: map[string]any{
		"homeworks":    homeworks,
		"current_date": json.Number(strconv.FormatInt(date, 10)),
	}}
}

func hw(status, name string) map[string]any {
	return map[string]any{"status": status, "homework_name": name}
}

var fixedNow = time.Unix(1_700_000_000, 0)

func newTestService(f Fetcher, n Notifier, r *fakeRepo) *service {
	return newService(f, n, r, zerolog.Nop(), Options{
		RetryPeriod: time.Millisecond,
		Now:         func() time.Time { return fixedNow },
	})
}

// ----- Tests -----

func TestIterate_StatusChangeNotifiesAndAdvancesWatermark(t *testing.T) {
	fetcher := &fakeFetcher{results: []fakeResult{
		response(200, hw("approved", "hw1")),
		response(300),
	}}
	notifier := &fakeNotifier{}
	repo := &fakeRepo{}
	svc := newTestService(fetcher, notifier, repo)

	st := loopState{timestamp: 100}
	svc.iterate(context.Background(), &st)
	svc.iterate(context.Background(), &st)

	assert.Equal(t, []int64{100, 200}, fetcher.calls())
	assert.Equal(t, int64(300), st.timestamp)
	assert.Equal(t, []int64{200, 300}, repo.saved)
	require.Equal(t, []string{
		`Изменился статус проверки работы "hw1". Работа проверена: ревьюеру всё понравилось. Ура!`,
	}, notifier.messages())
	assert.Equal(t, notifier.messages()[0], st.lastMessage)
}

func TestIterate_EmptyListDoesNotNotify(t *testing.T) {
	fetcher := &fakeFetcher{results: []fakeResult{response(500)}}
	notifier := &fakeNotifier{}
	svc := newTestService(fetcher, notifier, &fakeRepo{})

	st := loopState{timestamp: 1}
	svc.iterate(context.Background(), &st)

	assert.Empty(t, notifier.messages())
	assert.Equal(t, int64(500), st.timestamp)
	assert.Equal(t, "", st.lastMessage)
}

func TestIterate_IdenticalFailuresNotifyOnce(t *testing.T) {
	apiErr := &practicum.ResponseError{StatusCode: 503, Reason: "Service Unavailable"}
	fetcher := &fakeFetcher{results: []fakeResult{{err: apiErr}, {err: apiErr}, {err: apiErr}}}
	notifier := &fakeNotifier{}
	svc := newTestService(fetcher, notifier, &fakeRepo{})

	st := loopState{timestamp: 10}
	for i := 0; i < 3; i++ {
		svc.iterate(context.Background(), &st)
	}

	msgs := notifier.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "Сбой в работе программы: ошибка ответа API: 503 Service Unavailable", msgs[0])
	assert.Equal(t, int64(10), st.timestamp, "watermark must not move on failure")
	assert.Equal(t, []int64{10, 10, 10}, fetcher.calls())
}

func TestIterate_DifferentFailuresNotifyEach(t *testing.T) {
	connErr := &practicum.ConnectionError{
		Endpoint: "https://example.test/",
		Params:   url.Values{"from_date": []string{"10"}},
		Err:      errors.New("connection refused"),
	}
	fetcher := &fakeFetcher{results: []fakeResult{
		{err: connErr},
		{body: map[string]any{"homeworks": "not-a-list", "current_date": 123}},
	}}
	notifier := &fakeNotifier{}
	svc := newTestService(fetcher, notifier, &fakeRepo{})

	st := loopState{timestamp: 10}
	svc.iterate(context.Background(), &st)
	svc.iterate(context.Background(), &st)

	msgs := notifier.messages()
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[0], "connection refused")
	assert.Contains(t, msgs[1], "ожидался список")
}

func TestIterate_FailureAfterSuccessIsSent(t *testing.T) {
	fetcher := &fakeFetcher{results: []fakeResult{
		response(20, hw("reviewing", "hw1")),
		response(30, hw("unknown_status", "hw1")),
		response(40, hw("unknown_status", "hw1")),
	}}
	notifier := &fakeNotifier{}
	repo := &fakeRepo{}
	svc := newTestService(fetcher, notifier, repo)

	st := loopState{timestamp: 10}
	for i := 0; i < 3; i++ {
		svc.iterate(context.Background(), &st)
	}

	msgs := notifier.messages()
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[0], "Работа взята на проверку ревьюером.")
	assert.Contains(t, msgs[1], "unknown_status")
	assert.Equal(t, int64(20), st.timestamp)
	assert.Equal(t, []int64{20}, repo.saved)
	assert.Equal(t, []int64{10, 20, 20}, fetcher.calls())
}

func TestIterate_SaveErrorStillAdvances(t *testing.T) {
	fetcher := &fakeFetcher{results: []fakeResult{response(77)}}
	notifier := &fakeNotifier{}
	svc := newTestService(fetcher, notifier, &fakeRepo{saveErr: errors.New("disk full")})

	st := loopState{timestamp: 1}
	svc.iterate(context.Background(), &st)

	assert.Equal(t, int64(77), st.timestamp)
	assert.Empty(t, notifier.messages())
	assert.Equal(t, int64(0), svc.Status().Failures)
}

func TestIterate_CancelledRequestIsNotReported(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := &fakeFetcher{results: []fakeResult{{err: &practicum.ConnectionError{Err: context.Canceled}}}}
	notifier := &fakeNotifier{}
	svc := newTestService(fetcher, notifier, &fakeRepo{})

	st := loopState{}
	svc.iterate(ctx, &st)
	assert.Empty(t, notifier.messages())
}

func TestStatusSnapshot(t *testing.T) {
	fetcher := &fakeFetcher{results: []fakeResult{
		response(20),
		{err: &practicum.ResponseError{StatusCode: 500, Reason: "Internal Server Error"}},
	}}
	svc := newTestService(fetcher, &fakeNotifier{}, &fakeRepo{})

	st := loopState{timestamp: 10}
	svc.iterate(context.Background(), &st)
	snap := svc.Status()
	assert.Equal(t, int64(20), snap.Watermark)
	assert.Equal(t, int64(1), snap.Iterations)
	assert.Empty(t, snap.LastError)

	svc.iterate(context.Background(), &st)
	snap = svc.Status()
	assert.Equal(t, int64(2), snap.Iterations)
	assert.Equal(t, int64(1), snap.Failures)
	assert.Equal(t, "response", snap.LastErrKind)
	assert.Equal(t, fixedNow.UTC(), snap.LastPoll)
}

func TestInitialTimestamp(t *testing.T) {
	svc := newTestService(&fakeFetcher{}, &fakeNotifier{}, &fakeRepo{loaded: 42, hasLoad: true})
	assert.Equal(t, int64(42), svc.initialTimestamp())

	svc = newService(&fakeFetcher{}, &fakeNotifier{}, &fakeRepo{}, zerolog.Nop(), Options{
		Lookback: time.Hour,
		Now:      func() time.Time { return fixedNow },
	})
	assert.Equal(t, fixedNow.Add(-time.Hour).Unix(), svc.initialTimestamp())
}

func TestInitialTimestamp_DefaultLooksBackOneWeek(t *testing.T) {
	svc := newService(&fakeFetcher{}, &fakeNotifier{}, &fakeRepo{}, zerolog.Nop(), Options{
		Lookback: config.DefaultConfig().Lookback(),
		Now:      func() time.Time { return fixedNow },
	})
	assert.Equal(t, fixedNow.Unix()-604800, svc.initialTimestamp())
}

func TestRun_StopsOnCancel(t *testing.T) {
	fetcher := &fakeFetcher{results: []fakeResult{response(5), response(6), response(7)}}
	svc := newTestService(fetcher, &fakeNotifier{}, &fakeRepo{loaded: 4, hasLoad: true})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	require.Eventually(t, func() bool { return len(fetcher.calls()) >= 3 }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
	calls := fetcher.calls()
	assert.Equal(t, []int64{4, 5, 6}, calls[:3])
}

func TestErrorKind(t *testing.T) {
	assert.Equal(t, "connection", ErrorKind(&practicum.ConnectionError{Err: errors.New("x")}))
	assert.Equal(t, "response", ErrorKind(&practicum.ResponseError{StatusCode: 404}))
	assert.Equal(t, "decode", ErrorKind(practicum.ErrDecode))
	assert.Equal(t, "type", ErrorKind(ErrUnexpectedType))
	assert.Equal(t, "missing_key", ErrorKind(ErrMissingKey))
	assert.Equal(t, "unknown_status", ErrorKind(ErrUnknownStatus))
	assert.Equal(t, "unknown", ErrorKind(errors.New("other")))
}
