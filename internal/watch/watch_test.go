package watch

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.klb.dev/cliptrans/internal/clip"
	"go.klb.dev/cliptrans/internal/translate"
)

type recordSink struct {
	mu      sync.Mutex
	results []translate.Result
}

func (s *recordSink) Show(r translate.Result) {
	s.mu.Lock()
	s.results = append(s.results, r)
	s.mu.Unlock()
}

func (s *recordSink) All() []translate.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]translate.Result, len(s.results))
	copy(out, s.results)
	return out
}

func (s *recordSink) Len() int { return len(s.All()) }

type fixture struct {
	loop *Loop
	clip *clip.Memory
	stub *translate.Stub
	sink *recordSink
}

func newFixture(cfg Config) (*fixture, error) {
	f := &fixture{
		clip: clip.NewMemory(""),
		stub: translate.NewStub(),
		sink: &recordSink{},
	}
	l, err := New(f.clip, f.stub, f.sink, cfg)
	if err != nil {
		return nil, err
	}
	f.loop = l
	return f, nil
}

func mustFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()
	f, err := newFixture(cfg)
	require.NoError(t, err)
	return f
}

// feed puts text on the clipboard and runs one tick.
func (f *fixture) feed(text string) {
	f.clip.Set(text)
	f.loop.tick(nil)
}

func TestNewDefaults(t *testing.T) {
	f := mustFixture(t, Config{})
	assert.Equal(t, Idle, f.loop.State())
	assert.Equal(t, translate.DefaultLanguage, f.loop.Language())
	assert.Equal(t, translate.DefaultLanguages, f.loop.Languages())
	assert.Equal(t, DefaultInterval, f.loop.interval)
	assert.Equal(t, DefaultTimeout, f.loop.timeout)
	assert.Empty(t, f.loop.LastSeen())
	assert.Equal(t, "stub", f.loop.Provider())
}

func TestNewRejectsUnsupportedLanguage(t *testing.T) {
	_, err := newFixture(Config{Language: "xx"})
	assert.ErrorIs(t, err, translate.ErrUnsupportedLanguage)

	_, err = New(nil, translate.NewStub(), &recordSink{}, Config{})
	assert.Error(t, err)
}

func TestTickTranslatesChangedText(t *testing.T) {
	f := mustFixture(t, Config{Language: "fr"})
	f.stub.Dictionary = map[string]map[string]string{"fr": {"hello": "bonjour"}}

	f.feed("  hello \n")

	assert.Equal(t, []translate.Call{{Text: "hello", Target: "fr"}}, f.stub.Calls())
	require.Equal(t, 1, f.sink.Len())
	res := f.sink.All()[0]
	assert.Equal(t, "bonjour", res.Display())
	assert.Equal(t, "hello", res.SourceText)
	assert.Equal(t, "fr", res.TargetLanguage)
	assert.Equal(t, "hello", f.loop.LastSeen())
}

func TestTickIgnoresUnchangedAndEmpty(t *testing.T) {
	f := mustFixture(t, Config{Language: "fr"})

	f.feed("hello")
	f.feed("hello")
	f.feed(" hello\t")
	f.feed("")
	f.feed("   \n\t")

	assert.Len(t, f.stub.Calls(), 1)
	assert.Equal(t, "hello", f.loop.LastSeen(), "empty content must not reset lastSeen")
}

func TestTickReadFailureIsNoop(t *testing.T) {
	f := mustFixture(t, Config{})
	f.clip.Set("hello")
	f.clip.Lock()

	f.loop.tick(nil)

	assert.Empty(t, f.stub.Calls())
	assert.Zero(t, f.sink.Len(), "read failures are never shown")
	assert.Empty(t, f.loop.LastSeen())
	assert.Equal(t, int64(1), f.loop.Stats().ReadFailures)

	f.clip.Unlock()
	f.loop.tick(nil)
	assert.Len(t, f.stub.Calls(), 1)
}

func TestProviderFailureIsDisplayedAndLoopContinues(t *testing.T) {
	f := mustFixture(t, Config{Language: "de"})
	f.stub.FailWith(errors.New("network unreachable"))

	f.feed("hello")

	require.Equal(t, 1, f.sink.Len())
	res := f.sink.All()[0]
	assert.True(t, res.Failed())
	assert.Equal(t, "Error: stub: network unreachable", res.Display())
	assert.Equal(t, "hello", f.loop.LastSeen(), "a failed attempt still counts as dispatched")

	f.stub.FailWith(nil)
	f.feed("world")

	require.Equal(t, 2, f.sink.Len())
	assert.Equal(t, "[de] world", f.sink.All()[1].Display())

	st := f.loop.Stats()
	assert.Equal(t, int64(2), st.Translations)
	assert.Equal(t, int64(1), st.Failures)
}

func TestProviderTimeoutIsProviderError(t *testing.T) {
	f := mustFixture(t, Config{Language: "fr", Timeout: 20 * time.Millisecond})
	f.stub.Delay = time.Second

	start := time.Now()
	f.feed("slow")

	assert.Less(t, time.Since(start), 500*time.Millisecond)
	require.Equal(t, 1, f.sink.Len())
	res := f.sink.All()[0]
	assert.True(t, res.Failed())
	assert.Contains(t, res.Error, "deadline exceeded")
}

func TestSetLanguageRetranslatesLastSeen(t *testing.T) {
	f := mustFixture(t, Config{Language: "fr"})

	require.NoError(t, f.loop.SetLanguage("de"))
	assert.Empty(t, f.stub.Calls(), "nothing captured yet, nothing to re-translate")
	assert.Equal(t, "de", f.loop.Language())

	f.feed("world")
	require.NoError(t, f.loop.SetLanguage("ES"))

	assert.Equal(t, []translate.Call{
		{Text: "world", Target: "de"},
		{Text: "world", Target: "es"},
	}, f.stub.Calls())
	assert.Equal(t, "es", f.loop.Language())
}

func TestSetLanguageSameOrUnsupported(t *testing.T) {
	f := mustFixture(t, Config{Language: "fr"})
	f.feed("hello")

	require.NoError(t, f.loop.SetLanguage("fr"))
	assert.Len(t, f.stub.Calls(), 1)

	err := f.loop.SetLanguage("klingon")
	assert.ErrorIs(t, err, translate.ErrUnsupportedLanguage)
	assert.Equal(t, "fr", f.loop.Language())
	assert.Len(t, f.stub.Calls(), 1)
}

func TestTickSkippedWhileBusy(t *testing.T) {
	f := mustFixture(t, Config{})
	f.clip.Set("hello")

	f.loop.busy.Lock()
	f.loop.tick(nil)
	f.loop.busy.Unlock()

	assert.Empty(t, f.stub.Calls())
	assert.Equal(t, int64(1), f.loop.Stats().Skipped)
	assert.Empty(t, f.loop.LastSeen())
}

func TestIgnoreOwnWrite(t *testing.T) {
	f := mustFixture(t, Config{Language: "fr"})
	f.feed("hello")

	f.loop.IgnoreOwnWrite("[fr] hello")
	f.feed("[fr] hello")
	assert.Len(t, f.stub.Calls(), 1, "own write must not be translated")
	assert.Equal(t, "hello", f.loop.LastSeen())

	f.feed("again")
	f.feed("[fr] hello")
	assert.Len(t, f.stub.Calls(), 3, "after the clipboard moved on the text is a normal capture")
}

func TestStartStopIdempotent(t *testing.T) {
	f := mustFixture(t, Config{Interval: 5 * time.Millisecond})

	f.loop.Stop()
	assert.Equal(t, Idle, f.loop.State())

	f.loop.Start()
	f.loop.Start()
	assert.Equal(t, Watching, f.loop.State())

	f.loop.Stop()
	f.loop.Stop()
	assert.Equal(t, Idle, f.loop.State())
}

func TestStartPollsAndStopHalts(t *testing.T) {
	f := mustFixture(t, Config{Interval: 5 * time.Millisecond, Language: "fr"})
	f.clip.Set("hello")

	f.loop.Start()
	require.Eventually(t, func() bool { return f.sink.Len() == 1 }, time.Second, 5*time.Millisecond)

	f.loop.Stop()
	time.Sleep(20 * time.Millisecond)
	reads := f.clip.Reads()
	f.clip.Set("world")
	time.Sleep(50 * time.Millisecond)

	assert.Len(t, f.stub.Calls(), 1)
	assert.Equal(t, reads, f.clip.Reads(), "no ticks after Stop")
}

func TestStopLetsInFlightTranslationFinish(t *testing.T) {
	f := mustFixture(t, Config{Interval: 5 * time.Millisecond, Language: "fr"})
	f.stub.Delay = 100 * time.Millisecond
	f.clip.Set("hello")

	f.loop.Start()
	require.Eventually(t, func() bool { return len(f.stub.Calls()) == 1 }, time.Second, time.Millisecond)
	f.loop.Stop()

	require.Eventually(t, func() bool { return f.sink.Len() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "[fr] hello", f.sink.All()[0].Display())
	assert.Equal(t, Idle, f.loop.State())
}

// gatedClip blocks every ReadText until release is closed.
type gatedClip struct {
	mu      sync.Mutex
	text    string
	once    sync.Once
	started chan struct{}
	release chan struct{}
}

func newGatedClip(text string) *gatedClip {
	return &gatedClip{text: text, started: make(chan struct{}), release: make(chan struct{})}
}

func (c *gatedClip) ReadText() (string, error) {
	c.once.Do(func() { close(c.started) })
	<-c.release
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text, nil
}

func (c *gatedClip) Set(text string) {
	c.mu.Lock()
	c.text = text
	c.mu.Unlock()
}

func TestStopDropsReadStillInProgress(t *testing.T) {
	gc := newGatedClip("before stop")
	stub := translate.NewStub()
	sink := &recordSink{}
	l, err := New(gc, stub, sink, Config{Interval: 5 * time.Millisecond, Language: "fr"})
	require.NoError(t, err)

	l.Start()
	select {
	case <-gc.started:
	case <-time.After(time.Second):
		t.Fatal("clipboard never read")
	}
	l.Stop()
	gc.Set("after stop")
	close(gc.release)

	require.Eventually(t, func() bool { return l.busy.TryLock() }, time.Second, time.Millisecond)
	l.busy.Unlock()

	assert.Empty(t, stub.Calls())
	assert.Zero(t, sink.Len())
	assert.Empty(t, l.LastSeen())
}

func TestRestartDropsReadFromEarlierRun(t *testing.T) {
	gc := newGatedClip("stale")
	stub := translate.NewStub()
	l, err := New(gc, stub, &recordSink{}, Config{Interval: time.Hour, Language: "fr"})
	require.NoError(t, err)

	l.Start()
	stale := l.stop
	l.Stop()
	l.Start()
	defer l.Stop()
	close(gc.release)

	l.tick(stale)
	assert.Empty(t, stub.Calls(), "a tick from a stopped run must not dispatch")

	l.tick(l.stop)
	assert.Len(t, stub.Calls(), 1)
}

// The end-to-end scenario: hello/fr, repeat, world, switch to de, stop.
func TestScenario(t *testing.T) {
	f := mustFixture(t, Config{Interval: 5 * time.Millisecond, Language: "fr"})
	waitCalls := func(n int) {
		t.Helper()
		require.Eventually(t, func() bool { return len(f.stub.Calls()) == n && f.sink.Len() == n },
			time.Second, 2*time.Millisecond)
	}

	f.loop.Start()
	defer f.loop.Stop()

	f.clip.Set("hello")
	waitCalls(1)
	assert.Equal(t, "[fr] hello", f.sink.All()[0].Display())

	f.clip.Set("hello")
	time.Sleep(30 * time.Millisecond)
	assert.Len(t, f.stub.Calls(), 1)

	f.clip.Set("world")
	waitCalls(2)

	require.NoError(t, f.loop.SetLanguage("de"))
	waitCalls(3)

	f.loop.Stop()
	time.Sleep(10 * time.Millisecond)
	f.clip.Set("after stop")
	time.Sleep(30 * time.Millisecond)

	assert.Equal(t, []translate.Call{
		{Text: "hello", Target: "fr"},
		{Text: "world", Target: "fr"},
		{Text: "world", Target: "de"},
	}, f.stub.Calls())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "watching", Watching.String())
	assert.Equal(t, "State(7)", State(7).String())
}
