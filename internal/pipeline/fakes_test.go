package pipeline

import (
	"errors"
	"io"
	"sync"
	"time"

	"bgs-showcase/internal/models"
)

type testFrame struct {
	id     int
	kind   string
	closed bool
}

func (f *testFrame) Width() int    { return 4 }
func (f *testFrame) Height() int   { return 3 }
func (f *testFrame) Channels() int { return 3 }
func (f *testFrame) Close() error {
	f.closed = true
	return nil
}

type testSource struct {
	frames     int
	readyAfter int // number of Open calls needed before Ready
	failAt     int // 1-based frame index whose Next fails; 0 never
	sized      bool
	onNext     func(call int)

	opens    int
	nexts    int
	released int
	handed   []*testFrame
}

func (s *testSource) Open() error {
	s.opens++
	if s.opens < s.readyAfter {
		return errors.New("cannot open video")
	}
	return nil
}

func (s *testSource) Ready() bool {
	return s.opens >= s.readyAfter
}

func (s *testSource) Next() (models.Frame, error) {
	s.nexts++
	if s.onNext != nil {
		s.onNext(s.nexts)
	}
	if s.failAt > 0 && s.nexts == s.failAt {
		return nil, errDecode
	}
	if s.nexts > s.frames {
		return nil, io.EOF
	}
	f := &testFrame{id: s.nexts, kind: "input"}
	s.handed = append(s.handed, f)
	return f, nil
}

func (s *testSource) Release() error {
	s.released++
	return nil
}

type sizedSource struct {
	*testSource
}

func (s sizedSource) Len() int { return s.frames }

var (
	errDecode = errors.New("decode failed")
	errApply  = errors.New("apply failed")
	errModel  = errors.New("model failed")
)

type testAlgorithm struct {
	failApplyAt int
	failModelAt int

	closeErr error

	applies int
	models  int
	closed  bool
}

func (a *testAlgorithm) Apply(frame models.Frame) (models.Frame, error) {
	a.applies++
	if a.applies == a.failApplyAt {
		return nil, errApply
	}
	return &testFrame{id: a.applies, kind: "mask"}, nil
}

func (a *testAlgorithm) BackgroundModel() (models.Frame, error) {
	a.models++
	if a.models == a.failModelAt {
		return nil, errModel
	}
	return &testFrame{id: a.models, kind: "model"}, nil
}

func (a *testAlgorithm) Close() error {
	a.closed = true
	return a.closeErr
}

type sinkCall struct {
	channel models.Channel
	id      int
}

type recordingSink struct {
	calls  []sinkCall
	onCall func(call sinkCall)
	exit   func()
	begun  []string
}

func (s *recordingSink) Display(channel models.Channel, frame models.Frame) {
	c := sinkCall{channel: channel, id: frame.(*testFrame).id}
	s.calls = append(s.calls, c)
	if s.onCall != nil {
		s.onCall(c)
	}
}

func (s *recordingSink) BeginRun(algorithm string) {
	s.begun = append(s.begun, algorithm)
}

func (s *recordingSink) OnExit(fn func()) {
	s.exit = fn
}

type event struct {
	kind      string
	algorithm string
	index     int
	remaining int
	outcome   Outcome
}

type recordingObserver struct {
	mu     sync.Mutex
	events []event
}

func (o *recordingObserver) RunStarted(algorithm string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event{kind: "start", algorithm: algorithm})
}

func (o *recordingObserver) FrameProcessed(algorithm string, index int, _ time.Duration, remaining int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event{kind: "frame", algorithm: algorithm, index: index, remaining: remaining})
}

func (o *recordingObserver) RunFinished(algorithm string, outcome Outcome) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event{kind: "finish", algorithm: algorithm, outcome: outcome})
}
