package germplasm

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type EventLevel int

const (
	LevelNotice EventLevel = iota
	LevelError
)

func (l EventLevel) String() string {
	if l == LevelError {
		return "error"
	}
	return "notice"
}

func (l EventLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

/*
Event 导入过程中产生的通知或错误。

	Kind 只有错误事件才有；
	Line 0 表示与具体行无关，例如运行结束时的汇总；
*/
type Event struct {
	RunID   string     `json:"run_id"`
	Level   EventLevel `json:"level"`
	Kind    ErrorKind  `json:"kind,omitempty"`
	Line    int        `json:"line,omitempty"`
	Message string     `json:"message"`
	Time    time.Time  `json:"time"`
}

/*
EventSink 接收导入事件。Emit 在导入的 goroutine 中同步调用，实现不应阻塞太久。
*/
type EventSink interface {
	Emit(event Event)
}

/*
LoggerSink 将事件写入 logrus，通知为 Info，错误为 Error
*/
type LoggerSink struct {
	logger *logrus.Logger
}

func NewLoggerSink(logger *logrus.Logger) *LoggerSink {
	return &LoggerSink{logger: logger}
}

func (s *LoggerSink) Emit(event Event) {
	entry := s.logger.WithField("run_id", event.RunID)
	if event.Line > 0 {
		entry = entry.WithField("line", event.Line)
	}

	if event.Level == LevelError {
		entry.WithField("kind", string(event.Kind)).Error(event.Message)
		return
	}
	entry.Info(event.Message)
}

/*
EventRecorder 在内存中按顺序记录所有事件，用于任务结果汇总和测试
*/
type EventRecorder struct {
	lock   sync.Mutex
	events []Event
}

func (r *EventRecorder) Emit(event Event) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.events = append(r.events, event)
}

func (r *EventRecorder) Events() []Event {
	r.lock.Lock()
	defer r.lock.Unlock()

	ret := make([]Event, len(r.events))
	copy(ret, r.events)
	return ret
}

func (r *EventRecorder) Messages() []string {
	events := r.Events()
	ret := make([]string, len(events))
	for i, event := range events {
		ret[i] = event.Message
	}
	return ret
}

// MultiSink 依次转发给每一个 sink
type MultiSink []EventSink

func (m MultiSink) Emit(event Event) {
	for _, sink := range m {
		if sink != nil {
			sink.Emit(event)
		}
	}
}
