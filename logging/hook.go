package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type writerHook struct {
	lock      sync.Mutex
	writer    io.Writer
	levels    []logrus.Level
	formatter logrus.Formatter
}

func newWriterHook(writer io.Writer, level logrus.Level, formatter logrus.Formatter) *writerHook {
	levels := make([]logrus.Level, 0, len(logrus.AllLevels))
	for _, l := range logrus.AllLevels {
		if l <= level {
			levels = append(levels, l)
		}
	}

	return &writerHook{
		writer:    writer,
		levels:    levels,
		formatter: formatter,
	}
}

func (h *writerHook) Levels() []logrus.Level {
	return h.levels
}

func (h *writerHook) Fire(entry *logrus.Entry) error {
	line, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}

	h.lock.Lock()
	defer h.lock.Unlock()
	_, err = h.writer.Write(line)
	return err
}

/*
dailyFileWriter 按天切分日志文件，文件名为 <dir>/<yyyy-mm-dd>.log
*/
type dailyFileWriter struct {
	lock sync.Mutex
	dir  string
	date string
	file *os.File
}

var (
	fileWritersLock sync.Mutex
	fileWriters     = make(map[string]*dailyFileWriter)
)

func sharedFileWriter(dir string) *dailyFileWriter {
	fileWritersLock.Lock()
	defer fileWritersLock.Unlock()

	w, ok := fileWriters[dir]
	if !ok {
		w = &dailyFileWriter{dir: dir}
		fileWriters[dir] = w
	}
	return w
}

func (w *dailyFileWriter) Write(p []byte) (int, error) {
	w.lock.Lock()
	defer w.lock.Unlock()

	today := time.Now().Format("2006-01-02")
	if w.file == nil || w.date != today {
		if w.file != nil {
			_ = w.file.Close()
			w.file = nil
		}

		if err := os.MkdirAll(w.dir, 0o755); err != nil {
			return 0, err
		}

		file, err := os.OpenFile(filepath.Join(w.dir, today+".log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return 0, err
		}
		w.file = file
		w.date = today
	}

	return w.file.Write(p)
}
