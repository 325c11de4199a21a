package logger

import (
	"sync"
	"time"

	"go.uber.org/zap/zapcore"
)

// LogEntry is one captured log line.
type LogEntry struct {
	Timestamp time.Time
	Level     string
	Logger    string
	Message   string
	Fields    map[string]interface{}
}

// Buffer is a thread-safe ring of the most recent log entries, shown by the
// dashboard instead of writing to a terminal it owns.
type Buffer struct {
	mu           sync.Mutex
	ring         []LogEntry
	maxSize      int
	next         int
	wrapped      bool
	totalEntries uint64
}

// NewBuffer keeps the last maxSize entries.
func NewBuffer(maxSize int) *Buffer {
	if maxSize <= 0 {
		maxSize = 100
	}
	return &Buffer{
		ring:    make([]LogEntry, maxSize),
		maxSize: maxSize,
	}
}

// Add stores an entry, overwriting the oldest once full.
func (b *Buffer) Add(entry LogEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.ring[b.next] = entry
	b.next = (b.next + 1) % b.maxSize
	if b.next == 0 {
		b.wrapped = true
	}
	b.totalEntries++
}

// Recent returns up to limit entries, oldest first. limit <= 0 returns all.
func (b *Buffer) Recent(limit int) []LogEntry {
	b.mu.Lock()
	defer b.mu.Unlock()

	count := b.next
	start := 0
	if b.wrapped {
		count = b.maxSize
		start = b.next
	}
	if limit > 0 && limit < count {
		start += count - limit
		count = limit
	}

	logs := make([]LogEntry, 0, count)
	for i := 0; i < count; i++ {
		logs = append(logs, b.ring[(start+i)%b.maxSize])
	}
	return logs
}

// Total is the number of entries ever added.
func (b *Buffer) Total() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.totalEntries
}

// bufferCore is a zapcore.Core writing into a Buffer.
type bufferCore struct {
	zapcore.LevelEnabler
	buf    *Buffer
	fields []zapcore.Field
}

// NewBufferCore returns a core that captures entries at or above level.
func NewBufferCore(buf *Buffer, level zapcore.LevelEnabler) zapcore.Core {
	return &bufferCore{LevelEnabler: level, buf: buf}
}

func (c *bufferCore) With(fields []zapcore.Field) zapcore.Core {
	merged := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	merged = append(merged, c.fields...)
	merged = append(merged, fields...)
	return &bufferCore{LevelEnabler: c.LevelEnabler, buf: c.buf, fields: merged}
}

func (c *bufferCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

func (c *bufferCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range c.fields {
		f.AddTo(enc)
	}
	for _, f := range fields {
		f.AddTo(enc)
	}

	c.buf.Add(LogEntry{
		Timestamp: entry.Time,
		Level:     entry.Level.CapitalString(),
		Logger:    entry.LoggerName,
		Message:   entry.Message,
		Fields:    enc.Fields,
	})
	return nil
}

func (c *bufferCore) Sync() error { return nil }
