package utils

import "io"

type flushableWriter interface {
	Flush() error
}

type flushingWriter struct {
	target io.Writer
}

// NewFlushingWriter wraps the provided writer so every write is flushed
// immediately when the target supports flushing. Writers without a Flush
// method are returned unchanged.
func NewFlushingWriter(target io.Writer) io.Writer {
	if target == nil {
		return nil
	}
	if _, supportsFlush := target.(flushableWriter); !supportsFlush {
		return target
	}
	return flushingWriter{target: target}
}

// Write forwards the payload and flushes the target.
func (writer flushingWriter) Write(payload []byte) (int, error) {
	writtenBytes, writeError := writer.target.Write(payload)
	if writeError != nil {
		return writtenBytes, writeError
	}
	if flushError := writer.target.(flushableWriter).Flush(); flushError != nil {
		return writtenBytes, flushError
	}
	return writtenBytes, nil
}
