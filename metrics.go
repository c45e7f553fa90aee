// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package placer

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// flusher is implemented by streams that buffer writes and need an
// explicit flush at end-of-scope. Streams that don't buffer (e.g. a plain
// *os.File or bytes.Buffer) simply don't implement it, and are treated as
// already flushed.
type flusher interface {
	Flush() error
}

// MetricSink is a write-only pair of observation streams: IterStream
// receives one "<prev_bbox>\n" line per iterative-placer step, and
// SnapshotStream receives one formatted placement block per recorded step.
// Either field may be left nil to disable that stream.
type MetricSink struct {
	IterStream     io.Writer
	SnapshotStream io.Writer
}

func (m *MetricSink) writeIter(prevBbox int64) error {
	if m == nil || m.IterStream == nil {
		return nil
	}
	_, err := fmt.Fprintf(m.IterStream, "%d\n", prevBbox)
	if err != nil {
		return errors.Wrap(ErrIOFailure, err.Error())
	}
	return nil
}

// snapshotWriter is implemented by Chip and Plan: both can format their
// current placement as a body of "(<x>,<y>)\n" lines, integer for Chip and
// floating-point for Plan.
type snapshotWriter interface {
	writeSnapshot(w io.Writer) error
}

func (m *MetricSink) writeSnapshot(step, width, height int, pl snapshotWriter) error {
	if m == nil || m.SnapshotStream == nil {
		return nil
	}
	if _, err := fmt.Fprintf(m.SnapshotStream, "ss %d (%d,%d):\n", step, width, height); err != nil {
		return errors.Wrap(ErrIOFailure, err.Error())
	}
	if err := pl.writeSnapshot(m.SnapshotStream); err != nil {
		return errors.Wrap(ErrIOFailure, err.Error())
	}
	return nil
}

// Flush flushes both streams, if they implement flusher, returning
// ErrIOFailure on the first failure encountered.
func (m *MetricSink) Flush() error {
	if m == nil {
		return nil
	}
	for _, s := range []io.Writer{m.IterStream, m.SnapshotStream} {
		if f, ok := s.(flusher); ok {
			if err := f.Flush(); err != nil {
				return errors.Wrap(ErrIOFailure, err.Error())
			}
		}
	}
	return nil
}
