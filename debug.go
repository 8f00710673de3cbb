package u2f

import "github.com/sirupsen/logrus"

// Tracer is the diagnostic-logging seam. It never influences control flow;
// it only decides what gets logged when a caller opts in.
type Tracer interface {
	Debugf(format string, args ...interface{})
	DumpFrame(label string, frame []byte)
}

// NoopTracer discards everything. It is the Tracer New installs by default.
type NoopTracer struct{}

// Debugf implements Tracer.
func (NoopTracer) Debugf(format string, args ...interface{}) {}

// DumpFrame implements Tracer.
func (NoopTracer) DumpFrame(label string, frame []byte) {}

// logrusTracer renders diagnostics as logrus debug-level entries.
type logrusTracer struct {
	log *logrus.Logger
}

// NewLogrusTracer builds a Tracer backed by a *logrus.Logger. Pass a logger
// with its level set to logrus.DebugLevel or logrus.TraceLevel to actually
// see output.
func NewLogrusTracer(log *logrus.Logger) Tracer {
	if log == nil {
		log = logrus.New()
	}
	return &logrusTracer{log: log}
}

func (t *logrusTracer) Debugf(format string, args ...interface{}) {
	t.log.Debugf(format, args...)
}

func (t *logrusTracer) DumpFrame(label string, frame []byte) {
	t.log.WithFields(logrus.Fields{
		"label": label,
		"bytes": len(frame),
	}).Debug("\n" + HexDump(frame))
}
