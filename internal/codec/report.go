package codec

import (
	"log/slog"

	"github.com/roach88/precreuse/internal/ir"
)

// Drop is one entry or value left out of a serialization or parse.
type Drop struct {
	Value  string
	Reason string
}

// Report collects the drops of one Serialize or Parse call.
type Report struct {
	Dropped []Drop
}

// Len returns the number of drops.
func (r Report) Len() int {
	return len(r.Dropped)
}

// Recorder logs drops at WARN and accumulates them into a Report. Codecs
// call Reset at the start of every operation.
type Recorder struct {
	logger *slog.Logger
	format Format
	kind   ir.Kind
	report Report
}

// NewRecorder returns a recorder logging to logger, or slog.Default() when
// logger is nil.
func NewRecorder(logger *slog.Logger, format Format, kind ir.Kind) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{logger: logger, format: format, kind: kind}
}

// Reset starts a new report.
func (r *Recorder) Reset() {
	r.report = Report{}
}

// Drop records that value was skipped because of err.
func (r *Recorder) Drop(op, value string, err error) {
	r.logger.Warn("precision entry skipped",
		"op", op,
		"format", string(r.format),
		"kind", string(r.kind),
		"value", value,
		"error", err)
	r.report.Dropped = append(r.report.Dropped, Drop{Value: value, Reason: err.Error()})
}

// Report returns a copy of the current report.
func (r *Recorder) Report() Report {
	return Report{Dropped: append([]Drop(nil), r.report.Dropped...)}
}

// Logger returns the recorder's logger.
func (r *Recorder) Logger() *slog.Logger {
	return r.logger
}
