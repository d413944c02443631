// Package profile records per-Pass wall-clock timing as a pprof-format
// profile: ambient observability a Compiler opts into with
// compiler.WithPassProfiling, grounded directly on the teacher's own
// google/pprof dependency (cmd/compile's -cpuprofile/-memprofile flags).
package profile

import (
	"io"
	"sync"
	"time"

	"github.com/google/pprof/profile"

	"github.com/mstoodle/jb2go/compile"
)

// Recorder is a compile.PassProfiler that accumulates one pprof Sample per
// RecordPass call, tagged with the pass's name (as its Location/Function)
// and the StrategyID it ran under (as a Sample label). Write emits the
// accumulated samples as a standard pprof protobuf, consumable by any
// `go tool pprof`-compatible viewer.
type Recorder struct {
	mu   sync.Mutex
	prof *profile.Profile

	funcs  map[string]*profile.Function
	locs   map[string]*profile.Location
	nextID uint64

	started time.Time
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		prof: &profile.Profile{
			SampleType: []*profile.ValueType{{Type: "pass", Unit: "nanoseconds"}},
			PeriodType: &profile.ValueType{Type: "pass", Unit: "nanoseconds"},
			Period:     1,
		},
		funcs:   map[string]*profile.Function{},
		locs:    map[string]*profile.Location{},
		started: time.Now(),
	}
}

// RecordPass implements compile.PassProfiler.
func (r *Recorder) RecordPass(strategy compile.StrategyID, name string, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	loc := r.locationFor(name)
	r.prof.Sample = append(r.prof.Sample, &profile.Sample{
		Location: []*profile.Location{loc},
		Value:    []int64{d.Nanoseconds()},
		Label:    map[string][]string{"strategy": {strategy.String()}},
	})
}

func (r *Recorder) locationFor(name string) *profile.Location {
	if loc, ok := r.locs[name]; ok {
		return loc
	}
	r.nextID++
	fn := &profile.Function{ID: r.nextID, Name: name, SystemName: name}
	r.prof.Function = append(r.prof.Function, fn)

	r.nextID++
	loc := &profile.Location{ID: r.nextID, Line: []profile.Line{{Function: fn, Line: 1}}}
	r.prof.Location = append(r.prof.Location, loc)

	r.locs[name] = loc
	return loc
}

// Samples returns the number of RecordPass calls observed so far, for
// tests that want to assert on recording without decoding the protobuf.
func (r *Recorder) Samples() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.prof.Sample)
}

// Write finalizes TimeNanos/DurationNanos against the Recorder's creation
// time and emits the accumulated profile as a gzipped pprof protobuf.
func (r *Recorder) Write(w io.Writer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prof.TimeNanos = r.started.UnixNano()
	r.prof.DurationNanos = time.Since(r.started).Nanoseconds()
	return r.prof.Write(w)
}
