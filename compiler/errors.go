package compiler

import "errors"

var errProfilingNotEnabled = errors.New("compiler: pass profiling was not enabled (use WithPassProfiling)")
