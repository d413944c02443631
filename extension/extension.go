// Package extension implements the versioned plug-in substrate:
// Extensions register ActionIDs, checkers and CompilerReturnCodes
// against a Host, and are notified of every other Extension
// loaded into the same Compiler so they can bind against one another at
// load time.
package extension

import (
	"fmt"

	"github.com/mstoodle/jb2go/internal/errs"
	"github.com/mstoodle/jb2go/ir"
	"github.com/mstoodle/jb2go/kind"
	"golang.org/x/mod/semver"
)

// KindExtension roots every concrete Extension in the process-wide kind
// tree.
var KindExtension = kind.Register("extension.Extension", kind.None)

// Extension is a versioned plug-in loaded into one Compiler.
// Version must return a semver string ("vMAJOR.MINOR.PATCH", per
// golang.org/x/mod/semver's expected format) the Host uses to enforce
// compatible-version loading.
type Extension interface {
	kind.Kinded
	// Name is the Extension's stable identity, used to match a reload
	// against the earlier load of the same Name for the version check, and
	// in diagnostics.
	Name() string
	// Version returns this Extension's semver string.
	Version() string
	// Init runs once, immediately after the Extension is registered with
	// its Host, before any other Extension is notified of it. It is where
	// an Extension registers its ActionIDs, checkers and CompilerReturnCodes.
	Init(h *Host) error
	// NotifyNewExtension is called once for every other Extension already
	// loaded (in load order) when this Extension loads, and once on every
	// later-loaded Extension thereafter, so extensions can bind against
	// one another at load time. Extensions that don't care about their
	// peers can embed NopNotifier.
	NotifyNewExtension(other Extension) error
}

// NopNotifier implements Extension.NotifyNewExtension as a no-op, for
// Extensions that never need to bind against their peers.
type NopNotifier struct{}

func (NopNotifier) NotifyNewExtension(other Extension) error { return nil }

// Host is the per-Compiler registry an Extension's Init method populates
// and later Operation constructors read from: it owns the IR-scoped
// ActionRegistry/CheckerRegistry (shared with every IR the Compiler
// creates) and the Compiler-scoped CompilerReturnCode registry.
type Host struct {
	compilerName string
	actions      *ir.ActionRegistry
	checkers     *ir.CheckerRegistry
	codes        *errs.Registry

	loaded     []Extension
	loadedByID map[string]Extension
}

// NewHost creates an empty Host for one Compiler.
func NewHost(compilerName string) *Host {
	return &Host{
		compilerName: compilerName,
		actions:      ir.NewActionRegistry(),
		checkers:     ir.NewCheckerRegistry(),
		codes:        errs.NewRegistry(),
		loadedByID:   map[string]Extension{},
	}
}

// Actions returns the ActionRegistry shared by every IR this Host's
// Compiler creates.
func (h *Host) Actions() *ir.ActionRegistry { return h.actions }

// Checkers returns the CheckerRegistry shared by every IR this Host's
// Compiler creates.
func (h *Host) Checkers() *ir.CheckerRegistry { return h.checkers }

// RegisterReturnCode assigns a new CompilerReturnCode under name.
func (h *Host) RegisterReturnCode(name string) errs.ReturnCode { return h.codes.Register(name) }

// ReturnCodeName returns code's registered name.
func (h *Host) ReturnCodeName(code errs.ReturnCode) string { return h.codes.Name(code) }

// Loaded returns every Extension loaded so far, in load order.
func (h *Host) Loaded() []Extension { return append([]Extension(nil), h.loaded...) }

// Load registers ext with this Host: it runs ext.Init,
// notifies every already-loaded Extension of ext, and notifies ext of
// every already-loaded Extension in their original load order. A Name
// that is already loaded is accepted again when its Version is compatible
// with the most recent load of that Name (same major version, not older);
// an incompatible Version is rejected.
func (h *Host) Load(loc ir.Location, ext Extension) error {
	if !kind.Is(ext, KindExtension) {
		return errs.New(errs.CompileFailed, "CompileFailed", loc.String(),
			fmt.Sprintf("extension %q does not refine extension.Extension's kind", ext.Name()))
	}
	if !semver.IsValid(ext.Version()) {
		return errs.New(errs.CompileFailed, "CompileFailed", loc.String(),
			fmt.Sprintf("extension %q has an invalid semver version %q", ext.Name(), ext.Version()))
	}
	if prior, ok := h.loadedByID[ext.Name()]; ok {
		if err := checkCompatible(prior.Version(), ext.Version()); err != nil {
			return errs.New(errs.CompileFailed, "CompileFailed", loc.String(),
				fmt.Sprintf("extension %q: %v", ext.Name(), err))
		}
	}

	if err := ext.Init(h); err != nil {
		return err
	}
	for _, prior := range h.loaded {
		if err := prior.NotifyNewExtension(ext); err != nil {
			return err
		}
	}
	for _, prior := range h.loaded {
		if err := ext.NotifyNewExtension(prior); err != nil {
			return err
		}
	}
	h.loaded = append(h.loaded, ext)
	h.loadedByID[ext.Name()] = ext
	return nil
}

// checkCompatible enforces a compatible-major, sufficient-minor/patch
// rule: a reload of the same-named Extension must carry the
// same major version, and must not be older (by minor.patch) than a
// version already loaded.
func checkCompatible(loaded, incoming string) error {
	if semver.Major(loaded) != semver.Major(incoming) {
		return fmt.Errorf("incompatible major version: loaded %s, got %s", loaded, incoming)
	}
	if semver.Compare(incoming, loaded) < 0 {
		return fmt.Errorf("version regression: loaded %s, got older %s", loaded, incoming)
	}
	return nil
}
