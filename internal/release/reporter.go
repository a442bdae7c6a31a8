package release

import (
	"github.com/joescharf/shipit/internal/output"
	"github.com/joescharf/shipit/internal/pipeline"
)

// GateReporter streams gate progress to the UI while the pipeline runs.
type GateReporter struct {
	UI *output.UI
}

func (r GateReporter) GateStart(name string) {
	r.UI.Info("Running gate: %s", output.Cyan(name))
}

func (r GateReporter) GateDone(res pipeline.Result) {
	if res.Passed {
		r.UI.Success("%s passed", res.Gate)
		return
	}
	r.UI.Error("%s failed (exit %d)", res.Gate, res.ExitCode)
}
