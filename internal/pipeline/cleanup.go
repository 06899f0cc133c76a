package pipeline

import (
	"fmt"
	"os"
)

// Cleanup removes every local artifact of the run and closes the run log.
// It runs at most once per pipeline; repeat calls and already-clean state
// are no-ops. Removal is best effort across all paths, returning the first
// failure after trying every path.
func (p *Pipeline) Cleanup() error {
	if p.cleaned {
		return nil
	}
	p.cleaned = true
	p.enter(StageCleanup)

	firstErr := p.log.Close()
	for _, path := range p.run.ScratchPaths(p.builder.Extension()) {
		if err := os.RemoveAll(path); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("remove %s: %w", path, err)
		}
	}
	if firstErr != nil {
		return firstErr
	}

	p.log.Info("Cleaned up all local temporary resources.")
	return nil
}
