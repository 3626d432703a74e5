package presenter

import "github.com/jonathan/resume-optimizer/internal/types"

// Region is the presentation area that should be visible for a snapshot.
type Region string

// Presentation regions
const (
	// RegionIntake shows the document and job description inputs
	RegionIntake Region = "intake"
	// RegionInProgress shows a loading indicator while no text has arrived
	RegionInProgress Region = "in_progress"
	// RegionStreaming shows the partial artifact as it grows
	RegionStreaming Region = "streaming"
	// RegionComplete shows the finished artifact with copy and download actions
	RegionComplete Region = "complete"
	// RegionFailed shows the failure reason and the retry action
	RegionFailed Region = "failed"
)

// RegionFor selects the region for a pipeline state and the current artifact text.
func RegionFor(state types.PipelineState, text string) Region {
	switch state {
	case types.StateSubmitting, types.StateAtomicPending:
		return RegionInProgress
	case types.StateStreamingInProgress:
		if text == "" {
			return RegionInProgress
		}
		return RegionStreaming
	case types.StateSucceeded:
		return RegionComplete
	case types.StateFailed:
		return RegionFailed
	default:
		return RegionIntake
	}
}

// ActionsEnabled reports whether copy and download are offered for a snapshot.
func ActionsEnabled(state types.PipelineState, result types.OptimizationResult) bool {
	return state == types.StateSucceeded && result.IsComplete && result.ArtifactText != ""
}
