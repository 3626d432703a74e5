package presenter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-optimizer/internal/types"
)

func TestRegionFor(t *testing.T) {
	tests := []struct {
		name  string
		state types.PipelineState
		text  string
		want  Region
	}{
		{"idle", types.StateIdle, "", RegionIntake},
		{"awaiting intake", types.StateAwaitingIntake, "", RegionIntake},
		{"submitting", types.StateSubmitting, "", RegionInProgress},
		{"atomic pending", types.StateAtomicPending, "", RegionInProgress},
		{"streaming without text", types.StateStreamingInProgress, "", RegionInProgress},
		{"streaming with text", types.StateStreamingInProgress, `\documentclass`, RegionStreaming},
		{"succeeded", types.StateSucceeded, `\documentclass`, RegionComplete},
		{"failed", types.StateFailed, "", RegionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RegionFor(tt.state, tt.text))
		})
	}
}

func TestActionsEnabled(t *testing.T) {
	done := types.OptimizationResult{ArtifactText: "x", IsComplete: true}

	assert.True(t, ActionsEnabled(types.StateSucceeded, done))
	assert.False(t, ActionsEnabled(types.StateStreamingInProgress, types.OptimizationResult{ArtifactText: "x"}))
	assert.False(t, ActionsEnabled(types.StateFailed, types.OptimizationResult{}))
}
