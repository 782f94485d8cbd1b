package processor

import (
	"creatorlink/internal/store"
	"errors"
)

var ErrInvalidTransition = errors.New("invalid phase transition")

// transitionKey identifies one edge of the phase state machine.
type transitionKey struct {
	phase string
	from  string
	to    string
}

// allowedTransitions is the explicit edge set of the phase state machine.
// Any (phase, from, to) not listed is invalid. Self-transitions make repeat
// calls idempotent.
var allowedTransitions = map[transitionKey]bool{
	{store.PhaseContentRequirement, store.PhaseStatusNotStarted, store.PhaseStatusInProgress}: true,
	{store.PhaseContentRequirement, store.PhaseStatusInProgress, store.PhaseStatusInProgress}: true,
	{store.PhaseContentRequirement, store.PhaseStatusInProgress, store.PhaseStatusCompleted}:  true,

	{store.PhaseContentReview, store.PhaseStatusNotStarted, store.PhaseStatusInProgress}: true,
	{store.PhaseContentReview, store.PhaseStatusInProgress, store.PhaseStatusInProgress}: true,
	{store.PhaseContentReview, store.PhaseStatusInProgress, store.PhaseStatusCompleted}:  true,

	{store.PhasePublishAnalytics, store.PhaseStatusNotStarted, store.PhaseStatusInProgress}: true,
	{store.PhasePublishAnalytics, store.PhaseStatusInProgress, store.PhaseStatusInProgress}: true,
	{store.PhasePublishAnalytics, store.PhaseStatusInProgress, store.PhaseStatusCompleted}:  true,
}

// phasePredecessor maps each phase to the phase that must be completed
// before it can leave not_started. content_requirement has none.
var phasePredecessor = map[string]string{
	store.PhaseContentReview:    store.PhaseContentRequirement,
	store.PhasePublishAnalytics: store.PhaseContentReview,
}

// canTransition reports whether a phase may move between the two statuses.
func canTransition(phase, from, to string) bool {
	return allowedTransitions[transitionKey{phase: phase, from: from, to: to}]
}

// guardTransition validates one edge against the current set of phase rows.
// The ordering rule is checked here: a phase cannot start until its
// predecessor has completed.
func guardTransition(states []store.WorkflowState, phase, to string) error {
	byPhase := make(map[string]store.WorkflowState, len(states))
	for _, st := range states {
		byPhase[st.Phase] = st
	}

	current, ok := byPhase[phase]
	if !ok {
		return ErrInvalidTransition
	}
	if !canTransition(phase, current.Status, to) {
		return ErrInvalidTransition
	}

	if pred, ok := phasePredecessor[phase]; ok {
		predState, found := byPhase[pred]
		predCompleted := found && predState.Status == store.PhaseStatusCompleted

		// A phase cannot complete, or leave not_started, until its
		// predecessor has completed.
		entering := to == store.PhaseStatusInProgress && current.Status == store.PhaseStatusNotStarted
		if (to == store.PhaseStatusCompleted || entering) && !predCompleted {
			return ErrInvalidTransition
		}
	}
	return nil
}
