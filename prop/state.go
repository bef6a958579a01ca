package prop

import "github.com/rwcarlsen/viewfind/target"

// State is one property's per-evaluation scratch.
type State struct {
	Evaluated    bool
	Satisfaction float64
	InScreen     float64
}

// EvalState carries all per-evaluation scratch for one camera evaluation:
// property memoization keyed by property index and projection scratch keyed
// by target index.  Keeping it out of the properties and targets themselves
// lets one problem be evaluated from several goroutines, each with its own
// state.
type EvalState struct {
	Props   []State
	Renders []target.RenderState
}

// NewEvalState sizes the scratch for a property list and target list.
func NewEvalState(nprops, ntargets int) *EvalState {
	st := &EvalState{
		Props:   make([]State, nprops),
		Renders: make([]target.RenderState, ntargets),
	}
	for i := range st.Renders {
		st.Renders[i] = target.NewRenderState()
	}
	return st
}

// Reset clears the evaluated and rendered flags before a new camera
// evaluation.  Buffers are retained.
func (st *EvalState) Reset() {
	for i := range st.Props {
		st.Props[i] = State{}
	}
	for i := range st.Renders {
		st.Renders[i].Reset()
	}
}
