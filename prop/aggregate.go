package prop

import "github.com/rwcarlsen/viewfind/scene"

// NewAggregate builds the objective: a weighted sum of children with the
// weights normalized to sum to 1.  Children are evaluated in the order
// given; callers should order them cheapest first (see OrderByCost) so the
// lazy bound cuts expensive evaluations as early as possible.
func NewAggregate(name string, children []*Property, weights []float64) *Property {
	if len(children) != len(weights) {
		panic("prop: children and weights must be the same length")
	}
	total := 0.0
	for _, w := range weights {
		total += w
	}
	norm := make([]float64, len(weights))
	for i, w := range weights {
		norm[i] = w / total
	}
	return &Property{
		Name:     name,
		Kind:     KindAggregate,
		Children: children,
		Weights:  norm,
	}
}

// evalAggregate accumulates the weighted sum child by child.  After each
// child the best the sum can still reach is acc plus the weight not yet
// spent; once that upper bound drops below the lazy threshold the final
// value cannot beat the incumbent and the evaluation returns Pruned (-1).
func (p *Property) evalAggregate(cam *scene.Camera, st *EvalState, lazy float64) float64 {
	acc := 0.0
	remaining := 1.0
	inScreen := 1.0

	for i, child := range p.Children {
		w := p.Weights[i]
		s := child.Evaluate(cam, st, lazy)
		acc += w * s
		remaining -= w
		inScreen *= st.Props[child.Index].InScreen

		if acc+remaining < lazy {
			ps := &st.Props[p.Index]
			ps.Evaluated = true
			ps.Satisfaction = pruned
			ps.InScreen = inScreen
			return pruned
		}
	}

	ps := &st.Props[p.Index]
	ps.Evaluated = true
	ps.Satisfaction = acc
	ps.InScreen = inScreen
	return acc
}

const pruned = -1.0
