// Package swarm implements the particle-swarm viewpoint solver: a
// global-best PSO over the problem domain, seeded partly by property-aware
// smart samples and bounded by a wall-clock budget.
package swarm

import (
	"database/sql"
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/rwcarlsen/viewfind"
	"github.com/rwcarlsen/viewfind/pop"
)

// These params are calculated using a constriction factor originally
// described in:
//
//	Clerc and M.  "The swarm and the queen: towards a deterministic and
//	adaptive particle swarm optimization" Proc. 1999 Congress on
//	Evolutionary Computation, pp. 1951-1957
//
// The cognition and social parameters correspond to c1 and c2 values of
// 2.05 that have been multiplied by their constriction coefficient.
const (
	DefaultCognition = 1.496179765663133
	DefaultSocial    = 1.496179765663133
)

// Default linear-inertia endpoints; common values from:
//
//	Eberhart, R.C.; Yuhui Shi, "Particle swarm optimization: developments,
//	applications and resources," Evolutionary Computation, 2001.
//	Proceedings of the 2001 Congress on, vol.1, pp.81-86, 2001.
const (
	DefaultInertiaMax = 0.9
	DefaultInertiaMin = 0.4
)

const (
	DefaultNCandidates    = 60
	DefaultRandomFraction = 0.5
	// MaxCandidates bounds the swarm size.
	MaxCandidates = 300
	// MaxIter is the hard iteration cap per solve call.
	MaxIter = 3000
)

// Exit conditions reported in Solver.ExitCond after a solve.
const (
	ExitTime      = 0
	ExitSatisfied = 1
	ExitContinue  = 2
)

const (
	// TblParticles is the sql table holding each candidate's position and
	// value per iteration.
	TblParticles = "swarmparticles"
	// TblBest is the sql table holding the global best per iteration.
	TblBest = "swarmbest"
)

// Evaluator is the problem the solver optimizes; satisfied by
// *viewfind.Evaluator.
type Evaluator interface {
	Dim() int
	Bounds() (low, up []float64)
	Domain() viewfind.Domain
	NumTargets() int
	NumProps() int
	SetCheckGeometry(on bool)
	Update(params []float64)
	Evaluate(lazy float64) float64
	InDomain(params []float64) bool
	RandViewpoint(out []float64)
	SmartViewpoint(out []float64, ti int) bool
	Snapshot(params []float64) viewfind.Viewpoint
}

// Candidate is one swarm particle.
type Candidate struct {
	ID      int
	Pos     []float64
	Vel     []float64
	BestPos []float64
	// Val is the most recent evaluation: a satisfaction in [0,1],
	// viewfind.Pruned, or viewfind.OutOfDomain.
	Val float64
	// BestVal is the best non-pruned evaluation ever returned for BestPos,
	// or -1 before the first valid evaluation.
	BestVal          float64
	InDomain         bool
	TimesOutOfDomain int
	Leader           int
	BestIter         int
}

// Move applies the velocity update toward the candidate's personal best and
// gbest, clamping each velocity component to the dimension range.  The
// random factors r1 and r2 must be drawn per dimension.
func (c *Candidate) Move(gbest, ranges []float64, inertia, cognition, social float64, rng *rand.Rand) {
	for j := range c.Vel {
		r1 := rng.Float64()
		r2 := rng.Float64()
		c.Vel[j] = inertia*c.Vel[j] +
			cognition*r1*(c.BestPos[j]-c.Pos[j]) +
			social*r2*(gbest[j]-c.Pos[j])
		if math.Abs(c.Vel[j]) > ranges[j] {
			c.Vel[j] = math.Copysign(ranges[j], c.Vel[j])
		}
		c.Pos[j] += c.Vel[j]
	}
}

type Option func(*Solver)

// NCandidates sets the swarm size, clamped to [1, MaxCandidates].
func NCandidates(n int) Option {
	return func(s *Solver) {
		if n < 1 {
			n = 1
		} else if n > MaxCandidates {
			n = MaxCandidates
		}
		s.N = n
	}
}

// RandomFraction sets the fraction of the swarm seeded uniformly; the rest
// is seeded from the targets' smart distributions.
func RandomFraction(r float64) Option {
	return func(s *Solver) { s.RandomFrac = math.Max(0, math.Min(1, r)) }
}

// LearnFactors sets the cognition and social coefficients.
func LearnFactors(cognition, social float64) Option {
	return func(s *Solver) {
		s.Cognition = cognition
		s.Social = social
	}
}

// LinInertia sets the endpoints of the linearly decreasing inertia
// schedule.  The weight falls from start to end over the first 85% of the
// time budget and holds at end thereafter.
func LinInertia(start, end float64) Option {
	return func(s *Solver) {
		s.InertiaMax = start
		s.InertiaMin = end
	}
}

// DB enables per-iteration logging of candidate and best positions to the
// given database.
func DB(db *sql.DB) Option {
	return func(s *Solver) { s.Db = db }
}

// Seed makes the solver's randomness reproducible.
func Seed(seed int64) Option {
	return func(s *Solver) { s.rng = rand.New(rand.NewSource(seed)) }
}

// Solver is a particle swarm over viewpoint parameters.  Candidates are
// allocated once and reused across iterations and across successive Solve
// calls; a warm start (init = false) continues from the current swarm
// state.
type Solver struct {
	Cands      []*Candidate
	N          int
	RandomFrac float64
	Cognition  float64
	Social     float64
	InertiaMax float64
	InertiaMin float64
	Db         *sql.DB

	// Iter is the iteration count of the most recent Solve call;
	// IterOfBest the iteration the global best was last improved.
	Iter       int
	IterOfBest int
	BestIdx    int
	BestVal    float64
	Best       viewfind.Viewpoint
	// History holds a snapshot of every global-best promotion, oldest
	// first.
	History []viewfind.Viewpoint
	// ExitCond reports why the last solve stopped: ExitTime or
	// ExitSatisfied.
	ExitCond int
	// SteadyParticles is set when every velocity component fell below
	// 0.1% of its dimension range for a full iteration.
	SteadyParticles bool
	Elapsed         time.Duration

	ev     Evaluator
	rng    *rand.Rand
	ranges []float64
}

func New(opts ...Option) *Solver {
	s := &Solver{
		N:          DefaultNCandidates,
		RandomFrac: DefaultRandomFraction,
		Cognition:  DefaultCognition,
		Social:     DefaultSocial,
		InertiaMax: DefaultInertiaMax,
		InertiaMin: DefaultInertiaMin,
		BestVal:    -1,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Solve searches the domain for up to limit, returning the best viewpoint
// found, or the no-solution sentinel when nothing valid was evaluated in
// time.  seeds are copied into the first swarm slots.  With init false the
// current swarm, personal bests, and global best carry over and the search
// continues where the previous call stopped.
func (s *Solver) Solve(ev Evaluator, limit time.Duration, satThresh float64, seeds [][]float64, checkGeometry, init bool) viewfind.Viewpoint {
	t0 := time.Now()
	s.ev = ev
	ev.SetCheckGeometry(checkGeometry)

	low, up := ev.Bounds()
	if len(s.ranges) != len(low) {
		s.ranges = make([]float64, len(low))
	}
	floats.SubTo(s.ranges, up, low)

	if init || s.Cands == nil || len(s.Cands) != s.N || len(s.Cands[0].Pos) != ev.Dim() {
		s.initialize(ev, seeds, checkGeometry)
	}
	s.Iter = 0
	s.ExitCond = ExitContinue
	s.initdb()

	for s.Iter < MaxIter {
		s.Iter++
		w := s.inertia(time.Since(t0), limit)
		steady := true

		for i, c := range s.Cands {
			if s.Iter > 1 {
				c.Move(s.Cands[s.BestIdx].BestPos, s.ranges, w, s.Cognition, s.Social, s.rng)
			}
			for j, v := range c.Vel {
				if math.Abs(v) > 0.001*s.ranges[j] {
					steady = false
				}
			}

			if !ev.InDomain(c.Pos) {
				c.InDomain = false
				c.TimesOutOfDomain++
				c.Val = viewfind.OutOfDomain
			} else {
				c.InDomain = true
				ev.Update(c.Pos)
				val := ev.Evaluate(c.BestVal)
				c.Val = val
				if val > c.BestVal {
					c.BestVal = val
					copy(c.BestPos, c.Pos)
					c.BestIter = s.Iter
				}
				if val > s.BestVal || (val == s.BestVal && i == s.BestIdx) {
					s.BestVal = val
					s.BestIdx = i
					s.IterOfBest = s.Iter
					s.Best = ev.Snapshot(c.Pos)
					s.History = append(s.History, s.Best)
				}
			}

			// cooperative cancellation: the only time check is here,
			// between candidate evaluations
			s.Elapsed = time.Since(t0)
			if s.Elapsed >= limit {
				s.ExitCond = ExitTime
				s.updateDb()
				return s.result()
			}
		}

		for _, c := range s.Cands {
			c.Leader = s.BestIdx
		}
		s.SteadyParticles = steady
		s.updateDb()

		if s.BestVal >= satThresh {
			s.ExitCond = ExitSatisfied
			return s.result()
		}
	}
	s.ExitCond = ExitTime
	return s.result()
}

func (s *Solver) result() viewfind.Viewpoint {
	if s.BestVal < 0 {
		return viewfind.NoSolution(s.ev.NumProps())
	}
	return s.Best
}

// inertia is the linearly decreasing weight schedule: the full decay is
// spent over the first 85% of the budget.
func (s *Solver) inertia(elapsed, limit time.Duration) float64 {
	if limit <= 0 {
		return s.InertiaMin
	}
	frac := float64(elapsed) / (0.85 * float64(limit))
	w := s.InertiaMax - frac*(s.InertiaMax-s.InertiaMin)
	return math.Max(w, s.InertiaMin)
}

// initialize fills the swarm: external seeds first, then uniform samples up
// to the random fraction, then smart samples spread round-robin across the
// targets.
func (s *Solver) initialize(ev Evaluator, seeds [][]float64, checkGeometry bool) {
	dim := ev.Dim()
	if s.Cands == nil || len(s.Cands) != s.N || len(s.Cands[0].Pos) != dim {
		s.Cands = make([]*Candidate, s.N)
		for i := range s.Cands {
			s.Cands[i] = &Candidate{
				ID:      i,
				Pos:     make([]float64, dim),
				Vel:     make([]float64, dim),
				BestPos: make([]float64, dim),
			}
		}
	}

	k := len(seeds)
	if k > s.N {
		k = s.N
	}
	for i := 0; i < k; i++ {
		copy(s.Cands[i].Pos, seeds[i])
	}

	nrand := int(float64(s.N) * s.RandomFrac)
	if nrand < k {
		nrand = k
	}
	if n := nrand - k; n > 0 {
		var pts [][]float64
		if checkGeometry {
			pts, _, _ = pop.NewClear(n, 50*n, ev.Domain())
		} else {
			low, up := ev.Bounds()
			pts = pop.New(n, low, up)
		}
		for i, p := range pts {
			copy(s.Cands[k+i].Pos, p)
		}
	}

	ntarg := ev.NumTargets()
	for i := nrand; i < s.N; i++ {
		ti := -1
		if ntarg > 0 {
			ti = (i - nrand) % ntarg
		}
		ev.SmartViewpoint(s.Cands[i].Pos, ti)
	}

	for _, c := range s.Cands {
		for j := range c.Vel {
			c.Vel[j] = 0
		}
		copy(c.BestPos, c.Pos)
		c.BestVal = -1
		c.Val = -1
		c.Leader = 0
		c.BestIter = 0
		c.TimesOutOfDomain = 0
		c.InDomain = true
	}

	s.BestVal = -1
	s.BestIdx = 0
	s.IterOfBest = 0
	s.Best = viewfind.Viewpoint{}
	s.History = s.History[:0]
	s.SteadyParticles = false
}
