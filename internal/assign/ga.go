package assign

import (
	"math/rand"

	"github.com/dronefleet/droneplan/internal/geometry"
	"github.com/dronefleet/droneplan/internal/world"
)

// Individual is one chromosome: a fixed-length sequence of drone ids, one
// gene per delivery, indexed in world order. Re-architected from the
// Python source's runtime-synthesized DEAP `creator.Individual` class (see
// DESIGN NOTES §9 "GA metaprogramming") into a plain struct.
type Individual struct {
	Genes   []world.DroneID
	Fitness float64
	// evaluated tracks whether Fitness reflects Genes' current contents,
	// mirroring DEAP's invalid-fitness bookkeeping (only re-evaluate
	// individuals touched by crossover/mutation).
	evaluated bool
}

func (ind *Individual) clone() *Individual {
	genes := make([]world.DroneID, len(ind.Genes))
	copy(genes, ind.Genes)
	return &Individual{Genes: genes, Fitness: ind.Fitness, evaluated: ind.evaluated}
}

// Toolbox holds the GA's operators as ordinary function values, replacing
// the Python source's `base.Toolbox.register` indirection.
type Toolbox struct {
	Select   func(pop []*Individual, rnd *rand.Rand) *Individual
	Mate     func(a, b *Individual, rnd *rand.Rand)
	Mutate   func(ind *Individual, rnd *rand.Rand)
	Evaluate func(ind *Individual) float64
}

// GAOptions configures a GASolver. Zero values fall back to the spec's
// defaults.
type GAOptions struct {
	PopulationSize  int     // default 100
	Generations     int     // default 50
	CrossoverProb   float64 // default 0.7
	MutationProb    float64 // default 0.2 (per-individual)
	GeneShuffleProb float64 // default 0.1 (per-gene, within a mutated individual)
	TournamentSize  int     // default 3

	// ParityLookupBug reproduces the Python source's fitness bug (open
	// question 1 of DESIGN NOTES §9): step 1 of fitness evaluation looks
	// up the capacity-checked drone positionally (drones[deliveryIndex])
	// rather than by the gene's assigned drone id. Default false performs
	// the corrected lookup (drones_by_id[gene]).
	ParityLookupBug bool

	Toolbox *Toolbox // override point; nil uses the default GA toolbox
}

func (o GAOptions) withDefaults() GAOptions {
	if o.PopulationSize <= 0 {
		o.PopulationSize = 100
	}
	if o.Generations <= 0 {
		o.Generations = 50
	}
	if o.CrossoverProb == 0 {
		o.CrossoverProb = 0.7
	}
	if o.MutationProb == 0 {
		o.MutationProb = 0.2
	}
	if o.GeneShuffleProb == 0 {
		o.GeneShuffleProb = 0.1
	}
	if o.TournamentSize <= 0 {
		o.TournamentSize = 3
	}
	return o
}

// GASolver approximately solves delivery-to-drone assignment with a
// population-based genetic algorithm: tournament selection, two-point
// crossover, shuffle-index mutation, and a deterministic forward-simulation
// fitness function.
type GASolver struct {
	Deliveries []*world.Delivery
	Drones     []*world.Drone
	Zones      []*world.NoFlyZone
	Options    GAOptions
	Rand       *rand.Rand // required: GA is deterministic given a fixed seed
}

// NewGASolver creates a solver over the given snapshot. rnd must be
// supplied by the caller so runs are reproducible given a fixed seed, per
// §5 ("the GA solver is deterministic given a fixed seed; tests supply an
// explicit seed").
func NewGASolver(deliveries []*world.Delivery, drones []*world.Drone, zones []*world.NoFlyZone, opts GAOptions, rnd *rand.Rand) *GASolver {
	return &GASolver{Deliveries: deliveries, Drones: drones, Zones: zones, Options: opts.withDefaults(), Rand: rnd}
}

func (s *GASolver) droneIDs() []world.DroneID {
	ids := make([]world.DroneID, len(s.Drones))
	for i, d := range s.Drones {
		ids[i] = d.ID
	}
	return ids
}

func (s *GASolver) toolbox() *Toolbox {
	if s.Options.Toolbox != nil {
		return s.Options.Toolbox
	}
	return &Toolbox{
		Select:   tournamentSelect(s.Options.TournamentSize),
		Mate:     twoPointCrossover,
		Mutate:   shuffleIndexMutation(s.Options.GeneShuffleProb),
		Evaluate: s.evaluate,
	}
}

// Run executes the genetic algorithm and returns the best chromosome found,
// converted to an Assignment (gene i is the drone for s.Deliveries[i]),
// together with its fitness.
func (s *GASolver) Run() (Assignment, float64) {
	tb := s.toolbox()
	pop := s.initialPopulation()
	for i := range pop {
		pop[i].Fitness = tb.Evaluate(pop[i])
		pop[i].evaluated = true
	}

	best := bestOf(pop).clone()

	for gen := 0; gen < s.Options.Generations; gen++ {
		offspring := make([]*Individual, len(pop))
		for i := range offspring {
			offspring[i] = tb.Select(pop, s.Rand).clone()
		}

		for i := 0; i+1 < len(offspring); i += 2 {
			if s.Rand.Float64() < s.Options.CrossoverProb {
				tb.Mate(offspring[i], offspring[i+1], s.Rand)
				offspring[i].evaluated = false
				offspring[i+1].evaluated = false
			}
		}

		for i := range offspring {
			if s.Rand.Float64() < s.Options.MutationProb {
				tb.Mutate(offspring[i], s.Rand)
				offspring[i].evaluated = false
			}
		}

		for i := range offspring {
			if !offspring[i].evaluated {
				offspring[i].Fitness = tb.Evaluate(offspring[i])
				offspring[i].evaluated = true
			}
		}

		pop = offspring

		genBest := bestOf(pop)
		if genBest.Fitness > best.Fitness {
			best = genBest.clone()
		} else {
			replaceWorst(pop, best)
		}
	}

	return chromosomeToAssignment(best, s.Deliveries), best.Fitness
}

func (s *GASolver) initialPopulation() []*Individual {
	ids := s.droneIDs()
	pop := make([]*Individual, s.Options.PopulationSize)
	for i := range pop {
		genes := make([]world.DroneID, len(s.Deliveries))
		for g := range genes {
			genes[g] = ids[s.Rand.Intn(len(ids))]
		}
		pop[i] = &Individual{Genes: genes}
	}
	return pop
}

// evaluate deterministically forward-simulates a chromosome and scores it:
// 100 per completed delivery, minus 0.1 per energy unit spent, minus 1000
// per constraint violation.
func (s *GASolver) evaluate(ind *Individual) float64 {
	droneByID := indexDrones(s.Drones)

	type runningState struct {
		pos    geometry.Point
		weight float64
		battery float64
	}
	states := make(map[world.DroneID]*runningState, len(s.Drones))
	for _, d := range s.Drones {
		states[d.ID] = &runningState{pos: d.CurrentPosition, weight: d.CurrentWeight, battery: d.CurrentBattery}
	}

	completed := 0
	violations := 0
	energyTotal := 0.0

	for i, delivery := range s.Deliveries {
		if i >= len(ind.Genes) {
			break
		}
		geneDrone := ind.Genes[i]
		state, ok := states[geneDrone]
		if !ok {
			violations++
			continue
		}

		capacityDrone := s.capacityCheckDrone(i, geneDrone, droneByID)
		if capacityDrone == nil || state.weight+delivery.Weight > capacityDrone.MaxWeight {
			violations++
			continue
		}

		dist := geometry.Distance(state.pos, delivery.Position)
		energy := dist * (1 + 0.1*state.weight)
		if energy > state.battery {
			violations++
			continue
		}

		insideZone := false
		for _, z := range s.Zones {
			if z.Contains(delivery.Position) {
				insideZone = true
				break
			}
		}
		if insideZone {
			violations++
			continue
		}

		state.pos = delivery.Position
		state.battery -= energy
		state.weight += delivery.Weight
		energyTotal += energy
		completed++
	}

	return 100.0*float64(completed) - 0.1*energyTotal - 1000.0*float64(violations)
}

// capacityCheckDrone resolves which drone's MaxWeight gates step 1 of
// fitness evaluation, per GAOptions.ParityLookupBug.
func (s *GASolver) capacityCheckDrone(deliveryIndex int, gene world.DroneID, droneByID map[world.DroneID]*world.Drone) *world.Drone {
	if !s.Options.ParityLookupBug {
		return droneByID[gene]
	}
	if deliveryIndex < len(s.Drones) {
		return s.Drones[deliveryIndex]
	}
	return nil
}

func chromosomeToAssignment(ind *Individual, deliveries []*world.Delivery) Assignment {
	out := make(Assignment, len(deliveries))
	for i, d := range deliveries {
		if i < len(ind.Genes) {
			out[d.ID] = ind.Genes[i]
		}
	}
	return out
}

func bestOf(pop []*Individual) *Individual {
	best := pop[0]
	for _, ind := range pop[1:] {
		if ind.Fitness > best.Fitness {
			best = ind
		}
	}
	return best
}

func replaceWorst(pop []*Individual, elite *Individual) {
	worstIdx := 0
	for i, ind := range pop {
		if ind.Fitness < pop[worstIdx].Fitness {
			worstIdx = i
		}
	}
	pop[worstIdx] = elite.clone()
}

// tournamentSelect returns a Select operator that picks the fittest of k
// individuals drawn uniformly at random with replacement.
func tournamentSelect(k int) func([]*Individual, *rand.Rand) *Individual {
	return func(pop []*Individual, rnd *rand.Rand) *Individual {
		best := pop[rnd.Intn(len(pop))]
		for i := 1; i < k; i++ {
			cand := pop[rnd.Intn(len(pop))]
			if cand.Fitness > best.Fitness {
				best = cand
			}
		}
		return best
	}
}

// twoPointCrossover swaps the gene segment between two random cut points
// between a and b, in place.
func twoPointCrossover(a, b *Individual, rnd *rand.Rand) {
	n := len(a.Genes)
	if n < 2 || len(b.Genes) != n {
		return
	}
	p1 := rnd.Intn(n)
	p2 := rnd.Intn(n - 1)
	if p2 >= p1 {
		p2++
	}
	if p1 > p2 {
		p1, p2 = p2, p1
	}
	for i := p1; i < p2; i++ {
		a.Genes[i], b.Genes[i] = b.Genes[i], a.Genes[i]
	}
}

// shuffleIndexMutation returns a Mutate operator where each gene is, with
// probability indpb, swapped with a distinct randomly chosen gene —
// DEAP's mutShuffleIndexes.
func shuffleIndexMutation(indpb float64) func(*Individual, *rand.Rand) {
	return func(ind *Individual, rnd *rand.Rand) {
		n := len(ind.Genes)
		if n < 2 {
			return
		}
		for i := 0; i < n; i++ {
			if rnd.Float64() >= indpb {
				continue
			}
			swapIdx := rnd.Intn(n - 1)
			if swapIdx >= i {
				swapIdx++
			}
			ind.Genes[i], ind.Genes[swapIdx] = ind.Genes[swapIdx], ind.Genes[i]
		}
	}
}
