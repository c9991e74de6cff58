package prioritizers

import (
	"context"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/exome-prioritizer/internal/domain"
)

const (
	walkerRestartProbability = 0.7
	walkerConvergenceEpsilon = 1e-9
	walkerMaxIterations      = 100
)

// Interaction is one weighted edge of the protein-protein interaction
// network.
type Interaction struct {
	GeneA  string
	GeneB  string
	Weight float64
}

// InteractionNetwork is an undirected weighted gene network with
// column-normalized transition weights for random walks.
type InteractionNetwork struct {
	neighbors map[string]map[string]float64
}

// NewInteractionNetwork builds a network from interaction edges. Zero and
// negative weights are ignored.
func NewInteractionNetwork(interactions []Interaction) *InteractionNetwork {
	neighbors := make(map[string]map[string]float64)
	add := func(from, to string, weight float64) {
		if neighbors[from] == nil {
			neighbors[from] = make(map[string]float64)
		}
		neighbors[from][to] += weight
	}
	for _, interaction := range interactions {
		if interaction.Weight <= 0 || interaction.GeneA == interaction.GeneB {
			continue
		}
		add(interaction.GeneA, interaction.GeneB, interaction.Weight)
		add(interaction.GeneB, interaction.GeneA, interaction.Weight)
	}
	return &InteractionNetwork{neighbors: neighbors}
}

// Contains reports whether the gene participates in any interaction.
func (n *InteractionNetwork) Contains(geneID string) bool {
	return len(n.neighbors[geneID]) > 0
}

// walk runs a random walk with restart from the seed genes and returns the
// stationary visit probabilities.
func (n *InteractionNetwork) walk(seedGeneIDs []string) map[string]float64 {
	var seeds []string
	for _, id := range seedGeneIDs {
		if n.Contains(id) {
			seeds = append(seeds, id)
		}
	}
	if len(seeds) == 0 {
		return map[string]float64{}
	}

	restart := make(map[string]float64, len(seeds))
	for _, id := range seeds {
		restart[id] = 1 / float64(len(seeds))
	}

	current := make(map[string]float64, len(restart))
	for id, p := range restart {
		current[id] = p
	}

	for iteration := 0; iteration < walkerMaxIterations; iteration++ {
		next := make(map[string]float64, len(current))
		for id, p := range restart {
			next[id] += walkerRestartProbability * p
		}
		for from, p := range current {
			if p == 0 {
				continue
			}
			total := 0.0
			for _, weight := range n.neighbors[from] {
				total += weight
			}
			if total == 0 {
				continue
			}
			for to, weight := range n.neighbors[from] {
				next[to] += (1 - walkerRestartProbability) * p * weight / total
			}
		}
		if maxDelta(current, next) < walkerConvergenceEpsilon {
			return next
		}
		current = next
	}
	return current
}

func maxDelta(a, b map[string]float64) float64 {
	delta := 0.0
	for id, bv := range b {
		if d := math.Abs(bv - a[id]); d > delta {
			delta = d
		}
	}
	for id, av := range a {
		if _, ok := b[id]; !ok && av > delta {
			delta = av
		}
	}
	return delta
}

// ExomeWalkerPrioritizer scores genes by network proximity to a seed gene
// list using a random walk with restart over the interaction network.
type ExomeWalkerPrioritizer struct {
	network     *InteractionNetwork
	seedGeneIDs []string
	logger      *logrus.Logger
}

// NewExomeWalkerPrioritizer creates a random-walk prioritizer seeded with
// the given gene identifiers.
func NewExomeWalkerPrioritizer(network *InteractionNetwork, seedGeneIDs []string, logger *logrus.Logger) *ExomeWalkerPrioritizer {
	copied := make([]string, len(seedGeneIDs))
	copy(copied, seedGeneIDs)
	return &ExomeWalkerPrioritizer{network: network, seedGeneIDs: copied, logger: logger}
}

// PriorityType identifies the results this prioritizer attaches.
func (p *ExomeWalkerPrioritizer) PriorityType() domain.PriorityType {
	return domain.EXOMEWALKER_PRIORITY
}

// Prioritize attaches the scaled visit probability to every gene: the
// highest-visited candidate scores 1, genes outside the network score 0.
func (p *ExomeWalkerPrioritizer) Prioritize(_ context.Context, genes []*domain.Gene) error {
	visits := p.network.walk(p.seedGeneIDs)

	maxVisit := 0.0
	for _, gene := range genes {
		if v := visits[gene.GeneID]; v > maxVisit {
			maxVisit = v
		}
	}

	scored := 0
	for _, gene := range genes {
		score := 0.0
		if maxVisit > 0 {
			score = visits[gene.GeneID] / maxVisit
		}
		if score > 0 {
			scored++
		}
		gene.AddPriorityResult(domain.NewPriorityResult(domain.EXOMEWALKER_PRIORITY, score))
	}

	p.logger.WithFields(logrus.Fields{
		"seeds":       len(p.seedGeneIDs),
		"genes":       len(genes),
		"genesScored": scored,
	}).Debug("Completed random-walk prioritization")
	return nil
}
