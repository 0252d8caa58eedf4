package services

import (
	"sort"

	"github.com/arxiv/relations-core/internal/domain/entities"
)

// foldChains reconstructs assertion chains from a flat slice of assertions.
// Each chain runs from its creating assertion to its head, ordered oldest
// first, with per-entry derived status filled in. Chains are returned in
// creation order of their roots.
//
// The store guarantees linearity (one successor per assertion at most), so a
// simple prior->successor index is enough to walk each chain.
func foldChains(rows []entities.Assertion) [][]entities.Assertion {
	byID := make(map[int64]entities.Assertion, len(rows))
	succ := make(map[int64]int64, len(rows))
	var roots []int64

	for _, a := range rows {
		byID[a.ID] = a
		if a.Prior == nil {
			roots = append(roots, a.ID)
		} else {
			succ[*a.Prior] = a.ID
		}
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i] < roots[j] })

	chains := make([][]entities.Assertion, 0, len(roots))
	for _, rootID := range roots {
		chain := []entities.Assertion{byID[rootID]}
		for {
			next, ok := succ[chain[len(chain)-1].ID]
			if !ok {
				break
			}
			chain = append(chain, byID[next])
		}
		annotateChain(chain)
		chains = append(chains, chain)
	}
	return chains
}

// annotateChain fills in the derived status of every assertion relative to
// its position: an entry with a successor is superseded or suppressed
// depending on the successor's action; the head is active unless it is
// itself a suppression, in which case the relation is retracted and no entry
// in the chain is active.
func annotateChain(chain []entities.Assertion) {
	for i := range chain {
		switch {
		case i < len(chain)-1:
			if chain[i+1].Action == entities.ActionSuppress {
				chain[i].Status = entities.StatusSuppressed
			} else {
				chain[i].Status = entities.StatusSuperseded
			}
		case chain[i].Action == entities.ActionSuppress:
			chain[i].Status = entities.StatusSuppressed
		default:
			chain[i].Status = entities.StatusActive
		}
	}
}
