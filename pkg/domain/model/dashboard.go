package model

import "github.com/DataRockMyWorld/safesphere-risk/pkg/domain/types"

// Cell addresses a single probability/severity cell of the risk matrix.
type Cell struct {
	Probability int
	Severity    int
}

// Dashboard is a read-only projection over the assessment repository.
type Dashboard struct {
	Total         int
	Active        int
	OverdueReview int
	ByBand        map[types.Band]int
	ByCategory    map[types.Category]int
}
