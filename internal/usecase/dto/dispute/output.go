package disputedto

import "github.com/LavaJover/shvark-escrow-service/internal/domain"

type ListDisputesOutput struct {
	Disputes   []*domain.Dispute
	Pagination Pagination
}

type Pagination struct {
	CurrentPage  int32
	TotalPages   int32
	TotalItems   int32
	ItemsPerPage int32
}

type SeedOutput struct {
	Created int64
	Skipped bool
}
