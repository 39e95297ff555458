package graph

import (
	"context"

	"rdfstore/internal/domain/identity"
	"rdfstore/internal/shared/logger"
)

// UIDLookup resolves a username to its posix uid in the directory.
type UIDLookup interface {
	LookupUID(ctx context.Context, username string) (uint, error)
}

// Resolver assembles a full identity profile: organisational attributes from
// Microsoft Graph, posix UID from LDAP. Each resolution is fresh; no profile
// is ever cached across operations.
type Resolver struct {
	graph  *Client
	uids   UIDLookup
	logger logger.Interface
}

func NewResolver(graph *Client, uids UIDLookup, logger logger.Interface) *Resolver {
	return &Resolver{graph: graph, uids: uids, logger: logger}
}

func (r *Resolver) Resolve(ctx context.Context, username string) (identity.Profile, error) {
	profile, err := r.graph.GetProfile(ctx, username)
	if err != nil {
		return identity.Profile{}, err
	}

	uid, err := r.uids.LookupUID(ctx, username)
	if err != nil {
		return identity.Profile{}, err
	}
	profile.UID = uid

	return profile, nil
}
