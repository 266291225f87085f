package entities

import (
	gitforgeEntities "github.com/rios0rios0/gitforge/pkg/global/domain/entities"
)

// Repository is re-exported from gitforge. Only ID, Name, Organization,
// RemoteURL and ProviderName are filled from the working copy's origin
// remote; DefaultBranch stays empty.
type Repository = gitforgeEntities.Repository
