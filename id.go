package storefront

import "github.com/harborlane/storefront/id"

// ID is the primary identifier type for all Storefront entities.
type ID = id.ID

// Prefix identifies the entity type encoded in a TypeID.
type Prefix = id.Prefix
