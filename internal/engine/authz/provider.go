package authz

import (
	"github.com/google/wire"
)

// ProviderSet provides the authorization engine dependencies
var ProviderSet = wire.NewSet(
	NewResolver,
	NewEngine,
)
