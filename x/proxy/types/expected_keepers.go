package types

import (
	sharedkeeper "github.com/paw-chain/crosslend/x/shared/keeper"
)

// MoneyMarket is the lending protocol facade used by proxies.
// Aliased to the versioned shared interface for API stability.
type MoneyMarket = sharedkeeper.MoneyMarketGovV1
