package constants

import "time"

type (
	APIStatus   string
	CachePrefix string
)

const (
	APIStatusSuccess APIStatus = "success"
	APIStatusError   APIStatus = "error"

	CachePrefixColumns       CachePrefix = "CAT_COLUMNS"
	CachePrefixColumnModules CachePrefix = "CAT_MODULES_"
)

// Wizard session housekeeping.
const (
	WizardSessionTTL    = 45 * time.Minute
	WizardSweepInterval = time.Minute
)

// Catalog cache lifetime. Catalog rows are read-mostly reference data.
const CatalogCacheTTL = 10 * time.Minute
