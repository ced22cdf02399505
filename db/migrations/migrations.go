package migrations

import "embed"

// FS embeds the decision-engine schema migrations in this directory:
// organizations, sites, ad units, campaigns, ads, ad requests, frequency
// counters and the reporting aggregates. golang-migrate reads them
// through the iofs source driver.
//
//go:embed *.sql
var FS embed.FS

// Version is the schema version the binary expects; Migrate targets it
// explicitly instead of migrating to latest.
const Version = 1
