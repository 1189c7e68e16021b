// Package assets bundles files shipped inside the binary.
package assets

import "embed"

// SeedPath is the location of the seed database inside SeedFS.
const SeedPath = "db/gastos.db"

// SeedFS holds the empty, schema-ready database installed on first run in
// production.
//
//go:embed db/gastos.db
var SeedFS embed.FS
