// Package linedata collects the line data clusters of the source site:
// location codes, engineer's line references and line names.
package linedata

import (
	"railcodes/lib/scraper"
	"railcodes/lib/telemetry"
)

var tracer = telemetry.Tracer("railcodes.lib.scrapers.linedata")

const Category = "line-data"

// registers every line data collector in the order they are collected.
func Register(reg *scraper.Registry, env scraper.Env) {
	reg.Register(scraper.NewCollector(LocationIdentifiers(), env))
	reg.Register(scraper.NewCollector(ELRs(), env))
	reg.Register(scraper.NewCollector(LineNames(), env))
}
