// Package otherassets collects the infrastructure registers of the source
// site: signal boxes, tunnels, viaducts, stations and lineside features.
package otherassets

import (
	"math"
	"strconv"

	"railcodes/lib/scraper"
	"railcodes/lib/telemetry"
)

var tracer = telemetry.Tracer("railcodes.lib.scrapers.otherassets")

const Category = "other-assets"

func Register(reg *scraper.Registry, env scraper.Env) {
	reg.Register(scraper.NewCollector(SignalBoxes(), env))
	reg.Register(scraper.NewCollector(Tunnels(), env))
	reg.Register(scraper.NewCollector(Viaducts(), env))
	reg.Register(scraper.NewCollector(Stations(), env))
	reg.Register(scraper.NewCollector(Features(), env))
}

// NaN, the value of missing numeric fields, renders as a blank cell.
func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
