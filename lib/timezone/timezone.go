package timezone

import (
	"time"
	_ "time/tzdata"
)

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Europe/London")
	if err != nil {
		panic(err)
	}
}

// the source site stamps its pages in UK local time, dates parsed off
// a page and dates recorded at collection time should agree on the day.
func Now() time.Time {
	return time.Now().In(Location)
}
