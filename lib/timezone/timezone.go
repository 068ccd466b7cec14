package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Asia/Kuala_Lumpur")
	if err != nil {
		panic(err)
	}
}

// force timezone to be MYT because the dashboard's reporting day rolls
// over on Malaysia time while our servers end up wherever the hosting
// provider feels like, which causes disturbances when manipulating
// dates based on <time.Time>.Year()/Month()/Day()/Hour()/...
func Now() time.Time {
	return time.Now().In(Location)
}

// In converts a timestamp to MYT.
func In(t time.Time) time.Time {
	return t.In(Location)
}
