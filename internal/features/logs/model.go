package logs

import "time"

const defaultLimit = 200

// Filter narrows a log listing; zero values match everything
type Filter struct {
	Level     string
	Username  string
	ProcessID string
	From      *time.Time
	To        *time.Time
	Limit     int
}

var exportColumns = []string{"created_on_utc", "level", "message", "username", "process_id", "ip_address", "caller"}
