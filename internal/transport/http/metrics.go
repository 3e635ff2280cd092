package httptransport

import "expvar"

var (
	metricRoomLookupTotal  = expvar.NewInt("http_room_lookup_total")
	metricRoomLookupMisses = expvar.NewInt("http_room_lookup_misses_total")

	historyQueryTotal       = expvar.NewInt("history_query_total")
	historyQueryErrorsTotal = expvar.NewInt("history_query_errors_total")
)
