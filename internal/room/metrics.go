package room

import "expvar"

var (
	metricRoomsCreatedTotal    = expvar.NewInt("rooms_created_total")
	metricRoomsDeletedTotal    = expvar.NewInt("rooms_deleted_total")
	metricRoomsActive          = expvar.NewInt("rooms_active")
	metricJoinsTotal           = expvar.NewInt("room_joins_total")
	metricReconnectsTotal      = expvar.NewInt("room_reconnects_total")
	metricActionsAcceptedTotal = expvar.NewInt("blackjack_actions_accepted_total")
	metricActionsRejectedTotal = expvar.NewInt("blackjack_actions_rejected_total")
	metricRoundsSettledTotal   = expvar.NewInt("blackjack_rounds_settled_total")
	metricRoundRecordErrors    = expvar.NewInt("blackjack_round_record_errors_total")
)
