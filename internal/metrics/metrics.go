package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// счетчики движка, отдаются на /metrics
var (
	ActiveRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "multigame_active_rooms",
		Help: "Number of live rooms in this process.",
	})

	ConnectedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "multigame_connected_clients",
		Help: "Number of open websocket connections.",
	})

	GamesStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "multigame_games_started_total",
		Help: "Games started, by variant.",
	}, []string{"variant"})

	MovesApplied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "multigame_moves_applied_total",
		Help: "Accepted board game moves.",
	})

	AnswersSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "multigame_answers_submitted_total",
		Help: "Accepted quiz answers.",
	})

	TimersScheduled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "multigame_timers_scheduled_total",
		Help: "Room timers scheduled.",
	})

	TimersFired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "multigame_timers_fired_total",
		Help: "Room timers fired (including ones dropped as stale).",
	})

	TimersCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "multigame_timers_cancelled_total",
		Help: "Room timers cancelled before firing.",
	})

	BroadcastsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "multigame_broadcasts_sent_total",
		Help: "Room events broadcast to subscribers.",
	})
)
