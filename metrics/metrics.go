// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_commands_total",
		Help: "Slash command invocations by command name.",
	}, []string{"command"})

	ColorAssignments = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_color_assignments_total",
		Help: "Color role assignments by color and result.",
	}, []string{"color", "result"})

	Navigation = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_rules_navigation_total",
		Help: "Paginated viewer navigation events by direction and whether they were accepted.",
	}, []string{"direction", "accepted"})

	ViewersOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bot_rules_viewers_open",
		Help: "Paginated viewers still accepting navigation.",
	})
)
