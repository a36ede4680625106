package application

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var roundsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "warmer_rounds_total",
	Help: "Number of worker rounds completed, by outcome",
}, []string{"outcome"})

var generationAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "warmer_generation_attempts_total",
	Help: "Number of message generation attempts, by result",
}, []string{"result"})

var deliveriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "warmer_deliveries_total",
	Help: "Number of delivery calls, by whether the channel accepted them",
}, []string{"accepted"})

var workersRunning = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "warmer_workers_running",
	Help: "Number of worker loops currently running",
})

var quietSleeps = promauto.NewCounter(prometheus.CounterOpts{
	Name: "warmer_quiet_sleeps_total",
	Help: "Number of sleeps taken outside the activity window",
})
