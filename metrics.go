/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Seednode/millionaire/games/millionaire"
)

var (
	questionsLoaded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "millionaire",
		Name:      "questions_loaded_total",
		Help:      "Questions loaded onto the screens, by language and level.",
	}, []string{"lang", "level"})

	jokersPlayed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "millionaire",
		Name:      "jokers_played_total",
		Help:      "Jokers played, by joker.",
	}, []string{"joker"})

	roundsFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "millionaire",
		Name:      "rounds_finished_total",
		Help:      "Rounds that ended, by outcome.",
	}, []string{"outcome"})

	clientsConnected = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "millionaire",
		Name:      "clients_connected",
		Help:      "Open websocket connections, by role.",
	}, []string{"role"})

	gamesActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "millionaire",
		Name:      "games_active",
		Help:      "Games currently held in memory.",
	})
)

// metricsHooks counts the events of one game.
func metricsHooks(lang string) millionaire.Hooks {
	return millionaire.Hooks{
		QuestionLoaded: func(q *millionaire.Question, _ int) {
			questionsLoaded.WithLabelValues(lang, q.Level.String()).Inc()
		},
		JokerPlayed: func(j millionaire.Joker) {
			jokersPlayed.WithLabelValues(string(j)).Inc()
		},
		RoundFinished: func(outcome millionaire.Outcome, _ int) {
			roundsFinished.WithLabelValues(outcome.String()).Inc()
		},
	}
}

func registerMetrics(cfg *Config, mux *httprouter.Router) {
	mux.Handler("GET", cfg.prefix+"/metrics", promhttp.Handler())
}
