// Copyright 2023-2024 Aulaweb, Inc.
// This software is released under an MIT/X11 open source license.

package main

import (
	"time"

	"github.com/aulaweb/go-results/results"
	"github.com/prometheus/client_golang/prometheus"
)

var resultsPerOwner = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: "aulaweb",
		Subsystem: "results",
		Name:      "results_per_owner",
		Help:      "Number of stored results per owning user",
	},
	[]string{
		"owner",
	},
)

func init() {
	prometheus.MustRegister(resultsPerOwner)
}

// observe periodically refreshes the per-owner gauges from the store.
// Owners whose last result is deleted keep their gauge at zero rather
// than disappearing, which keeps rate queries over the metric stable.
func observe(store results.Store) {
	seen := map[string]bool{}
	for range time.Tick(15 * time.Second) {
		summary, err := store.Summarize()
		if err != nil {
			continue
		}
		counted := map[string]bool{}
		for _, record := range summary {
			resultsPerOwner.With(prometheus.Labels{
				"owner": record.Owner,
			}).Set(float64(record.Count))
			seen[record.Owner] = true
			counted[record.Owner] = true
		}
		for owner := range seen {
			if !counted[owner] {
				resultsPerOwner.With(prometheus.Labels{
					"owner": owner,
				}).Set(0)
			}
		}
	}
}
