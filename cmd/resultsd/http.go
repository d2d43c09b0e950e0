// Copyright 2023-2024 Aulaweb, Inc.
// This software is released under an MIT/X11 open source license.

package main

import (
	"net/http"

	"github.com/aulaweb/go-results/restserver"
	"github.com/aulaweb/go-results/results"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"
	"github.com/urfave/negroni"
)

// ServeHTTP runs an HTTP server on the specified local address.  This
// serves connections forever.  Panics on any error in the initial
// setup or in accepting connections.
func ServeHTTP(service *results.Service, auth *restserver.Authorizer, laddr string, reqLogger *logrus.Logger) {
	r := mux.NewRouter()
	restserver.PopulateRouter(r, service, auth)
	r.Handle("/metrics", promhttp.Handler())

	n := negroni.New()
	n.Use(negroni.NewRecovery())
	if reqLogger != nil {
		n.Use(requestLogger{reqLogger})
	}
	n.UseHandler(r)

	err := http.ListenAndServe(laddr, n)
	if err != nil {
		panic(err)
	}
}

// requestLogger is a negroni middleware that logs every request with
// a per-request correlation ID.
type requestLogger struct {
	logger *logrus.Logger
}

func (l requestLogger) ServeHTTP(w http.ResponseWriter, req *http.Request, next http.HandlerFunc) {
	reqID := uuid.NewV4()
	entry := l.logger.WithFields(logrus.Fields{
		"request": reqID,
		"method":  req.Method,
		"url":     req.URL,
	})
	entry.Debug("Request started")

	next(w, req)

	if recorder, ok := w.(negroni.ResponseWriter); ok {
		entry = entry.WithField("status", recorder.Status())
	}
	entry.Debug("Request finished")
}
