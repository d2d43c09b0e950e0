// Copyright 2023-2024 Aulaweb, Inc.
// This software is released under an MIT/X11 open source license.

// Package resultsd provides the results REST daemon.  It publishes
// the results API over HTTP, backed by either an in-memory store or
// PostgreSQL, with a Prometheus metrics endpoint alongside.
package main

import (
	"flag"
	"io/ioutil"

	"github.com/aulaweb/go-results/backend"
	"github.com/aulaweb/go-results/cache"
	"github.com/aulaweb/go-results/restserver"
	"github.com/aulaweb/go-results/results"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

// Config is the daemon's YAML configuration file.
type Config struct {
	// Secret is the HMAC key bearer tokens are signed with.
	Secret string `yaml:"secret"`

	// Users are seeded into the store at startup.  Users that
	// already exist have their admin flag updated to match.
	Users []ConfigUser `yaml:"users"`
}

// ConfigUser is one seeded user account.
type ConfigUser struct {
	Email string `yaml:"email"`
	Admin bool   `yaml:"admin"`
}

func main() {
	httpBind := flag.String("http", ":8080",
		"[ip]:port for HTTP REST interface")
	backend := backend.Backend{Implementation: "memory", Address: ""}
	flag.Var(&backend, "backend", "impl[:address] of the storage backend")
	config := flag.String("config", "", "daemon configuration YAML file")
	logRequests := flag.Bool("log-requests", false, "log all requests")
	flag.Parse()

	gConfig, err := loadConfigYaml(*config)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"err": err,
		}).Fatal("Could not load YAML configuration")
		return
	}
	if gConfig.Secret == "" {
		logrus.Fatal("Configuration must provide a token secret")
		return
	}

	store, err := backend.Store()
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"err": err,
		}).Fatal("Could not create results backend")
		return
	}
	store = cache.NewStore(store)

	if err = seedUsers(store, gConfig.Users); err != nil {
		logrus.WithFields(logrus.Fields{
			"err": err,
		}).Fatal("Could not seed users")
		return
	}

	var reqLogger *logrus.Logger
	if *logRequests {
		stdlog := logrus.StandardLogger()
		reqLogger = &logrus.Logger{
			Out:       stdlog.Out,
			Formatter: stdlog.Formatter,
			Hooks:     stdlog.Hooks,
			Level:     logrus.DebugLevel,
		}
	}

	service := results.NewService(store)
	auth := &restserver.Authorizer{
		Secret: []byte(gConfig.Secret),
		Store:  store,
	}

	go observe(store)
	ServeHTTP(service, auth, *httpBind, reqLogger)
}

func loadConfigYaml(filename string) (Config, error) {
	var result Config
	if filename == "" {
		return result, nil
	}
	bytes, err := ioutil.ReadFile(filename)
	if err == nil {
		err = yaml.Unmarshal(bytes, &result)
	}
	return result, err
}

func seedUsers(store results.Store, users []ConfigUser) error {
	for _, u := range users {
		_, err := store.SaveUser(&results.User{
			Email: u.Email,
			Admin: u.Admin,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
