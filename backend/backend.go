// Copyright 2023-2024 Aulaweb, Inc.
// This software is released under an MIT/X11 open source license.

// Package backend provides a standard way to construct a results
// store based on command-line flags.
package backend

import (
	"errors"
	"strings"

	"github.com/aulaweb/go-results/memory"
	"github.com/aulaweb/go-results/postgres"
	"github.com/aulaweb/go-results/results"
)

// Backend describes user-visible parameters to store results data.
// This implements the flag.Value interface, and so a typical use is
//
//	func main() {
//	    backend := backend.Backend{Implementation: "memory"}
//	    flag.Var(&backend, "backend", "impl[:address] of results storage")
//	    flag.Parse()
//	    store, err := backend.Store()
//	}
type Backend struct {
	// Implementation holds the name of the implementation;
	// "memory" or "postgres".
	Implementation string

	// Address holds some backend-specific address, such as a
	// database connect string.
	Address string
}

// Store creates a new results store.  This generally should be called
// only once: if the backend has in-process state, such as a database
// connection pool or an in-memory store, calling this multiple times
// creates multiple copies of that state.  In particular, if
// b.Implementation is "memory", multiple calls to this will create
// multiple independent results "worlds".
func (b *Backend) Store() (results.Store, error) {
	switch b.Implementation {
	case "memory":
		return memory.NewStore(), nil
	case "postgres":
		return postgres.New(b.Address)
	default:
		return nil, errors.New("unknown results backend " + b.Implementation)
	}
}

// String renders a backend description as a string.
func (b *Backend) String() string {
	if b.Address == "" {
		return b.Implementation
	}
	return b.Implementation + ":" + b.Address
}

// Set parses a string into an existing backend description.  The
// string should be of the form "implementation:address", where
// address can be any string.  Set checks to see if the provided
// implementation is any of the known implementations, and returns an
// appropriate error if not.
//
// This is part of the flag.Value interface.  Note that this does not
// attempt to validate the b.Address part of the string or attempt to
// actually make a connection.
func (b *Backend) Set(param string) error {
	parts := strings.SplitN(param, ":", 2)
	b.Implementation = parts[0]
	if len(parts) == 2 {
		b.Address = parts[1]
	} else {
		b.Address = ""
	}
	switch b.Implementation {
	case "memory", "postgres":
		return nil
	default:
		return errors.New("unknown results backend " + b.Implementation)
	}
}
