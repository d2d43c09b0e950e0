// Copyright 2023-2024 Aulaweb, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"net/http"

	"github.com/aulaweb/go-results/restdata"
	"github.com/aulaweb/go-results/results"
	"github.com/gorilla/mux"
)

// NewRouter creates a new HTTP handler that processes all results
// requests.  The resources are published under /api/v1, with a
// discovery document at the URL path root.  For more control over
// this setup, create a mux.Router and call PopulateRouter instead.
func NewRouter(service *results.Service, auth *Authorizer) http.Handler {
	r := mux.NewRouter()
	PopulateRouter(r, service, auth)
	return r
}

// PopulateRouter adds the results routes to an existing
// github.com/gorilla/mux router object.  This can be used, for
// instance, to mount the API next to other handlers such as a
// metrics endpoint.
func PopulateRouter(r *mux.Router, service *results.Service, auth *Authorizer) {
	api := &restAPI{Service: service, Auth: auth, Router: r}
	api.PopulateRouter(r)
}

// restAPI holds the persistent state for the results REST API.
type restAPI struct {
	Service *results.Service
	Auth    *Authorizer
	Router  *mux.Router
}

// PopulateRouter adds all URL paths to a router.
func (api *restAPI) PopulateRouter(r *mux.Router) {
	api.PopulateResults(r)
	r.Path("/").Name("root").Handler(&resourceHandler{
		Context: api.PublicContext,
		Get:     api.RootDocument,
	})
}

// RootDocument serves the discovery document.  It requires no
// authentication; it exposes the URL layout, not any data.
func (api *restAPI) RootDocument(ctx *context) (interface{}, error) {
	resp := restdata.RootData{}
	err := buildURLs(api.Router).
		URL(&resp.ResultsURL, "results").
		Template(&resp.ResultURL, "results", "id").
		Error
	return resp, err
}
