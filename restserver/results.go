// Copyright 2023-2024 Aulaweb, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"strconv"

	"github.com/aulaweb/go-results/restdata"
	"github.com/aulaweb/go-results/results"
	"github.com/gorilla/mux"
)

// PopulateResults adds the result resource routes to a router.
func (api *restAPI) PopulateResults(r *mux.Router) {
	s := r.PathPrefix("/api/v1").Subrouter()
	s.Path("/results").Name("results").Handler(&resourceHandler{
		Representation: restdata.ResultUpdate{},
		Context:        api.Context,
		Get:            api.ListResults,
		Post:           api.CreateResult,
	})
	s.Path("/results/{id:[0-9]+}").Name("result").Handler(&resourceHandler{
		Representation:      restdata.ResultUpdate{},
		PatchRepresentation: restdata.OwnerUpdate{},
		Context:             api.Context,
		Get:                 api.GetResult,
		Put:                 api.ReplaceResult,
		Patch:               api.ReassignOwner,
		Delete:              api.DeleteResult,
	})
}

// ListResults handles GET on the collection: the caller's visible
// results, or 304 if the client's validator matches the collection
// fingerprint.
func (api *restAPI) ListResults(ctx *context) (interface{}, error) {
	page, err := api.Service.List(ctx.Principal, ctx.Sort, ctx.Validators)
	if err != nil {
		return nil, restdata.MapError(err)
	}
	if page.NotModified {
		return responseNotModified{}, nil
	}
	list := restdata.ResultList{Results: make([]restdata.ResultItem, len(page.Results))}
	for i, r := range page.Results {
		data, err := api.resultData(r)
		if err != nil {
			return nil, err
		}
		list.Results[i] = restdata.ResultItem{Result: data}
	}
	return responseCached{Body: list, Tag: page.Tag}, nil
}

// GetResult handles GET on a single result.
func (api *restAPI) GetResult(ctx *context) (interface{}, error) {
	fetched, err := api.Service.Get(ctx.Principal, ctx.ID, ctx.Validators)
	if err != nil {
		return nil, restdata.MapError(err)
	}
	if fetched.NotModified {
		return responseNotModified{}, nil
	}
	data, err := api.resultData(fetched.Result)
	if err != nil {
		return nil, err
	}
	return responseCached{
		Body: restdata.ResultItem{Result: data},
		Tag:  fetched.Tag,
	}, nil
}

// CreateResult handles POST on the collection.  The created result is
// owned by the caller, and the response carries its location.
func (api *restAPI) CreateResult(ctx *context, in interface{}) (interface{}, error) {
	body, valid := in.(restdata.ResultUpdate)
	if !valid {
		return nil, errUnmarshal
	}
	r, err := api.Service.Create(ctx.Principal, results.NewResult{
		Result: body.Result,
		Date:   body.Date,
	})
	if err != nil {
		return nil, restdata.MapError(err)
	}
	data, err := api.resultData(r)
	if err != nil {
		return nil, err
	}
	return responseCreated{
		Location: data.Links.Self.Href,
		Body:     restdata.ResultItem{Result: data},
	}, nil
}

// ReplaceResult handles PUT on a single result.  Success returns the
// updated representation with the 209 status.
func (api *restAPI) ReplaceResult(ctx *context, in interface{}) (interface{}, error) {
	body, valid := in.(restdata.ResultUpdate)
	if !valid {
		return nil, errUnmarshal
	}
	r, err := api.Service.Replace(ctx.Principal, ctx.ID, results.Update{
		Result: body.Result,
		Date:   body.Date,
	}, ctx.Precondition)
	if err != nil {
		return nil, restdata.MapError(err)
	}
	data, err := api.resultData(r)
	if err != nil {
		return nil, err
	}
	return responseContentReturned{Body: restdata.ResultItem{Result: data}}, nil
}

// ReassignOwner handles PATCH on a single result, moving it to a new
// owner.  Success returns the updated representation with the 209
// status.
func (api *restAPI) ReassignOwner(ctx *context, in interface{}) (interface{}, error) {
	body, valid := in.(restdata.OwnerUpdate)
	if !valid {
		return nil, errUnmarshal
	}
	user := body.User
	if user == nil {
		user = body.Email
	}
	r, err := api.Service.ReassignOwner(ctx.Principal, ctx.ID, results.OwnerUpdate{
		User: user,
	}, ctx.Precondition)
	if err != nil {
		return nil, restdata.MapError(err)
	}
	data, err := api.resultData(r)
	if err != nil {
		return nil, err
	}
	return responseContentReturned{Body: restdata.ResultItem{Result: data}}, nil
}

// DeleteResult handles DELETE on a single result.
func (api *restAPI) DeleteResult(ctx *context) (interface{}, error) {
	err := api.Service.Delete(ctx.Principal, ctx.ID)
	return nil, restdata.MapError(err)
}

// resultData maps a result to its wire form, attaching navigation
// links.  The links are not part of the fingerprinted content; the
// ETag covers the canonical representation only.
func (api *restAPI) resultData(r *results.Result) (restdata.ResultData, error) {
	rep := results.Represent(r)
	data := restdata.ResultData{
		ID:     rep.ID,
		Result: rep.Value,
		User: restdata.UserData{
			ID:    rep.User.ID,
			Email: rep.User.Email,
			Admin: rep.User.Admin,
		},
		Date:  rep.Date,
		Links: &restdata.Links{},
	}
	err := buildURLs(api.Router, "id", strconv.Itoa(r.ID)).
		URL(&data.Links.Self.Href, "result").
		URL(&data.Links.Parent.Href, "results").
		Error
	return data, err
}
