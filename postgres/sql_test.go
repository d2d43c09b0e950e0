// Copyright 2023-2024 Aulaweb, Inc.
// This software is released under an MIT/X11 open source license.

package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildSelect(t *testing.T) {
	query := buildSelect([]string{"id"}, []string{"results"}, nil)
	assert.Equal(t, "SELECT id FROM results", query)

	query = buildSelect([]string{"results.id", "users.email"},
		[]string{"results", "users"},
		[]string{"results.user_id=users.id", "results.id=$1"})
	assert.Equal(t, "SELECT results.id, users.email "+
		"FROM results, users "+
		"WHERE results.user_id=users.id AND results.id=$1", query)
}

func TestBuildUpdate(t *testing.T) {
	query := buildUpdate("results",
		[]string{"value=$1"},
		[]string{"id=$2"})
	assert.Equal(t, "UPDATE results SET value=$1 WHERE id=$2", query)
}

func TestQueryParams(t *testing.T) {
	params := queryParams{}
	assert.Equal(t, "$1", params.Param("first"))
	assert.Equal(t, "$2", params.Param(2))
	assert.Equal(t, queryParams{"first", 2}, params)
}
