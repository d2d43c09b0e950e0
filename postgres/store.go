// Copyright 2023-2024 Aulaweb, Inc.
// This software is released under an MIT/X11 open source license.

package postgres

import (
	"database/sql"

	"github.com/aulaweb/go-results/results"
)

// Column lists for the entity queries.  Result rows always join their
// owner so that a fetched result carries a complete user reference.
var resultOutputs = []string{
	"results.id",
	"results.value",
	"results.occurred_at",
	"users.id",
	"users.email",
	"users.is_admin",
}

var resultTables = []string{"results", "users"}

const resultOwnerJoin = "results.user_id=users.id"

// orderBy returns the ORDER BY clause for a sort key.  The result ID
// is always the tiebreaker so listings are stable.
func orderBy(sort results.SortKey) string {
	switch sort {
	case results.SortByValue:
		return " ORDER BY results.value, results.id"
	case results.SortByDate:
		return " ORDER BY results.occurred_at, results.id"
	default:
		return " ORDER BY results.id"
	}
}

// scanResult reads one joined result row.
func scanResult(rows *sql.Rows) (*results.Result, error) {
	r := results.Result{Owner: &results.User{}}
	err := rows.Scan(&r.ID, &r.Value, &r.OccurredAt,
		&r.Owner.ID, &r.Owner.Email, &r.Owner.Admin)
	if err != nil {
		return nil, err
	}
	r.OccurredAt = r.OccurredAt.UTC()
	return &r, nil
}

func (s *pgStore) FindResult(id int) (*results.Result, error) {
	var found *results.Result
	params := queryParams{}
	query := buildSelect(resultOutputs, resultTables, []string{
		resultOwnerJoin,
		"results.id=" + params.Param(id),
	})
	err := queryAndScan(s, query, params, func(rows *sql.Rows) error {
		var scanErr error
		found, scanErr = scanResult(rows)
		return scanErr
	})
	if err == nil && found == nil {
		err = results.ErrNoSuchResult{ID: id}
	}
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (s *pgStore) FindResults(sort results.SortKey) ([]*results.Result, error) {
	params := queryParams{}
	query := buildSelect(resultOutputs, resultTables, []string{
		resultOwnerJoin,
	}) + orderBy(sort)
	return s.findResults(query, params)
}

func (s *pgStore) FindResultsByOwner(email string, sort results.SortKey) ([]*results.Result, error) {
	params := queryParams{}
	query := buildSelect(resultOutputs, resultTables, []string{
		resultOwnerJoin,
		"users.email=" + params.Param(email),
	}) + orderBy(sort)
	return s.findResults(query, params)
}

func (s *pgStore) findResults(query string, params queryParams) ([]*results.Result, error) {
	var rs []*results.Result
	err := queryAndScan(s, query, params, func(rows *sql.Rows) error {
		r, scanErr := scanResult(rows)
		if scanErr == nil {
			rs = append(rs, r)
		}
		return scanErr
	})
	if err != nil {
		return nil, err
	}
	return rs, nil
}

func (s *pgStore) SaveResult(r *results.Result) (*results.Result, error) {
	saved := *r
	if r.Owner == nil {
		return nil, results.ErrNoSuchUser{}
	}
	err := withTx(s, false, func(tx *sql.Tx) error {
		if saved.ID == 0 {
			row := tx.QueryRow("INSERT INTO results(value, user_id, occurred_at) "+
				"VALUES ($1, $2, $3) RETURNING id",
				saved.Value, saved.Owner.ID, saved.OccurredAt)
			return row.Scan(&saved.ID)
		}
		params := queryParams{}
		query := buildUpdate("results", []string{
			"value=" + params.Param(saved.Value),
			"user_id=" + params.Param(saved.Owner.ID),
			"occurred_at=" + params.Param(saved.OccurredAt),
		}, []string{
			"id=" + params.Param(saved.ID),
		})
		outcome, err := tx.Exec(query, params...)
		if err != nil {
			return err
		}
		count, err := outcome.RowsAffected()
		if err == nil && count == 0 {
			err = results.ErrNoSuchResult{ID: saved.ID}
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (s *pgStore) DeleteResult(r *results.Result) error {
	return withTx(s, false, func(tx *sql.Tx) error {
		outcome, err := tx.Exec("DELETE FROM results WHERE id=$1", r.ID)
		if err != nil {
			return err
		}
		count, err := outcome.RowsAffected()
		if err == nil && count == 0 {
			err = results.ErrNoSuchResult{ID: r.ID}
		}
		return err
	})
}

func (s *pgStore) FindUser(email string) (*results.User, error) {
	u := results.User{}
	params := queryParams{}
	query := buildSelect([]string{
		"id", "email", "is_admin",
	}, []string{
		"users",
	}, []string{
		"email=" + params.Param(email),
	})
	found := false
	err := queryAndScan(s, query, params, func(rows *sql.Rows) error {
		found = true
		return rows.Scan(&u.ID, &u.Email, &u.Admin)
	})
	if err == nil && !found {
		err = results.ErrNoSuchUser{Email: email}
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *pgStore) SaveUser(u *results.User) (*results.User, error) {
	saved := *u
	err := withTx(s, false, func(tx *sql.Tx) error {
		row := tx.QueryRow("SELECT id FROM users WHERE email=$1", saved.Email)
		err := row.Scan(&saved.ID)
		if err == sql.ErrNoRows {
			row = tx.QueryRow("INSERT INTO users(email, is_admin) "+
				"VALUES ($1, $2) RETURNING id",
				saved.Email, saved.Admin)
			return row.Scan(&saved.ID)
		}
		if err != nil {
			return err
		}
		_, err = tx.Exec("UPDATE users SET is_admin=$1 WHERE id=$2",
			saved.Admin, saved.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (s *pgStore) Summarize() (results.Summary, error) {
	var summary results.Summary
	params := queryParams{}
	query := "SELECT users.email, COUNT(*) FROM results, users " +
		"WHERE " + resultOwnerJoin + " GROUP BY users.email ORDER BY users.email"
	err := queryAndScan(s, query, params, func(rows *sql.Rows) error {
		count := results.OwnerCount{}
		err := rows.Scan(&count.Owner, &count.Count)
		if err == nil {
			summary = append(summary, count)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}
