// Copyright 2023-2024 Aulaweb, Inc.
// This software is released under an MIT/X11 open source license.

package results

// Service implements the six resource operations over a Store.  Each
// operation is one stateless unit of work: fetch, authorize, check
// preconditions, mutate, persist.  Any stage can fail with one of the
// typed errors from errors.go, and a failure before the mutation
// stage guarantees that nothing was persisted.  There are no retries;
// a caller whose precondition went stale must refetch and resubmit.
type Service struct {
	Store Store
}

// NewService creates a service on top of a store.
func NewService(store Store) *Service {
	return &Service{Store: store}
}

// NewResult is the request body for Create.  Both fields are
// required.
type NewResult struct {
	Result *int    `json:"result"`
	Date   *string `json:"date"`
}

// Update is the request body for Replace.  Each present field is
// applied independently; absent fields are left untouched.
type Update struct {
	Result *int    `json:"result"`
	Date   *string `json:"date"`
}

// OwnerUpdate is the request body for ReassignOwner.
type OwnerUpdate struct {
	User *string `json:"user"`
}

// Page is the outcome of List.  If NotModified is set the client's
// validator matched and Results is nil; otherwise Results holds the
// visible results and Tag the whole-collection fingerprint.
type Page struct {
	Results     []*Result
	Tag         string
	NotModified bool
}

// Fetched is the outcome of Get.  If NotModified is set the client's
// validator matched and Result is nil; otherwise Result is the
// resource and Tag its fingerprint.
type Fetched struct {
	Result      *Result
	Tag         string
	NotModified bool
}

// List retrieves the results visible to the principal, ordered
// ascending by the sort key: all results for an admin, otherwise only
// the principal's own.  An empty visible set is ErrNoResults.  The
// supplied cache validators are evaluated against the collection
// fingerprint.
func (s *Service) List(p Principal, sort SortKey, validators []string) (*Page, error) {
	var (
		rs  []*Result
		err error
	)
	if p.Admin {
		rs, err = s.Store.FindResults(sort)
	} else {
		rs, err = s.Store.FindResultsByOwner(p.Email, sort)
	}
	if err != nil {
		return nil, err
	}
	if len(rs) == 0 {
		return nil, ErrNoResults
	}
	tag, err := Fingerprint(RepresentAll(rs))
	if err != nil {
		return nil, err
	}
	page := &Page{Results: rs, Tag: tag}
	if NotModified(tag, validators) {
		page.Results = nil
		page.NotModified = true
	}
	return page, nil
}

// Get retrieves one result by ID.  A missing result is reported
// before an authorization failure.  The supplied cache validators are
// evaluated against the result's fingerprint.
func (s *Service) Get(p Principal, id int, validators []string) (*Fetched, error) {
	r, err := s.Store.FindResult(id)
	if err != nil {
		return nil, err
	}
	if !CanRead(p, r) {
		return nil, ErrForbidden
	}
	tag, err := Fingerprint(Represent(r))
	if err != nil {
		return nil, err
	}
	fetched := &Fetched{Result: r, Tag: tag}
	if NotModified(tag, validators) {
		fetched.Result = nil
		fetched.NotModified = true
	}
	return fetched, nil
}

// Create records a new result owned by the principal.  Both the
// value and the date must be supplied; a missing field or a malformed
// date leaves the store untouched.
func (s *Service) Create(p Principal, body NewResult) (*Result, error) {
	if body.Result == nil || body.Date == nil {
		return nil, ErrMissingFields
	}
	when, err := ParseDate(*body.Date)
	if err != nil {
		return nil, err
	}
	owner, err := s.Store.FindUser(p.Email)
	if err != nil {
		return nil, err
	}
	r := &Result{
		Value:      *body.Result,
		Owner:      owner,
		OccurredAt: when,
	}
	return s.Store.SaveResult(r)
}

// Replace applies a full update to a result.  The caller must be able
// to write the result, and must present a precondition matching the
// fingerprint of the stored state.  The precondition is evaluated
// before the body, so a stale tag fails even if the body is also
// unusable; a matching tag with an empty body is still
// ErrNoFieldsToUpdate and persists nothing.
func (s *Service) Replace(p Principal, id int, body Update, pre Precondition) (*Result, error) {
	r, err := s.Store.FindResult(id)
	if err != nil {
		return nil, err
	}
	if !CanWrite(p, r) {
		return nil, ErrForbidden
	}
	tag, err := Fingerprint(Represent(r))
	if err != nil {
		return nil, err
	}
	if err = pre.Check(tag, true); err != nil {
		return nil, err
	}
	if body.Result == nil && body.Date == nil {
		return nil, ErrNoFieldsToUpdate
	}
	if body.Date != nil {
		when, err := ParseDate(*body.Date)
		if err != nil {
			return nil, err
		}
		r.OccurredAt = when
	}
	if body.Result != nil {
		r.Value = *body.Result
	}
	return s.Store.SaveResult(r)
}

// ReassignOwner moves a result to a different user.  This is
// admin-only, and the admin check precedes even the existence check.
// The precondition is weak: absent passes, present must match.  The
// body must name the new owner, and that user must exist.
func (s *Service) ReassignOwner(p Principal, id int, body OwnerUpdate, pre Precondition) (*Result, error) {
	if !CanReassignOwner(p) {
		return nil, ErrForbidden
	}
	r, err := s.Store.FindResult(id)
	if err != nil {
		return nil, err
	}
	tag, err := Fingerprint(Represent(r))
	if err != nil {
		return nil, err
	}
	if err = pre.Check(tag, false); err != nil {
		return nil, err
	}
	if body.User == nil {
		return nil, ErrMissingFields
	}
	owner, err := s.Store.FindUser(*body.User)
	if err != nil {
		return nil, err
	}
	r.Owner = owner
	return s.Store.SaveResult(r)
}

// Delete removes a result.  A missing result is reported before an
// authorization failure; on success there is nothing to return.
func (s *Service) Delete(p Principal, id int) error {
	r, err := s.Store.FindResult(id)
	if err != nil {
		return err
	}
	if !CanWrite(p, r) {
		return ErrForbidden
	}
	return s.Store.DeleteResult(r)
}
