// Copyright 2023-2024 Aulaweb, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/aulaweb/go-results/restdata"
	"github.com/aulaweb/go-results/results"
	"github.com/golang-jwt/jwt/v5"
)

// Authorizer turns a bearer token into a Principal.  Tokens are
// HMAC-signed JWTs whose subject claim is the user's email; the admin
// flag comes from the user record, not from the token, so revoking a
// role takes effect immediately.
//
// The authorizer only establishes who the caller is.  What the caller
// may do with a particular result is decided per-operation by the
// access policy in the results package.
type Authorizer struct {
	// Secret is the HMAC key the tokens are signed with.
	Secret []byte

	// Store resolves authenticated emails to user records.
	Store results.Store
}

var errMissingCredentials = errors.New("missing or malformed Authorization header")
var errInvalidToken = errors.New("invalid bearer token")

// Principal authenticates one request.  All failures map to a 401
// response; in particular a token for a user that no longer exists is
// indistinguishable from an invalid token.
func (a *Authorizer) Principal(req *http.Request) (results.Principal, error) {
	var principal results.Principal

	header := req.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return principal, restdata.ErrUnauthorized{Err: errMissingCredentials}
	}

	token, err := jwt.Parse(strings.TrimPrefix(header, "Bearer "),
		func(token *jwt.Token) (interface{}, error) {
			if _, isHMAC := token.Method.(*jwt.SigningMethodHMAC); !isHMAC {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return a.Secret, nil
		})
	if err != nil || !token.Valid {
		return principal, restdata.ErrUnauthorized{Err: errInvalidToken}
	}

	email, err := token.Claims.GetSubject()
	if err != nil || email == "" {
		return principal, restdata.ErrUnauthorized{Err: errInvalidToken}
	}

	user, err := a.Store.FindUser(email)
	if err != nil {
		if _, missing := err.(results.ErrNoSuchUser); missing {
			err = restdata.ErrUnauthorized{Err: errInvalidToken}
		}
		return principal, err
	}

	principal.Email = user.Email
	principal.Admin = user.Admin
	return principal, nil
}

// Token mints a signed bearer token for a user email.  The daemon's
// CLI and the test suites use this; production deployments are
// expected to issue tokens from their identity provider using the
// shared secret.
func (a *Authorizer) Token(email string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": email,
	})
	return token.SignedString(a.Secret)
}
