// Copyright 2023-2024 Aulaweb, Inc.
// This software is released under an MIT/X11 open source license.

// Package restserver publishes a results.Service as a REST service.
// The restclient package is a matching client.
//
// The complete REST API is defined in the restdata package.  In
// particular, note that the URLs described here are not actually part
// of the API; clients discover them through the root document.
//
// HTTP Considerations
//
// Clients should use the standard HTTP Accept: header to pick a
// response format; see "MIME Types" below.  Responses to result GET
// requests carry an ETag header with the resource's content
// fingerprint and a Cache-Control: must-revalidate directive, and
// honor If-None-Match.  PUT requests require If-Match; PATCH requests
// honor If-Match when present.  OPTIONS requests answer with an Allow
// header and require no authentication; every other request must
// carry a bearer token understood by the configured Authorizer.
//
// MIME Types
//
// This interface understands MIME types as follows:
//
//	application/vnd.aulaweb.results.v1+json
//
// JSON representation of version 1 of this interface.
//
//	application/vnd.aulaweb.results+json
//	application/json
//	text/json
//
// JSON representation of latest version of this interface.
//
// URL Scheme
//
// The following URLs are defined:
//
//	/
//	/api/v1/results
//	/api/v1/results/{id}
//
// The collection URL accepts a ?sort= query parameter naming one of
// the orderings "id", "result", or "date".
package restserver
