// Package httputil provides the HTTP plumbing shared by the flowbox API
// server and its client.
//
// # Responses
//
// [WriteJSON] and [WriteError] give every endpoint the same envelope. Errors
// are encoded as
//
//	{"error": {"code": "LAYOUT_NOT_FOUND", "message": "layout 1f0c... not found"}}
//
// with the status taken from the error code (see errors.HTTPStatus).
// [DecodeError] turns such a body back into a coded error on the client
// side.
//
// # Caching
//
// [Cache] stores JSON values on disk (~/.cache/flowbox/http/) with a TTL.
// The client uses it for stored layouts, which never change once created.
//
//	cache, err := httputil.NewCache("", 24*time.Hour)
//	var l layoutfile.Layout
//	if ok, _ := cache.Get("layout:"+id, &l); !ok {
//	    // fetch, then cache.Set("layout:"+id, l)
//	}
//
// # Retry
//
// [Retry] re-runs an operation with exponential backoff while it fails with
// a [RetryableError]. Network failures and 5xx responses are retryable;
// 4xx responses are not.
package httputil
