package http

import (
	"encoding/json"
	"net/http"
)

// decodeJSONBody decodes the request body into dst, capping it at 1 MiB.
func decodeJSONBody(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
