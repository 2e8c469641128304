package shared

import (
	"encoding/json"
	"net/http"
)

// DecodeJSON decodes the request body into v. Handlers validate the decoded
// struct themselves; this only covers malformed JSON.
func DecodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
