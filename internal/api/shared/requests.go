package shared

import (
	"encoding/json"
	"net/http"
)

// MaxRequestBodyBytes bounds the size of a JSON request body.
const MaxRequestBodyBytes = 1 << 20

// DecodeJSON decodes the request body into the given struct.
// Unknown fields are ignored.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	body := http.MaxBytesReader(w, r.Body, MaxRequestBodyBytes)
	return json.NewDecoder(body).Decode(v)
}
