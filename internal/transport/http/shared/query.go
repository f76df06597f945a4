package shared

import (
	"net/http"
	"strconv"
	"strings"
)

// QueryInt reads an optional integer query parameter. Present but malformed
// values are recorded on v.
func (v *Validator) QueryInt(r *http.Request, name string) int {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		v.Add(name, "must be an integer")
		return 0
	}
	return n
}
