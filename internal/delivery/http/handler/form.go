package handler

import (
	"errors"
	"net/http"

	"github.com/gorilla/schema"
)

var formDecoder = newFormDecoder()

func newFormDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

// decodeForm parses a form-encoded body (or query string) into dst.
func decodeForm(r *http.Request, dst interface{}) error {
	if err := r.ParseForm(); err != nil {
		return err
	}
	return formDecoder.Decode(dst, r.PostForm)
}

// formErrors maps a decode failure onto the field names that failed.
func formErrors(err error) map[string]string {
	errs := make(map[string]string)

	var multi schema.MultiError
	if errors.As(err, &multi) {
		for field := range multi {
			errs[field] = field + " is invalid"
		}
	}

	return errs
}
