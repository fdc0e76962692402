package shared

import (
	"time"

	"github.com/go-playground/form"
)

// Decoder decodes url.Values into structs tagged with `form:"..."`.
var Decoder = newDecoder()

func newDecoder() *form.Decoder {
	d := form.NewDecoder()
	d.RegisterCustomTypeFunc(func(vals []string) (interface{}, error) {
		if len(vals) == 0 || vals[0] == "" {
			return time.Time{}, nil
		}
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"} {
			if t, err := time.Parse(layout, vals[0]); err == nil {
				return t, nil
			}
		}
		return time.Parse(time.RFC3339, vals[0])
	}, time.Time{})
	return d
}
