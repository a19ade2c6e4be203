package quotes

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalidQuotes is returned when the quote document does not match the
// expected schema.
var ErrInvalidQuotes = errors.New("invalid quotes document")

const quoteListSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "quote"],
    "properties": {
      "id":                {"type": "string", "pattern": "^[0-9a-f]{12}$"},
      "quote":             {"type": "string", "minLength": 1},
      "source":            {"type": "string"},
      "translationAuthor": {"type": ["string", "null"]},
      "translationSource": {"type": ["string", "null"]},
      "topComment":        {"type": ["string", "null"]}
    }
  }
}`

var compiledSchema = func() *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(quoteListSchema))
	if err != nil {
		panic(fmt.Sprintf("quotes: bad schema: %v", err))
	}
	return s
}()

func validate(data []byte) error {
	res, err := compiledSchema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidQuotes, err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidQuotes, strings.Join(msgs, "; "))
}
