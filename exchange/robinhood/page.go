package robinhood

import (
	"net/url"

	"github.com/pkg/errors"
)

//
// Page carries the links to neighbouring pages of a paginated listing. Either link is nil when there
// is no such page.
//
type Page struct {
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
}

//
// NextCursor extracts the cursor that requests the next page, and reports whether there is one.
//
func (o Page) NextCursor() (string, bool) {
	return cursor(o.Next)
}

//
// PreviousCursor extracts the cursor that requests the previous page, and reports whether there is
// one.
//
func (o Page) PreviousCursor() (string, bool) {
	return cursor(o.Previous)
}

func cursor(link *string) (string, bool) {
	if link == nil || *link == "" {
		return "", false
	}

	u, err := url.Parse(*link)
	if err != nil {
		return "", false
	}

	c := u.Query().Get("cursor")

	return c, c != ""
}

func requireResults(name string, present bool) error {
	if !present {
		return errors.Errorf("%s response is missing its results", name)
	}

	return nil
}
