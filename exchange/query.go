package exchange

import (
	"net/url"
	"strings"
)

//
// Query is an insertion-ordered set of query string parameters. Unlike url.Values, it preserves the
// exact order in which the caller provided parameters (and repeated values of the same parameter),
// which matters because the encoded query becomes part of the signed request path.
//
type Query struct {
	params []param
}

type param struct {
	name  string
	value string
}

//
// Add appends a single name/value pair to the query.
//
func (o *Query) Add(name string, value string) *Query {
	o.params = append(o.params, param{name: name, value: value})

	return o
}

//
// AddAll appends one name/value pair per provided value, in order. Nothing is appended when no
// values are provided.
//
func (o *Query) AddAll(name string, values ...string) *Query {
	for _, v := range values {
		o.Add(name, v)
	}

	return o
}

//
// AddOptional appends the name/value pair only if the value is non-empty.
//
func (o *Query) AddOptional(name string, value string) *Query {
	if value == "" {
		return o
	}

	return o.Add(name, value)
}

//
// Len returns the number of name/value pairs in the query.
//
func (o *Query) Len() int {
	return len(o.params)
}

//
// Encode renders the query as "name=value" pairs joined with "&". Names and values are escaped for
// use in a URL query, except that "," and ":" are left as-is since brokerages expect comma lists and
// timestamps to appear verbatim in the (signed) path.
//
func (o *Query) Encode() string {
	var sb strings.Builder

	for i, p := range o.params {
		if i > 0 {
			sb.WriteByte('&')
		}

		sb.WriteString(escape(p.name))
		sb.WriteByte('=')
		sb.WriteString(escape(p.value))
	}

	return sb.String()
}

//
// Path appends the encoded query to the provided base path. The "?" separator is omitted entirely
// when the query is empty.
//
func (o *Query) Path(base string) string {
	if o == nil || len(o.params) == 0 {
		return base
	}

	return base + "?" + o.Encode()
}

var unescaper = strings.NewReplacer("%2C", ",", "%3A", ":")

func escape(s string) string {
	return unescaper.Replace(url.QueryEscape(s))
}
