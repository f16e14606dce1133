// Package event defines tracking events and their wire serialization.
//
// An Event is an immutable value describing one tracked occurrence (a page
// view, an event, a site search, a goal conversion). The dispatcher never
// inspects events; it hands a batch to a Serializer and posts the result.
//
// JSONSerializer produces the bulk tracking document accepted by the Matomo
// HTTP tracking API:
//
//	{"requests":["?idsite=1&rec=1&...","?idsite=1&rec=1&..."]}
package event
