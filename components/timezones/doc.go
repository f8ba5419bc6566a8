// Package timezones backs the time_zone input: an embedded IANA zone list,
// a ChoiceProvider labelling each zone with its current UTC offset, and a
// small net/http handler returning matching choices as JSON for inputs that
// search remotely.
//
// The list lives in data/iana_timezones.txt; zone offsets come from the
// embedded tzdata so labels do not depend on the host's zoneinfo.
package timezones
