// Package timezone converts a UTC event start into the wall-clock times of a
// fixed set of named zones.
//
// Input timestamps never carry a zone suffix and are always interpreted as UTC.
// The IANA database is embedded so the converter works in minimal containers.
package timezone
