// Package useragent resolves the identification string sent as the
// User-Agent header of tracking requests.
//
// Resolution is best effort. A Resolver returns a channel that yields exactly
// one Result; the dispatcher publishes the first successful value into a Cell
// and reads the cell on every send without waiting. Sends that happen before
// resolution completes, or after it fails, go out without a User-Agent.
//
// The Platform resolver reads an ambient platform string through a transient
// Surface opened from a Probe, rewrites its device-model token and appends
// DefaultSuffix. Two probes are provided:
//
//   - CommandProbe runs a short-lived process (uname by default).
//   - FileProbe watches for an identification file written by another
//     process, using fsnotify.
package useragent
