// Package scheduling turns a questionnaire worklist and a pool of free time slots into
// non-overlapping candidate slots per examination.
//
// Everything here is pure and synchronous: callers fetch the slot pool and the examination
// type directory first, then run one pass per request. Booking commitment happens elsewhere,
// so results are advisory candidates rather than reservations.
package scheduling
