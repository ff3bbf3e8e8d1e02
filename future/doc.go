// Package future provides a settle-once Future for values produced asynchronously.
//
// A Future is created pending with New, which also hands out its resolve and reject
// functions, or already settled with Resolved and Rejected. Consumers either block on
// it with Await, poll it with Result and Done, or register callbacks with Then.
// Callbacks registered on one Future run in registration order.
package future
