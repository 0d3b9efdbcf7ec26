// Package heuristics provides the default collaborators an ant consults:
// which node to pick up, how good a placement is, and what counts as the
// neighborhood of a position.
package heuristics
