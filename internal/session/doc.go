// Package session implements the scan workflow engine: the ordered
// record list with its uniqueness and renumbering invariants, the
// first/last/next location pointers, and the state machine that walks an
// operator from project selection through scanning to batch submission.
//
// The engine delegates every acceptance decision to the vault
// collaborator and keeps no state beyond the running session; changing
// the project or container rebuilds everything downstream.
package session
