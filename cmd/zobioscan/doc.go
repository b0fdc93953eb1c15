// Package main hosts the zobioscan CLI entrypoint and command graph.
//
// The Cobra-based command tree drives interactive scan sessions against the
// Zobioweb backend, lists projects and container types, renders the local
// submission journal, and scaffolds configuration. It centralizes
// configuration resolution and structured logging setup so subcommands can
// focus on operator experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
