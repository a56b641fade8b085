// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The ranking functions in ranking.go are pure: they never perform I/O
// and are deterministic for a fixed query vector and corpus snapshot.
package services
