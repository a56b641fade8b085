// Package memory provides in-process implementations of the corpus and
// configuration ports. They back the "memory" corpus backend and serve as
// fakes in tests.
package memory
