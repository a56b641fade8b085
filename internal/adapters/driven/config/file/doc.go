// Package file stores microverse configuration as TOML on local disk,
// by default in ~/.microverse/config.toml. Nested tables are exposed to
// the rest of the application as dotted keys such as "corpus.backend".
package file
