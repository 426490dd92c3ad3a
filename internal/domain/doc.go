// Package domain holds the core types of the emotion fusion pipeline and the
// interfaces its collaborators implement. Adapters (Redis, Postgres, OpenAI,
// HTTP) depend on this package, never the other way around.
package domain
