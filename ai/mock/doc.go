// Package mock provides deterministic test doubles for the ai service
// interfaces. The default behaviors are hash-derived and stable across runs,
// so similarity-dependent tests do not depend on external services.
package mock
