// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces defined in the internal/store package, together with the
// embedded goose migrations that create their schema. It handles query
// execution and the mapping between domain entities and database records.
package postgres
