// Package mocks provides shared test doubles for the store, auth, event and
// service interfaces. Store and service mocks are built on testify/mock;
// the auth doubles use function fields for quick one-off behaviour.
package mocks
