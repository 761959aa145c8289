// Package mock provides an in-memory payroll backend that issues signed JWT
// sessions, so tests can exercise login, token expiry and refresh without a
// real server.
package mock
