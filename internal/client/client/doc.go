// Package client contains the REST access layer of the Market Supervisor
// client.
//
// # Overview
//
// The package provides:
//  1. The request builder: BuildURL substitutes ":name" placeholders of an
//     endpoint template, and (*HTTPClient).AuthHeaders produces the default
//     headers plus the bearer credential when one is stored.
//  2. One client interface per resource family (AuthClient, CompanyClient,
//     CronClient, SearchResultClient, DashboardClient) and a single HTTP
//     implementation, HTTPClient, that satisfies all of them.
//  3. Declarative response shaping (FieldPolicy): fields dropped from
//     incoming JSON objects per resource before decoding.
//
// # Error Handling
//
// A non-2xx response becomes an *APIError carrying the body's "message" or
// an operation-specific fallback text. Transport failures wrap
// ErrUnavailable, a request exceeding the configured timeout returns
// ErrTimeout, and a 401 response matches ErrUnauthorized via errors.Is.
// Cancellation of the caller's context is returned as the context error.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. Every operation accepts a
// context.Context and honors its cancellation in addition to the client
// timeout.
package client
