// Package api provides the REST client for the upstream calendar provider.
//
// Endpoints used:
//   - GET /economic_calendar?from=DATE&to=DATE: macro indicator records
//   - GET /earning_calendar?from=DATE&to=DATE: earnings announcement records
//   - GET /quote/{SYM1,SYM2,...}: market-cap enrichment for earnings symbols
//
// The API key travels as an apikey query parameter on every request.
package api
