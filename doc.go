// Package toolgate turns vendor web APIs into schema-described tool servers
// for MCP hosts.
//
// Each supported vendor (GitHub, SerpAPI, GreenAPI) is assembled into a Gate:
// an ordered tool registry plus a dispatcher that validates arguments,
// resolves per-call credentials, executes the vendor call and wraps the
// outcome in a uniform JSON envelope. Transports in internal/adapters expose
// a Gate over MCP stdio, MCP SSE, or plain HTTP.
//
// Credentials are never persisted: they come from the environment at startup
// or from the reserved __credentials__ argument on each call, and per-call
// values win key by key.
package toolgate
