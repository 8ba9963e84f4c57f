// Package tool defines the callable unit of a vendor adapter server.
//
// A Descriptor binds a tool name to its argument schema, the credential keys
// it requires, and the handler that performs the vendor call. Descriptors are
// registered once at process start into a Registry whose listing order is the
// registration order, so the order advertised to hosts is stable for the
// process lifetime.
//
// Every call, success or failure, is reported through the same Response
// envelope. Failures carry a Kind from the error taxonomy, a human-readable
// message and actionable suggestions; raw vendor payloads are preserved for
// diagnostics but secrets never enter the envelope.
package tool
