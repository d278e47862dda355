// Package spindle is a multi-provider agent orchestration engine. It runs a
// conversational loop against an LLM provider, executes the tool calls the
// model requests, and streams a uniform sequence of events to the caller
// while the loop is in flight.
//
// The root package holds the canonical data model shared by every other
// package: messages, tool declarations, provider responses, and the
// StreamEvent union that adapters translate provider wire formats into.
// Provider adapters live under provider/, the loop itself in agent/, the
// server-sent-events transport in sse/, and a unified retrying client in
// client/.
package spindle
