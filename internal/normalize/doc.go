// Package normalize reshapes provider payloads whose schema differs from
// the canonical article list. GNews already returns the canonical shape
// and never passes through here; its bytes are relayed unmodified.
package normalize
