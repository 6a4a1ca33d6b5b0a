// Package config holds the process-wide configuration values spec.md §5
// says are "read once per message": 8-bit handling, strict boundary mode,
// header-line limits, boundary-nesting limits, and the collaborator hooks (GUID mode,
// cache-header predicate, logging) the rest of the module is parameterized
// by. It corresponds to the external Config collaborator of spec.md §6.
package config

import (
	"net/textproto"

	"github.com/zostay/go-mime-index/digest"
)

// Config is passed by reference down through a single parse. Nothing in
// this module mutates it; it is safe to share across concurrent parses of
// different messages per spec.md §5's re-entrancy guarantee.
type Config struct {
	// Reject8Bit fails validate.CopyAndValidate when a raw 8-bit byte is
	// seen in the header section; body bytes are never checked.
	Reject8Bit bool

	// Munge8Bit, when Reject8Bit is false, rewrites offending high bytes
	// to '?' instead of failing the copy outright.
	Munge8Bit bool

	// MaxHeaderLines is carried for callers; nothing in this module reads
	// it, so SlurpHeader accumulates a header section in full whatever
	// its value.
	MaxHeaderLines int

	// RFC2046Strict selects strict boundary comparison (RFC 2046
	// §5.1.1's suffix-collision rule) over the lax, Eudora-tolerant mode.
	RFC2046Strict bool

	// BoundaryNestingLimit aborts multipart recursion past this depth
	// with a logged, recoverable error. Zero means unlimited.
	BoundaryNestingLimit int

	// GUIDMode selects the digest algorithm the default digest.Service
	// uses to compute Body.GUID.
	GUIDMode digest.Mode

	// CachedHeaderPredicate reports whether a header named name should be
	// copied into cache_headers. A nil predicate matches nothing.
	CachedHeaderPredicate func(name string) bool

	// DateWantTimeOfDay requests that a Date header missing a time of
	// day be treated as a parse failure rather than defaulting to noon,
	// per spec.md §4.4.
	DateWantTimeOfDay bool

	// DateFailToWallClock selects the Date-parse failure mode: wall
	// clock instead of the zero time.
	DateFailToWallClock bool

	// Logf receives recoverable-error and warning messages, per spec.md
	// §7's "recoverable, logged" error class. A nil Logf discards them.
	Logf func(format string, args ...any)
}

// defaultCachedHeaders is the set of headers the CLI's Default Config
// copies into cache_headers -- the envelope fields a mail client's
// message list view needs without re-parsing the stored headers.
var defaultCachedHeaders = map[string]bool{
	"Date": true, "Subject": true, "From": true, "Sender": true,
	"Reply-To": true, "To": true, "Cc": true, "Bcc": true,
	"In-Reply-To": true, "Message-Id": true, "References": true,
	"Received": true, "Content-Type": true,
}

// Default returns a Config with lax (Eudora-tolerant) boundary matching,
// no 8-bit rejection, and the envelope-header set cached -- the
// configuration cmd/mimeindex uses when the caller hasn't supplied one of
// its own.
func Default() *Config {
	return &Config{
		RFC2046Strict: false,
		CachedHeaderPredicate: func(name string) bool {
			return defaultCachedHeaders[textproto.CanonicalMIMEHeaderKey(name)]
		},
	}
}

// Log calls cfg.Logf if set, else discards the message.
func (cfg *Config) Log(format string, args ...any) {
	if cfg == nil || cfg.Logf == nil {
		return
	}
	cfg.Logf(format, args...)
}

// CachedHeader reports whether name should be copied into cache_headers.
func (cfg *Config) CachedHeader(name string) bool {
	if cfg == nil || cfg.CachedHeaderPredicate == nil {
		return false
	}
	return cfg.CachedHeaderPredicate(name)
}
