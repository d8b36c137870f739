package encoder

import (
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"

	"cstrgen/common"
)

// LookupCharset returns single byte code page by its IANA name.
func LookupCharset(name string) (encoding.Encoding, error) {
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("unknown character set %q: %w", name, err)
	}
	if enc == nil {
		// known to IANA, but not implemented by x/text
		return nil, fmt.Errorf("unsupported character set %q", name)
	}
	return enc, nil
}

// narrower casts characters of a single text. It is not safe for concurrent
// use since charset encoder keeps state.
type narrower struct {
	policy common.NarrowingPolicy
	enc    *encoding.Encoder
}

func newNarrower(policy common.NarrowingPolicy, charset encoding.Encoding) *narrower {
	n := &narrower{policy: policy}
	if policy == common.NarrowingPolicyCharset && charset != nil {
		n.enc = charset.NewEncoder()
	}
	return n
}

// narrow returns element value for r, or reason it cannot be represented.
func (n *narrower) narrow(r rune) (int8, string) {
	switch n.policy {
	case common.NarrowingPolicyTruncate:
		// low 8 bits, two's complement
		return int8(r), ""
	case common.NarrowingPolicyCharset:
		if n.enc == nil {
			return 0, "no character set selected"
		}
		b, err := n.enc.String(string(r))
		if err != nil {
			return 0, "not in character set"
		}
		if len(b) != 1 {
			return 0, fmt.Sprintf("encodes to %d bytes in character set", len(b))
		}
		return int8(b[0]), ""
	default:
		if r < 0 || r > 0x7F {
			return 0, "outside of 7-bit ASCII range"
		}
		return int8(r), ""
	}
}

// Narrow casts a single character to element type under policy. Charset is
// only consulted by charset policy.
func Narrow(r rune, policy common.NarrowingPolicy, charset encoding.Encoding) (int8, error) {
	v, reason := newNarrower(policy, charset).narrow(r)
	if reason != "" {
		return 0, &RepresentationError{Rune: r, Reason: reason}
	}
	return v, nil
}
