package graph

import (
	"encoding/hex"
	"strings"

	"github.com/go-crypt/x/blake2b"
)

// Node and edge ids are deterministic: the same semantic parts always yield
// the same id, across process restarts. Clients cache and cross-reference
// ids, so the scheme here must never change shape silently.

const (
	// digestLen is the number of hex characters kept from the digest.
	digestLen = 10

	// partSeparator joins the normalized parts fed to the digest.
	partSeparator = "|"

	// emptyPartToken stands in for a part that normalizes to nothing.
	emptyPartToken = "X"
)

// NodeID builds a stable id for a node from its semantic parts.
// Format: <PREFIX>_<firstNormalizedPart>_<digest>.
func NodeID(nodeType NodeType, parts ...string) string {
	prefix := NodeSchemas[nodeType].Prefix
	if prefix == "" {
		prefix = string(nodeType)
	}
	return composeID(prefix, parts)
}

// EdgeID builds a stable id for an edge over (edgeType, fromId, toId).
// Callers must pass endpoints in the edge's logical order; for undirected
// edge types, canonicalize the pair first (see SimilarityEdgeID).
func EdgeID(edgeType EdgeType, fromID, toID string) string {
	return composeID(string(edgeType), []string{fromID, toID})
}

// SimilarityEdgeID builds the id of a SIMILAR_TO edge over an unordered
// chunk node pair. The pair is canonicalized by sorting, so both call
// directions yield the same id.
func SimilarityEdgeID(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return EdgeID(EdgeSimilarTo, a, b)
}

// composeID assembles <prefix>_<firstNormalizedPart>_<digest>.
func composeID(prefix string, parts []string) string {
	normalized := make([]string, len(parts))
	for i, part := range parts {
		normalized[i] = normalizePart(part)
	}

	first := emptyPartToken
	if len(normalized) > 0 {
		first = normalized[0]
	}

	var sb strings.Builder
	sb.WriteString(prefix)
	sb.WriteByte('_')
	sb.WriteString(first)
	sb.WriteByte('_')
	sb.WriteString(digestParts(prefix, normalized))
	return sb.String()
}

// normalizePart uppercases a part and collapses every run of
// non-alphanumeric characters to a single underscore. Leading and trailing
// underscores are trimmed; a part that normalizes to nothing becomes the
// sentinel token.
func normalizePart(part string) string {
	var sb strings.Builder
	pendingSep := false
	for _, r := range strings.ToUpper(part) {
		alnum := (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !alnum {
			if sb.Len() > 0 {
				pendingSep = true
			}
			continue
		}
		if pendingSep {
			sb.WriteByte('_')
			pendingSep = false
		}
		sb.WriteRune(r)
	}
	if sb.Len() == 0 {
		return emptyPartToken
	}
	return sb.String()
}

// digestParts returns the first digestLen hex chars of a BLAKE2b digest
// over the prefix and normalized parts.
func digestParts(prefix string, normalized []string) string {
	h, _ := blake2b.New(16, nil)
	h.Write([]byte(prefix))
	for _, part := range normalized {
		h.Write([]byte(partSeparator))
		h.Write([]byte(part))
	}
	return hex.EncodeToString(h.Sum(nil))[:digestLen]
}
