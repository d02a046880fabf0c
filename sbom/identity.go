package sbom

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"

	"github.com/dchest/siphash"

	"github.com/lockbom/lockbom/depgraph"
)

// NoAssertion is the SPDX sentinel substituted when source data is
// unavailable.
const NoAssertion = "NOASSERTION"

// Fixed siphash keys; changing them would change every generated
// document identifier.
const (
	idHashKey0 = 0x6c6f636b626f6d21
	idHashKey1 = 0x646f63756d656e74
)

// SpdxID derives the document-local identifier for a node purely from
// its package identifier: strip the scope marker, turn path separators
// into dots, and squash anything outside the SPDX idstring alphabet.
// When any substitution happened, a short hash of the original
// identifier is appended so distinct identifiers can never collapse
// into the same document id. The result is stable across runs.
func SpdxID(node *depgraph.Node) string {
	name := strings.TrimPrefix(node.Name, "@")
	name = strings.ReplaceAll(name, "/", ".")
	candidate, lossy := idString(name + "-" + node.Version)
	if lossy || name != node.Name {
		candidate += "-" + shortHash(node.PkgID)
	}
	return "SPDXRef-Package-" + candidate
}

// idString maps a string into the SPDX idstring alphabet (letters,
// digits, "." and "-") and reports whether anything was replaced.
func idString(text string) (string, bool) {
	var builder strings.Builder
	changed := false
	for _, char := range text {
		switch {
		case char >= 'a' && char <= 'z',
			char >= 'A' && char <= 'Z',
			char >= '0' && char <= '9',
			char == '.', char == '-':
			builder.WriteRune(char)
		default:
			builder.WriteRune('-')
			changed = true
		}
	}
	return builder.String(), changed
}

func shortHash(text string) string {
	sum := siphash.Hash(idHashKey0, idHashKey1, []byte(text))
	return fmt.Sprintf("%08x", uint32(sum))
}

// integrityRank orders SRI algorithms from weakest to strongest, so a
// multi-entry integrity string yields its strongest digest.
var integrityRank = map[string]int{
	"md5":    1,
	"sha1":   2,
	"sha256": 3,
	"sha384": 4,
	"sha512": 5,
}

// ParseIntegrity extracts a checksum record from an SRI integrity
// string such as "sha512-<base64>". It returns the upper case
// algorithm name and the lowercase hex digest. Multiple space
// separated entries yield the strongest known algorithm. Unparseable
// input reports ok=false and is never an error: callers degrade to no
// checksum record.
func ParseIntegrity(integrity string) (algorithm string, digest string, ok bool) {
	best := 0
	for _, entry := range strings.Fields(integrity) {
		alg, encoded, found := strings.Cut(entry, "-")
		if !found {
			continue
		}
		rank, known := integrityRank[strings.ToLower(alg)]
		if !known || rank <= best {
			continue
		}
		raw, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			raw, err = base64.RawStdEncoding.DecodeString(encoded)
		}
		if err != nil {
			continue
		}
		best = rank
		algorithm = strings.ToUpper(alg)
		digest = hex.EncodeToString(raw)
		ok = true
	}
	return algorithm, digest, ok
}

// cyclonedxHashAlg translates an SRI algorithm name into the CycloneDX
// hash algorithm vocabulary ("SHA512" becomes "SHA-512").
func cyclonedxHashAlg(algorithm string) string {
	switch algorithm {
	case "SHA1", "SHA256", "SHA384", "SHA512":
		return "SHA-" + strings.TrimPrefix(algorithm, "SHA")
	default:
		return algorithm
	}
}

// PackageURL builds the package-url external reference locator for a
// node. When the resolved source is a version control reference, the
// purl gains a vcs_url qualifier pointing at it.
func PackageURL(node *depgraph.Node) string {
	segments := strings.Split(node.Name, "/")
	for at, segment := range segments {
		// PathEscape leaves "@" alone, but purl wants the scope
		// marker percent-encoded.
		segments[at] = strings.ReplaceAll(url.PathEscape(segment), "@", "%40")
	}
	purl := "pkg:npm/" + strings.Join(segments, "/") + "@" + url.PathEscape(node.Version)
	if vcs := vcsLocator(node.Resolved); len(vcs) > 0 {
		purl += "?vcs_url=" + url.QueryEscape(vcs)
	}
	return purl
}

// vcsLocator reports the version control locator of a resolved source,
// or empty when the source is a registry tarball or a local link.
func vcsLocator(resolved string) string {
	if strings.HasPrefix(resolved, "git+") || strings.HasPrefix(resolved, "git://") {
		return resolved
	}
	return ""
}
