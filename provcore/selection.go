package provcore

// Selection is a capability-selection mask describing which parts of a key
// object an operation should consider. Bits are independent and may be
// combined by callers.
type Selection uint

// Selection bits
const (
	// SelectPublicKey selects the public half of a key.
	SelectPublicKey Selection = 1 << iota
	// SelectPrivateKey selects the private half of a key.
	SelectPrivateKey
	// SelectKeyPair requests an algebraic key-pair equality check on match.
	SelectKeyPair
	// SelectDomainParameters requests a domain-parameter equality check on match.
	SelectDomainParameters
)

// SelectKeypair selects both halves of a key for import.
const SelectKeypair = SelectPublicKey | SelectPrivateKey

// Has reports whether all bits of the flag are set in the selection.
func (s Selection) Has(flag Selection) bool {
	return s&flag == flag
}
