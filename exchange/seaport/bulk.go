package seaport

import (
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/x-xyz/aggregator/domain"
	"golang.org/x/xerrors"
)

// Bulk signatures cover a merkle tree of order hashes so a maker signs once
// for a whole batch. The wire format is the plain 64/65 byte signature,
// a 3 byte leaf index and then one 32 byte sibling per tree level.

func IsBulkSignature(sig []byte) bool {
	n := len(sig)
	return (n-67)%32 == 0 || (n-68)%32 == 0
}

func DecodeBulkSignature(sig []byte) (inner []byte, key uint32, proofs [][]byte, err error) {
	sigLen := 64
	if (len(sig)-68)%32 == 0 {
		sigLen = 65
	} else if (len(sig)-67)%32 != 0 {
		return nil, 0, nil, xerrors.New("malformed bulk signature")
	}
	inner = sig[:sigLen]
	keyBytes := sig[sigLen : sigLen+3]
	key = uint32(keyBytes[0])<<16 | uint32(keyBytes[1])<<8 | uint32(keyBytes[2])
	rest := sig[sigLen+3:]
	for len(rest) >= 32 {
		proofs = append(proofs, rest[:32])
		rest = rest[32:]
	}
	return inner, key, proofs, nil
}

func EncodeBulkSignature(inner []byte, key uint32, proofs [][]byte) []byte {
	out := make([]byte, 0, len(inner)+3+32*len(proofs))
	out = append(out, inner...)
	out = append(out, byte(key>>16), byte(key>>8), byte(key))
	for _, p := range proofs {
		out = append(out, p...)
	}
	return out
}

// ComputeBulkRoot folds the leaf back up to the tree root. Bit i of the key
// says whether the leaf sits on the right side at level i.
func ComputeBulkRoot(leaf []byte, key uint32, proofs [][]byte) []byte {
	cur := leaf
	for i, p := range proofs {
		if key&(1<<uint(i)) != 0 {
			cur = crypto.Keccak256(p, cur)
		} else {
			cur = crypto.Keccak256(cur, p)
		}
	}
	return cur
}

func bulkOrderTypeString(height int) string {
	var b strings.Builder
	b.WriteString("BulkOrder(OrderComponents")
	for i := 0; i < height; i++ {
		b.WriteString("[2]")
	}
	b.WriteString(" tree)")
	return b.String()
}

// BulkOrderTypeHash derives the typehash for a tree of the given height.
func BulkOrderTypeHash(height int) ([]byte, error) {
	typedData := apitypes.TypedData{Types: OrderTypes, PrimaryType: PrimaryType}
	components := typedData.EncodeType(PrimaryType)
	return crypto.Keccak256([]byte(bulkOrderTypeString(height) + string(components))), nil
}

// BulkSignHash is the digest a maker signs for a bulk order tree.
func BulkSignHash(chainId domain.ChainId, version Version, exchange domain.Address, height int, root []byte) ([]byte, error) {
	typeHash, err := BulkOrderTypeHash(height)
	if err != nil {
		return nil, err
	}
	structHash := crypto.Keccak256(typeHash, root)

	typedData := apitypes.TypedData{
		Types:       OrderTypes,
		PrimaryType: PrimaryType,
		Domain:      GetDomainSeperator(chainId, exchange, version),
	}
	domainSeparator, err := typedData.HashStruct(Eip712DomainName, typedData.Domain.Map())
	if err != nil {
		return nil, err
	}
	raw := append([]byte{0x19, 0x01}, append(domainSeparator, structHash...)...)
	return crypto.Keccak256(raw), nil
}

// BulkTree pads the orders to a power of two and precomputes every level
// so per-order proofs can be extracted.
type BulkTree struct {
	Orders []*Order
	levels [][][]byte
}

func NewBulkTree(orders []*Order) (*BulkTree, error) {
	if len(orders) < 2 {
		return nil, xerrors.New("bulk tree needs at least two orders")
	}
	size := 2
	for size < len(orders) {
		size *= 2
	}

	leaves := make([][]byte, size)
	for i := range leaves {
		var err error
		if i < len(orders) {
			leaves[i], err = orders[i].Params.Hash()
		} else {
			leaves[i], err = emptyOrderComponents().Hash()
		}
		if err != nil {
			return nil, err
		}
	}

	levels := [][][]byte{leaves}
	for len(levels[len(levels)-1]) > 1 {
		prev := levels[len(levels)-1]
		next := make([][]byte, len(prev)/2)
		for i := range next {
			next[i] = crypto.Keccak256(prev[2*i], prev[2*i+1])
		}
		levels = append(levels, next)
	}

	return &BulkTree{Orders: orders, levels: levels}, nil
}

func (t *BulkTree) Height() int {
	return len(t.levels) - 1
}

func (t *BulkTree) Root() []byte {
	return t.levels[len(t.levels)-1][0]
}

func (t *BulkTree) Proof(index int) (uint32, [][]byte) {
	proofs := make([][]byte, 0, t.Height())
	idx := index
	for level := 0; level < t.Height(); level++ {
		sibling := idx ^ 1
		proofs = append(proofs, t.levels[level][sibling])
		idx /= 2
	}
	return uint32(index), proofs
}

// SignHash is the digest covering every order in the tree.
func (t *BulkTree) SignHash(chainId domain.ChainId, version Version, exchange domain.Address) ([]byte, error) {
	return BulkSignHash(chainId, version, exchange, t.Height(), t.Root())
}

// SignatureData renders the typed data a wallet prompts for, with the tree
// expanded into nested pairs the way the contract hashes it.
func (t *BulkTree) SignatureData(chainId domain.ChainId, version Version, exchange domain.Address) (*apitypes.TypedData, error) {
	height := t.Height()

	types := apitypes.Types{}
	for k, v := range OrderTypes {
		types[k] = v
	}
	treeType := "OrderComponents"
	for i := 0; i < height; i++ {
		treeType += "[2]"
	}
	types["BulkOrder"] = []apitypes.Type{{Name: "tree", Type: treeType}}

	messages := make([]interface{}, len(t.levels[0]))
	for i := range messages {
		if i < len(t.Orders) {
			messages[i] = t.Orders[i].Params.ToMessage()
		} else {
			messages[i] = emptyOrderComponents().ToMessage()
		}
	}
	tree := nestPairs(messages)

	return &apitypes.TypedData{
		Types:       types,
		PrimaryType: "BulkOrder",
		Domain:      GetDomainSeperator(chainId, exchange, version),
		Message:     apitypes.TypedDataMessage{"tree": tree},
	}, nil
}

func nestPairs(items []interface{}) interface{} {
	if len(items) == 2 {
		return []interface{}{items[0], items[1]}
	}
	half := len(items) / 2
	return []interface{}{nestPairs(items[:half]), nestPairs(items[half:])}
}

func emptyOrderComponents() *OrderComponents {
	return &OrderComponents{
		Offerer:    domain.EmptyAddress,
		Zone:       domain.EmptyAddress,
		ZoneHash:   HashZero,
		Salt:       "0",
		ConduitKey: HashZero,
		Counter:    "0",
	}
}
