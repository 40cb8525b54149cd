package starknet

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// maskSnKeccak keeps the low 250 bits of a keccak digest, per the Starknet
// entrypoint selector definition.
var maskSnKeccak = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 250), big.NewInt(1))

// EntrypointSelector returns sn_keccak(name) as a hex felt: the keccak256 of
// the entrypoint name truncated to 250 bits.
func EntrypointSelector(name string) string {
	digest := crypto.Keccak256([]byte(name))
	selector := new(big.Int).SetBytes(digest)
	selector.And(selector, maskSnKeccak)
	return hexutil.EncodeBig(selector)
}
