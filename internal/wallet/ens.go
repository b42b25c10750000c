package wallet

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ENSRegistryAddress is the ENS registry on Ethereum mainnet
var ENSRegistryAddress = common.HexToAddress("0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e")

const ensABI = `[
	{"type":"function","name":"resolver","stateMutability":"view","inputs":[{"name":"node","type":"bytes32"}],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"name","stateMutability":"view","inputs":[{"name":"node","type":"bytes32"}],"outputs":[{"name":"","type":"string"}]},
	{"type":"function","name":"addr","stateMutability":"view","inputs":[{"name":"node","type":"bytes32"}],"outputs":[{"name":"","type":"address"}]}
]`

var parsedENSABI = mustParseABI(ensABI)

func mustParseABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(err)
	}
	return parsed
}

// ENSReverseResolver looks up the primary ENS name of an address through the registry
// contracts. A name is only returned when it resolves forward to the same address.
type ENSReverseResolver struct {
	caller   ethereum.ContractCaller
	registry common.Address
}

// NewENSReverseResolver creates a resolver using the mainnet registry
func NewENSReverseResolver(caller ethereum.ContractCaller) *ENSReverseResolver {
	return &ENSReverseResolver{caller: caller, registry: ENSRegistryAddress}
}

// LookupAddress returns the verified ENS name of address, or "" when it has none
func (r *ENSReverseResolver) LookupAddress(ctx context.Context, address common.Address) (string, error) {
	reverseNode := Namehash(strings.ToLower(address.Hex()[2:]) + ".addr.reverse")

	resolver, err := r.resolver(ctx, reverseNode)
	if err != nil || resolver == (common.Address{}) {
		return "", err
	}

	var name string
	if err := r.call(ctx, resolver, "name", reverseNode, &name); err != nil {
		return "", err
	}
	if name == "" {
		return "", nil
	}

	forwardNode := Namehash(name)
	forwardResolver, err := r.resolver(ctx, forwardNode)
	if err != nil || forwardResolver == (common.Address{}) {
		return "", err
	}
	var resolved common.Address
	if err := r.call(ctx, forwardResolver, "addr", forwardNode, &resolved); err != nil {
		return "", err
	}
	if resolved != address {
		return "", nil
	}
	return name, nil
}

func (r *ENSReverseResolver) resolver(ctx context.Context, node [32]byte) (common.Address, error) {
	var resolver common.Address
	err := r.call(ctx, r.registry, "resolver", node, &resolver)
	return resolver, err
}

func (r *ENSReverseResolver) call(ctx context.Context, to common.Address, method string, node [32]byte, out interface{}) error {
	input, err := parsedENSABI.Pack(method, node)
	if err != nil {
		return fmt.Errorf("ens pack %s: %w", method, err)
	}
	output, err := r.caller.CallContract(ctx, ethereum.CallMsg{To: &to, Data: input}, nil)
	if err != nil {
		return fmt.Errorf("ens call %s: %w", method, err)
	}
	if len(output) == 0 {
		return nil
	}
	values, err := parsedENSABI.Unpack(method, output)
	if err != nil {
		return fmt.Errorf("ens unpack %s: %w", method, err)
	}
	if len(values) != 1 {
		return fmt.Errorf("ens %s: unexpected %d return values", method, len(values))
	}

	switch dst := out.(type) {
	case *common.Address:
		v, ok := values[0].(common.Address)
		if !ok {
			return fmt.Errorf("ens %s: unexpected return type %T", method, values[0])
		}
		*dst = v
	case *string:
		v, ok := values[0].(string)
		if !ok {
			return fmt.Errorf("ens %s: unexpected return type %T", method, values[0])
		}
		*dst = v
	default:
		return fmt.Errorf("ens %s: unsupported output %T", method, out)
	}
	return nil
}

// Namehash computes the EIP-137 node of an ENS name
func Namehash(name string) [32]byte {
	var node [32]byte
	if name == "" {
		return node
	}
	labels := strings.Split(name, ".")
	for i := len(labels) - 1; i >= 0; i-- {
		labelHash := crypto.Keccak256([]byte(labels[i]))
		copy(node[:], crypto.Keccak256(node[:], labelHash))
	}
	return node
}
