package chain

import (
	"fmt"
	"math/big"
	"reflect"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/streamtide/deploy-cli/internal/domain"
)

// convertArgs coerces loosely typed migration arguments into the Go types the
// ABI packer expects: hex strings become addresses and integers become *big.Int.
func convertArgs(inputs abi.Arguments, args []any) ([]any, error) {
	if len(inputs) != len(args) {
		return nil, fmt.Errorf("expected %d arguments, got %d", len(inputs), len(args))
	}
	out := make([]any, len(args))
	for i, arg := range args {
		v, err := convertArg(inputs[i].Type, arg)
		if err != nil {
			name := inputs[i].Name
			if name == "" {
				name = fmt.Sprintf("#%d", i)
			}
			return nil, fmt.Errorf("argument %s: %w", name, err)
		}
		out[i] = v
	}
	return out, nil
}

func convertArg(t abi.Type, arg any) (any, error) {
	switch t.T {
	case abi.AddressTy:
		return toAddress(arg)

	case abi.IntTy, abi.UintTy:
		if t.Size > 64 {
			return toBigInt(arg)
		}
		return arg, nil

	case abi.SliceTy:
		if t.Elem.T != abi.AddressTy {
			return arg, nil
		}
		items, ok := toSlice(arg)
		if !ok {
			return arg, nil
		}
		addrs := make([]common.Address, len(items))
		for i, item := range items {
			a, err := toAddress(item)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			addrs[i] = a
		}
		return addrs, nil

	default:
		return arg, nil
	}
}

func toAddress(v any) (common.Address, error) {
	switch a := v.(type) {
	case common.Address:
		return a, nil
	case string:
		if !common.IsHexAddress(a) {
			return common.Address{}, fmt.Errorf("%q: %w", a, domain.ErrInvalidAddress)
		}
		return common.HexToAddress(a), nil
	default:
		return common.Address{}, fmt.Errorf("%v (%T): %w", v, v, domain.ErrInvalidAddress)
	}
}

func toBigInt(v any) (*big.Int, error) {
	switch n := v.(type) {
	case *big.Int:
		return n, nil
	case int:
		return big.NewInt(int64(n)), nil
	case int64:
		return big.NewInt(n), nil
	case uint64:
		return new(big.Int).SetUint64(n), nil
	case float64:
		if n != float64(int64(n)) {
			return nil, fmt.Errorf("%v is not an integer", n)
		}
		return big.NewInt(int64(n)), nil
	case string:
		b, ok := new(big.Int).SetString(n, 0)
		if !ok {
			return nil, fmt.Errorf("%q is not an integer", n)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unsupported integer value %T", v)
	}
}

func toSlice(v any) ([]any, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
