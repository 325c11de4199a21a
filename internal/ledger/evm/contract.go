package evm

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"github.com/rovshanmuradov/launchpad/internal/ledger"
)

// contract is a named bound contract.
type contract struct {
	name  string
	addr  common.Address
	bound *bind.BoundContract
}

// bindContract returns nil for an empty address.
func bindContract(backend bind.ContractBackend, name, addr string, parsed abi.ABI) (*contract, error) {
	if addr == "" {
		return nil, nil
	}
	if !common.IsHexAddress(addr) {
		return nil, fmt.Errorf("invalid %s address %q", name, addr)
	}
	a := common.HexToAddress(addr)
	return &contract{
		name:  name,
		addr:  a,
		bound: bind.NewBoundContract(a, parsed, backend, backend, backend),
	}, nil
}

func (ct *contract) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	if ct == nil {
		return nil, ledger.ErrNotConfigured
	}
	var out []interface{}
	if err := ct.bound.Call(&bind.CallOpts{Context: ctx}, &out, method, args...); err != nil {
		return nil, ledger.NewCallError(err, ct.name, method)
	}
	if len(out) == 0 {
		return nil, ledger.NewCallError(fmt.Errorf("empty result"), ct.name, method)
	}
	return out, nil
}

func (ct *contract) callBig(ctx context.Context, method string, args ...interface{}) (*big.Int, error) {
	out, err := ct.call(ctx, method, args...)
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

func (ct *contract) callBool(ctx context.Context, method string, args ...interface{}) (bool, error) {
	out, err := ct.call(ctx, method, args...)
	if err != nil {
		return false, err
	}
	return *abi.ConvertType(out[0], new(bool)).(*bool), nil
}

func (ct *contract) callAddress(ctx context.Context, method string, args ...interface{}) (common.Address, error) {
	out, err := ct.call(ctx, method, args...)
	if err != nil {
		return common.Address{}, err
	}
	return *abi.ConvertType(out[0], new(common.Address)).(*common.Address), nil
}

func (ct *contract) callBigSlice(ctx context.Context, method string, args ...interface{}) ([]*big.Int, error) {
	out, err := ct.call(ctx, method, args...)
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new([]*big.Int)).(*[]*big.Int), nil
}

func (ct *contract) callAddressSlice(ctx context.Context, method string, args ...interface{}) ([]common.Address, error) {
	out, err := ct.call(ctx, method, args...)
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new([]common.Address)).(*[]common.Address), nil
}
