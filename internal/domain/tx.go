package domain

import "math/big"

// TxOptions are passed through to the network unchanged.
type TxOptions struct {
	// Gas is the gas limit; zero means the network's configured default
	Gas uint64
	// GasPrice overrides the network's configured gas price
	GasPrice *big.Int
	// From must match the configured signer when set
	From string
}

// WithGas returns a copy of o with a different gas limit
func (o TxOptions) WithGas(gas uint64) TxOptions {
	o.Gas = gas
	return o
}

// DeployedContract is the outcome of a deployment transaction
type DeployedContract struct {
	Name    string
	Address string
	TxHash  string
}

// ContractHandle refers to a contract at a known address, typed by its artifact
type ContractHandle struct {
	Name    string
	Address string
}

// InvokeResult is the outcome of a state-changing call
type InvokeResult struct {
	TxHash      string
	BlockNumber uint64
	GasUsed     uint64
}
