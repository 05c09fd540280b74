// Package ledger implements an in-process ledger engine with the same
// admission semantics as the test network: signature checks for every
// transaction source, single-use sequence numbers, fee deduction and
// atomic operation application. It backs the embedded gateway mode and
// the workflow tests.
package ledger

var (
	// Fee charged per operation.
	GenesisBaseFee = int64(100)
	// Minimum native balance a fresh account must start with.
	GenesisBaseReserve = int64(1000)
	// Native balance granted by the embedded friendbot.
	GenesisFriendbotBalance = int64(10000000)
)
