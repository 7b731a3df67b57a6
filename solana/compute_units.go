package solana

import (
	"context"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	computebudget "github.com/gagliardetto/solana-go/programs/compute-budget"
	"github.com/gagliardetto/solana-go/rpc"
)

const (
	DefaultSimulationUnits uint32 = 1_400_000

	MinCuBuffer = 50_000
	MaxCuBuffer = 200_000
)

// GetSimulationComputeUnits simulates instructions under the maximum compute
// limit and returns the units consumed.
func GetSimulationComputeUnits(
	ctx context.Context,
	rpcClient *rpc.Client,
	instructions []solana.Instruction,
	payer solana.PublicKey,
) (uint64, error) {
	if len(instructions) == 0 {
		return 0, fmt.Errorf("no instructions to simulate")
	}

	testInstructions := make([]solana.Instruction, 0, len(instructions)+1)
	testInstructions = append(testInstructions, computebudget.NewSetComputeUnitLimitInstructionBuilder().
		SetUnits(DefaultSimulationUnits).
		Build())
	testInstructions = append(testInstructions, instructions...)

	tx, err := solana.NewTransaction(testInstructions, solana.Hash{}, solana.TransactionPayer(payer))
	if err != nil {
		return 0, err
	}

	resp, err := rpcClient.SimulateTransactionWithOpts(ctx, tx, &rpc.SimulateTransactionOpts{
		SigVerify:              false,
		ReplaceRecentBlockhash: true,
		Commitment:             rpc.CommitmentConfirmed,
	})
	if err != nil {
		return 0, fmt.Errorf("simulate transaction: %w", err)
	}
	if resp == nil || resp.Value == nil {
		return 0, nil
	}
	if resp.Value.Err != nil {
		return 0, simulationError(resp.Value.Err, resp.Value.Logs)
	}
	if resp.Value.UnitsConsumed == nil {
		return 0, nil
	}
	return *resp.Value.UnitsConsumed, nil
}

// UnitsWithBuffer adds buffer (a fraction, clamped to [0, 1]) on top of the
// estimate; the extra is clamped to [MinCuBuffer, MaxCuBuffer].
func UnitsWithBuffer(estimated uint64, buffer float64) uint32 {
	buffer = max(0, min(buffer, 1))
	extra := uint64(float64(estimated) * buffer)
	extra = max(MinCuBuffer, min(extra, MaxCuBuffer))
	total := estimated + extra
	if total > uint64(DefaultSimulationUnits) {
		return DefaultSimulationUnits
	}
	return uint32(total)
}

// GetEstimatedComputeUnitIxWithBuffer builds a SetComputeUnitLimit
// instruction from a simulation. On failure the instruction carries
// DefaultSimulationUnits and the error is returned alongside it.
func GetEstimatedComputeUnitIxWithBuffer(
	ctx context.Context,
	rpcClient *rpc.Client,
	instructions []solana.Instruction,
	payer solana.PublicKey,
	buffer float64,
) (solana.Instruction, error) {
	units, err := GetSimulationComputeUnits(ctx, rpcClient, instructions, payer)
	if err != nil || units == 0 {
		return computebudget.NewSetComputeUnitLimitInstructionBuilder().
			SetUnits(DefaultSimulationUnits).
			Build(), err
	}
	return computebudget.NewSetComputeUnitLimitInstructionBuilder().
		SetUnits(UnitsWithBuffer(units, buffer)).
		Build(), nil
}

func simulationError(txErr interface{}, logs []string) error {
	detail := "no logs"
	if len(logs) > 0 {
		detail = strings.Join(logs, "\n  ")
	}
	return fmt.Errorf("transaction simulation failed: %v\n  %s", txErr, detail)
}
