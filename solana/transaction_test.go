package solana

import (
	"context"
	"encoding/binary"
	"testing"

	"github.com/krazyTry/clmm-cli/solana/rpctest"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/rpc"
)

func TestSendInstructionSimulate(t *testing.T) {
	srv := rpctest.NewServer()
	defer srv.Close()

	payer := solana.NewWallet()
	sender := NewSender(rpc.New(srv.URL), nil)
	sender.Simulate = true

	ix := system.NewTransferInstruction(1, payer.PublicKey(), solana.NewWallet().PublicKey()).Build()
	sig, err := sender.SendInstruction(context.Background(), []solana.Instruction{ix}, payer.PublicKey(), NewSigner(payer))
	if err != nil {
		t.Fatal("SendInstruction() fail", err)
	}
	if !sig.IsZero() {
		t.Fatalf("simulate mode returned signature %s", sig)
	}
	if srv.Calls("sendTransaction") != 0 || srv.Calls("simulateTransaction") != 1 {
		t.Fatalf("send %d simulate %d", srv.Calls("sendTransaction"), srv.Calls("simulateTransaction"))
	}

	tx, err := solana.TransactionFromBytes(srv.Simulated()[0])
	if err != nil {
		t.Fatal("TransactionFromBytes() fail", err)
	}
	if err = tx.VerifySignatures(); err != nil {
		t.Fatal("simulated transaction is not signed by the payer", err)
	}
	if !tx.Message.RecentBlockhash.Equals(srv.Blockhash) {
		t.Fatal("latest blockhash not used")
	}
}

func TestSendInstructionComputeBudget(t *testing.T) {
	srv := rpctest.NewServer()
	defer srv.Close()

	payer := solana.NewWallet()
	sender := NewSender(rpc.New(srv.URL), nil)
	sender.Simulate = true
	sender.ComputeBudget = true

	ix := system.NewTransferInstruction(1, payer.PublicKey(), solana.NewWallet().PublicKey()).Build()
	if _, err := sender.SendInstruction(context.Background(), []solana.Instruction{ix}, payer.PublicKey(), NewSigner(payer)); err != nil {
		t.Fatal("SendInstruction() fail", err)
	}
	simulated := srv.Simulated()
	if len(simulated) != 2 {
		t.Fatalf("%d simulations, want estimate + final", len(simulated))
	}
	tx, err := solana.TransactionFromBytes(simulated[1])
	if err != nil {
		t.Fatal("TransactionFromBytes() fail", err)
	}
	first := tx.Message.Instructions[0]
	if !tx.Message.AccountKeys[first.ProgramIDIndex].Equals(solana.ComputeBudget) {
		t.Fatal("compute unit limit must come first")
	}
	if units := binary.LittleEndian.Uint32(first.Data[1:5]); units != 5_000+MinCuBuffer {
		t.Fatalf("compute unit limit %d", units)
	}
}

func TestSendInstructionSimulationError(t *testing.T) {
	srv := rpctest.NewServer()
	defer srv.Close()
	srv.SimulationErr = map[string]any{"InstructionError": []any{0, map[string]any{"Custom": 1}}}

	payer := solana.NewWallet()
	sender := NewSender(rpc.New(srv.URL), nil)
	sender.Simulate = true

	ix := system.NewTransferInstruction(1, payer.PublicKey(), solana.NewWallet().PublicKey()).Build()
	if _, err := sender.SendInstruction(context.Background(), []solana.Instruction{ix}, payer.PublicKey(), NewSigner(payer)); err == nil {
		t.Fatal("failed simulation should be reported")
	}
}
