package solana

import (
	"github.com/gagliardetto/solana-go"
	computebudget "github.com/gagliardetto/solana-go/programs/compute-budget"
)

// SplitInstructions splits instructions into three phases: compute budget,
// account preparation (ATA creation) and the rest. Repeated creations of the
// same associated token account are dropped.
func SplitInstructions(instructions []solana.Instruction) (budget, prepare, body []solana.Instruction) {
	seenATA := make(map[solana.PublicKey]struct{})
	for _, ix := range instructions {
		switch ix.ProgramID() {
		case computebudget.ProgramID:
			budget = append(budget, ix)
		case solana.SPLAssociatedTokenAccountProgramID:
			accounts := ix.Accounts()
			if len(accounts) < 2 {
				body = append(body, ix)
				continue
			}
			ata := accounts[1].PublicKey
			if _, ok := seenATA[ata]; ok {
				continue
			}
			seenATA[ata] = struct{}{}
			prepare = append(prepare, ix)
		default:
			body = append(body, ix)
		}
	}
	return budget, prepare, body
}

// MergeInstructions reorders and deduplicates an instruction list for one
// transaction.
func MergeInstructions(instructions []solana.Instruction) []solana.Instruction {
	budget, prepare, body := SplitInstructions(instructions)
	out := make([]solana.Instruction, 0, len(budget)+len(prepare)+len(body))
	out = append(out, budget...)
	out = append(out, prepare...)
	return append(out, body...)
}
