// Package rpctest serves a small in-memory Solana JSON-RPC endpoint for
// tests: accounts, jsonParsed token accounts, epoch, blockhash and
// transaction simulation.
package rpctest

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/tidwall/gjson"
)

type Account struct {
	Owner    solana.PublicKey
	Data     []byte
	Lamports uint64
}

// TokenAccount is listed by getTokenAccountsByOwner under its program.
type TokenAccount struct {
	Address  solana.PublicKey
	Mint     solana.PublicKey
	Owner    solana.PublicKey
	Amount   uint64
	Decimals uint8
}

type Server struct {
	*httptest.Server

	Epoch     uint64
	Blockhash solana.Hash
	// SimulationErr, when set, is returned as the simulation's err.
	SimulationErr any

	mu            sync.Mutex
	accounts      map[solana.PublicKey]Account
	tokenAccounts map[solana.PublicKey][]TokenAccount
	calls         map[string]int
	simulated     [][]byte
}

func NewServer() *Server {
	s := &Server{
		Epoch:         500,
		Blockhash:     solana.Hash{7},
		accounts:      map[solana.PublicKey]Account{},
		tokenAccounts: map[solana.PublicKey][]TokenAccount{},
		calls:         map[string]int{},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	return s
}

func (s *Server) SetAccount(key solana.PublicKey, account Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if account.Lamports == 0 {
		account.Lamports = 1_000_000
	}
	s.accounts[key] = account
}

func (s *Server) AddTokenAccount(program solana.PublicKey, account TokenAccount) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokenAccounts[program] = append(s.tokenAccounts[program], account)
}

// Calls reports how often method was requested.
func (s *Server) Calls(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

// Simulated returns the wire bytes of every simulated transaction.
func (s *Server) Simulated() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]byte(nil), s.simulated...)
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	req := gjson.ParseBytes(body)
	method := req.Get("method").String()
	params := req.Get("params")

	s.mu.Lock()
	s.calls[method]++
	result, rpcErr := s.handle(method, params)
	s.mu.Unlock()

	resp := map[string]any{"jsonrpc": "2.0", "id": json.RawMessage(idOf(req))}
	if rpcErr != nil {
		resp["error"] = rpcErr
	} else {
		resp["result"] = result
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func idOf(req gjson.Result) string {
	if id := req.Get("id"); id.Exists() {
		return id.Raw
	}
	return "null"
}

func withContext(value any) map[string]any {
	return map[string]any{"context": map[string]any{"slot": 1}, "value": value}
}

func (s *Server) handle(method string, params gjson.Result) (any, map[string]any) {
	switch method {
	case "getAccountInfo":
		return withContext(s.accountJSON(params.Get("0").String())), nil
	case "getMultipleAccounts":
		var list []any
		for _, key := range params.Get("0").Array() {
			list = append(list, s.accountJSON(key.String()))
		}
		return withContext(list), nil
	case "getTokenAccountsByOwner":
		return withContext(s.tokenAccountsJSON(params.Get("0").String(), params.Get("1.programId").String())), nil
	case "getEpochInfo":
		return map[string]any{
			"absoluteSlot":     s.Epoch * 432_000,
			"blockHeight":      s.Epoch * 432_000,
			"epoch":            s.Epoch,
			"slotIndex":        0,
			"slotsInEpoch":     432_000,
			"transactionCount": 0,
		}, nil
	case "getLatestBlockhash":
		return withContext(map[string]any{
			"blockhash":            s.Blockhash.String(),
			"lastValidBlockHeight": 1_000,
		}), nil
	case "simulateTransaction":
		raw, err := base64.StdEncoding.DecodeString(params.Get("0").String())
		if err != nil {
			return nil, map[string]any{"code": -32602, "message": err.Error()}
		}
		s.simulated = append(s.simulated, raw)
		value := map[string]any{"err": nil, "logs": []string{"Program log: ok"}, "accounts": nil, "unitsConsumed": 5_000}
		if s.SimulationErr != nil {
			value["err"] = s.SimulationErr
			value["logs"] = []string{"Program log: custom program error: 0x1"}
		}
		return withContext(value), nil
	}
	return nil, map[string]any{"code": -32601, "message": "method not found: " + method}
}

func (s *Server) accountJSON(key string) any {
	pk, err := solana.PublicKeyFromBase58(key)
	if err != nil {
		return nil
	}
	account, ok := s.accounts[pk]
	if !ok {
		return nil
	}
	return map[string]any{
		"data":       []string{base64.StdEncoding.EncodeToString(account.Data), "base64"},
		"executable": false,
		"lamports":   account.Lamports,
		"owner":      account.Owner.String(),
		"rentEpoch":  0,
		"space":      len(account.Data),
	}
}

func (s *Server) tokenAccountsJSON(owner, program string) []any {
	programID, err := solana.PublicKeyFromBase58(program)
	if err != nil {
		return []any{}
	}
	list := []any{}
	for _, ta := range s.tokenAccounts[programID] {
		if ta.Owner.String() != owner {
			continue
		}
		amount := strconv.FormatUint(ta.Amount, 10)
		list = append(list, map[string]any{
			"pubkey": ta.Address.String(),
			"account": map[string]any{
				"data": map[string]any{
					"program": "spl-token",
					"parsed": map[string]any{
						"type": "account",
						"info": map[string]any{
							"mint":  ta.Mint.String(),
							"owner": ta.Owner.String(),
							"state": "initialized",
							"tokenAmount": map[string]any{
								"amount":         amount,
								"decimals":       ta.Decimals,
								"uiAmountString": amount,
							},
						},
					},
					"space": 165,
				},
				"executable": false,
				"lamports":   2_039_280,
				"owner":      programID.String(),
				"rentEpoch":  0,
				"space":      165,
			},
		})
	}
	return list
}
