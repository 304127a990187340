package intent

import (
	"github.com/gagliardetto/solana-go"
	"github.com/go-openapi/strfmt"
	"github.com/shopspring/decimal"
	"github/chapool/intent-wallet/internal/wallet/txbuilder"
)

type ActionType string

const (
	ActionTransfer ActionType = "TRANSFER"
	ActionSwap     ActionType = "SWAP"
	ActionMintNFT  ActionType = "MINT_NFT"
	ActionError    ActionType = "ERROR"
)

// Network is the cluster tag sent to the interpreter.
type Network string

const (
	NetworkDevnet  Network = "devnet"
	NetworkMainnet Network = "mainnet"
)

// NetworkForCluster maps an RPC cluster name to the interpreter's network tag.
func NetworkForCluster(cluster string) Network {
	switch cluster {
	case "mainnet", "mainnet-beta":
		return NetworkMainnet
	default:
		return NetworkDevnet
	}
}

const (
	DefaultMintName   = "AI Gen"
	DefaultMintSymbol = "AI"
)

// Request is the body posted to the interpreter.
type Request struct {
	Prompt     string  `json:"prompt"`
	UserPubkey string  `json:"user_pubkey"`
	Network    Network `json:"network"`
}

type response struct {
	Message    string         `json:"message"`
	ActionType ActionType     `json:"action_type"`
	TxBase64   *strfmt.Base64 `json:"tx_base64,omitempty"`
	Meta       *responseMeta  `json:"meta,omitempty"`
}

type responseMeta struct {
	Amount    *decimal.Decimal `json:"amount,omitempty"`
	TokenIn   *string          `json:"token_in,omitempty"`
	TokenOut  *string          `json:"token_out,omitempty"`
	Recipient *string          `json:"recipient,omitempty"`
	Name      *string          `json:"name,omitempty"`
	Symbol    *string          `json:"symbol,omitempty"`
	URI       *string          `json:"uri,omitempty"`
	Network   *string          `json:"network,omitempty"`
}

type paymentRequiredBody struct {
	Error   string `json:"error"`
	Address string `json:"address"`
	Amount  uint64 `json:"amount"`
}

// Summary is the display only view of an interpretation shown for confirmation.
type Summary struct {
	Action    ActionType `json:"action"`
	Message   string     `json:"message"`
	Amount    string     `json:"amount,omitempty"`
	TokenIn   string     `json:"token_in,omitempty"`
	TokenOut  string     `json:"token_out,omitempty"`
	Recipient string     `json:"recipient,omitempty"`
	Name      string     `json:"name,omitempty"`
	Network   string     `json:"network,omitempty"`
}

// Interpretation is one of Transfer, Swap, MintNFT or ErrorReply.
type Interpretation interface {
	Action() ActionType
	Summary() Summary
	interpretation()
}

// Transfer moves SOL. Tx is set when the interpreter pre-built the transaction,
// otherwise Amount and Recipient are.
type Transfer struct {
	Message   string
	Amount    decimal.Decimal
	Recipient solana.PublicKey
	Tx        []byte
	Network   string
}

type Swap struct {
	Message  string
	Amount   decimal.Decimal
	TokenIn  string
	TokenOut string
	Tx       []byte
	Network  string
}

// MintNFT carries metadata only; the transaction is built locally.
type MintNFT struct {
	Message  string
	Metadata txbuilder.Metadata
	Network  string
}

// ErrorReply is the interpreter declining the prompt.
type ErrorReply struct {
	Message string
}

func (Transfer) Action() ActionType   { return ActionTransfer }
func (Swap) Action() ActionType       { return ActionSwap }
func (MintNFT) Action() ActionType    { return ActionMintNFT }
func (ErrorReply) Action() ActionType { return ActionError }

func (Transfer) interpretation()   {}
func (Swap) interpretation()       {}
func (MintNFT) interpretation()    {}
func (ErrorReply) interpretation() {}

func (t Transfer) Summary() Summary {
	s := Summary{Action: ActionTransfer, Message: t.Message, TokenIn: "SOL", Network: t.Network}
	if !t.Amount.IsZero() {
		s.Amount = t.Amount.String()
	}
	if !t.Recipient.IsZero() {
		s.Recipient = t.Recipient.String()
	}

	return s
}

func (s Swap) Summary() Summary {
	out := Summary{Action: ActionSwap, Message: s.Message, TokenIn: s.TokenIn, TokenOut: s.TokenOut, Network: s.Network}
	if !s.Amount.IsZero() {
		out.Amount = s.Amount.String()
	}

	return out
}

func (m MintNFT) Summary() Summary {
	return Summary{Action: ActionMintNFT, Message: m.Message, Name: m.Metadata.Name, Network: m.Network}
}

func (e ErrorReply) Summary() Summary {
	return Summary{Action: ActionError, Message: e.Message}
}
