package intent

import (
	"github.com/gagliardetto/solana-go"
	"github.com/go-openapi/swag"
	"github.com/shopspring/decimal"
	"github/chapool/intent-wallet/internal/wallet/failure"
	"github/chapool/intent-wallet/internal/wallet/txbuilder"
)

// decodeResponse maps the wire envelope onto the closed set of interpretations.
func decodeResponse(r response) (Interpretation, error) {
	meta := r.Meta
	if meta == nil {
		meta = &responseMeta{}
	}

	var tx []byte
	if r.TxBase64 != nil && len(*r.TxBase64) > 0 {
		tx = []byte(*r.TxBase64)
	}

	var amount decimal.Decimal
	if meta.Amount != nil {
		amount = *meta.Amount
	}
	network := swag.StringValue(meta.Network)

	switch r.ActionType {
	case ActionTransfer:
		t := Transfer{Message: r.Message, Amount: amount, Tx: tx, Network: network}

		if recipient := swag.StringValue(meta.Recipient); recipient != "" {
			pk, err := solana.PublicKeyFromBase58(recipient)
			if err != nil {
				return nil, failure.Wrap(failure.KindInvalidIntent, err, "invalid transfer recipient")
			}
			t.Recipient = pk
		}

		if tx == nil {
			if t.Recipient.IsZero() {
				return nil, failure.New(failure.KindInvalidIntent, "transfer has neither a transaction nor a recipient")
			}
			if !t.Amount.IsPositive() {
				return nil, failure.New(failure.KindInvalidIntent, "transfer amount must be positive")
			}
		}

		return t, nil

	case ActionSwap:
		if tx == nil {
			return nil, failure.New(failure.KindInvalidIntent, "swap response carries no transaction")
		}

		return Swap{
			Message:  r.Message,
			Amount:   amount,
			TokenIn:  swag.StringValue(meta.TokenIn),
			TokenOut: swag.StringValue(meta.TokenOut),
			Tx:       tx,
			Network:  network,
		}, nil

	case ActionMintNFT:
		m := txbuilder.Metadata{
			Name:   swag.StringValue(meta.Name),
			Symbol: swag.StringValue(meta.Symbol),
			URI:    swag.StringValue(meta.URI),
		}
		if m.Name == "" {
			m.Name = DefaultMintName
		}
		if m.Symbol == "" {
			m.Symbol = DefaultMintSymbol
		}

		return MintNFT{Message: r.Message, Metadata: m, Network: network}, nil

	case ActionError:
		return ErrorReply{Message: r.Message}, nil

	default:
		return nil, failure.Newf(failure.KindInvalidIntent, "unknown action_type %q", r.ActionType)
	}
}
