package txbuilder

import (
	"slices"

	"github.com/gagliardetto/solana-go"
	"github/chapool/intent-wallet/internal/wallet/failure"
)

// Finalize attaches stamp and feePayer to tx, applies the partial signatures of
// the transaction's own local signers plus extraSigners and returns the wire
// bytes. Signature slots of signers not held locally stay zeroed. tx itself is
// not modified, so it can be finalized again with a newer stamp.
func Finalize(tx UnsignedTransaction, stamp FreshnessStamp, feePayer solana.PublicKey, extraSigners ...solana.PrivateKey) ([]byte, error) {
	if stamp.IsZero() {
		return nil, failure.New(failure.KindInvalidState, "transaction has no freshness stamp")
	}
	if feePayer.IsZero() {
		return nil, failure.New(failure.KindNotConnected, "no fee payer")
	}

	var (
		solTx   *solana.Transaction
		signers []solana.PrivateKey
		err     error
	)

	switch t := tx.(type) {
	case *Legacy:
		solTx, err = t.compile(stamp.Blockhash, feePayer)
		signers = append(slices.Clone(t.signers), extraSigners...)
	case *Versioned:
		if len(extraSigners) > 0 {
			return nil, failure.New(failure.KindUnsupportedForVersioned, "versioned transactions cannot take additional local signers")
		}
		solTx, err = t.decode(stamp.Blockhash, feePayer)
	default:
		return nil, failure.Newf(failure.KindInvalidState, "unsupported transaction %T", tx)
	}
	if err != nil {
		return nil, err
	}

	if err := partialSign(solTx, signers); err != nil {
		return nil, err
	}

	out, err := solTx.MarshalBinary()
	if err != nil {
		return nil, failure.Wrap(failure.KindEncoding, err, "failed to serialize transaction")
	}

	return out, nil
}

// Describe summarizes tx as it would be finalized for feePayer.
func Describe(tx UnsignedTransaction, feePayer solana.PublicKey) (Summary, error) {
	var (
		solTx *solana.Transaction
		err   error
	)

	summary := Summary{Format: tx.Format()}

	switch t := tx.(type) {
	case *Legacy:
		summary.LocalPartialSigners = len(t.signers)
		summary.ExternallyConstructed = t.External()
		if t.External() {
			solTx, err = decodeExternal(t.raw, false)
		} else {
			solTx, err = t.compile(solana.Hash{}, feePayer)
		}
	case *Versioned:
		summary.ExternallyConstructed = true
		solTx, err = decodeExternal(t.raw, t.bare)
	default:
		return Summary{}, failure.Newf(failure.KindInvalidState, "unsupported transaction %T", tx)
	}
	if err != nil {
		return Summary{}, err
	}

	summary.Instructions = len(solTx.Message.Instructions)
	summary.RequiredSignatures = int(solTx.Message.Header.NumRequiredSignatures)
	summary.FeePayer = solTx.Message.AccountKeys[0]
	summary.RecentBlockhash = solTx.Message.RecentBlockhash
	summary.AddressTableLookups = len(solTx.Message.AddressTableLookups)

	return summary, nil
}

func (l *Legacy) compile(blockhash solana.Hash, feePayer solana.PublicKey) (*solana.Transaction, error) {
	if l.External() {
		tx, err := decodeExternal(l.raw, false)
		if err != nil {
			return nil, err
		}

		return restamp(tx, blockhash, feePayer)
	}

	if len(l.instructions) == 0 {
		return nil, failure.New(failure.KindInvalidState, "transaction has no instructions")
	}

	tx, err := solana.NewTransaction(l.instructions, blockhash, solana.TransactionPayer(feePayer))
	if err != nil {
		return nil, failure.Wrap(failure.KindEncoding, err, "failed to compile transaction")
	}
	tx.Signatures = make([]solana.Signature, tx.Message.Header.NumRequiredSignatures)

	return tx, nil
}

func (v *Versioned) decode(blockhash solana.Hash, feePayer solana.PublicKey) (*solana.Transaction, error) {
	tx, err := decodeExternal(v.raw, v.bare)
	if err != nil {
		return nil, err
	}

	return restamp(tx, blockhash, feePayer)
}

// restamp replaces the blockhash of an external transaction. Existing
// signatures no longer cover the message and are cleared.
func restamp(tx *solana.Transaction, blockhash solana.Hash, feePayer solana.PublicKey) (*solana.Transaction, error) {
	if payer := tx.Message.AccountKeys[0]; !payer.Equals(feePayer) {
		return nil, failure.Newf(failure.KindFeePayerMismatch, "transaction fee payer %s is not the connected wallet %s", payer, feePayer)
	}

	tx.Message.RecentBlockhash = blockhash
	tx.Signatures = make([]solana.Signature, tx.Message.Header.NumRequiredSignatures)

	return tx, nil
}

func partialSign(tx *solana.Transaction, signers []solana.PrivateKey) error {
	if len(signers) == 0 {
		return nil
	}

	msg, err := tx.Message.MarshalBinary()
	if err != nil {
		return failure.Wrap(failure.KindEncoding, err, "failed to serialize message")
	}

	required := int(tx.Message.Header.NumRequiredSignatures)
	for _, key := range signers {
		pub := key.PublicKey()

		idx := slices.IndexFunc(tx.Message.AccountKeys[:required], pub.Equals)
		if idx < 0 {
			return failure.Newf(failure.KindInvalidState, "%s is not a required signer", pub)
		}

		sig, err := key.Sign(msg)
		if err != nil {
			return failure.Wrap(failure.KindEncoding, err, "failed to sign message")
		}
		tx.Signatures[idx] = sig
	}

	return nil
}
