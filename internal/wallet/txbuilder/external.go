package txbuilder

import (
	"bytes"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github/chapool/intent-wallet/internal/wallet/failure"
)

const (
	messageVersionPrefix byte = 0x80
	supportedVersion     byte = 0
)

// AcceptExternal classifies bytes built elsewhere. A leading byte with the
// high bit set is a bare versioned message. Otherwise the leading byte is the
// signature count and the byte after the signatures is the message prefix,
// which has the high bit set only for versioned messages. The bytes must then
// decode cleanly as that format.
func AcceptExternal(raw []byte) (UnsignedTransaction, error) {
	format, bare, err := classify(raw)
	if err != nil {
		return nil, err
	}

	if _, err := decodeExternal(raw, bare); err != nil {
		return nil, err
	}

	if format == FormatVersioned {
		return &Versioned{raw: bytes.Clone(raw), bare: bare}, nil
	}

	return &Legacy{raw: bytes.Clone(raw)}, nil
}

func classify(raw []byte) (Format, bool, error) {
	if len(raw) == 0 {
		return "", false, failure.New(failure.KindUnrecognizedTransactionFormat, "empty transaction")
	}

	if raw[0]&messageVersionPrefix != 0 {
		if err := checkVersion(raw[0]); err != nil {
			return "", false, err
		}

		return FormatVersioned, true, nil
	}

	sigs := int(raw[0])
	offset := 1 + sigs*solana.SignatureLength
	if sigs == 0 || len(raw) <= offset {
		return "", false, failure.Newf(failure.KindUnrecognizedTransactionFormat, "%d bytes cannot hold %d signatures and a message", len(raw), sigs)
	}

	if raw[offset]&messageVersionPrefix != 0 {
		if err := checkVersion(raw[offset]); err != nil {
			return "", false, err
		}

		return FormatVersioned, false, nil
	}

	return FormatLegacy, false, nil
}

func checkVersion(prefix byte) error {
	if v := prefix &^ messageVersionPrefix; v != supportedVersion {
		return failure.Newf(failure.KindUnrecognizedTransactionFormat, "unsupported message version %d", v)
	}

	return nil
}

// decodeExternal parses raw and checks it re-encodes to the same length.
func decodeExternal(raw []byte, bare bool) (*solana.Transaction, error) {
	var (
		tx        *solana.Transaction
		reencoded []byte
		err       error
	)

	if bare {
		var msg solana.Message
		if err = msg.UnmarshalWithDecoder(bin.NewBinDecoder(raw)); err != nil {
			return nil, failure.Wrap(failure.KindUnrecognizedTransactionFormat, err, "failed to decode message")
		}
		tx = &solana.Transaction{Message: msg}
		reencoded, err = tx.Message.MarshalBinary()
	} else {
		tx, err = solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
		if err != nil {
			return nil, failure.Wrap(failure.KindUnrecognizedTransactionFormat, err, "failed to decode transaction")
		}
		if len(tx.Signatures) != int(tx.Message.Header.NumRequiredSignatures) {
			return nil, failure.Newf(failure.KindUnrecognizedTransactionFormat,
				"transaction carries %d signatures but requires %d", len(tx.Signatures), tx.Message.Header.NumRequiredSignatures)
		}
		reencoded, err = tx.MarshalBinary()
	}

	if err != nil {
		return nil, failure.Wrap(failure.KindUnrecognizedTransactionFormat, err, "failed to re-encode transaction")
	}

	if len(reencoded) != len(raw) {
		return nil, failure.Newf(failure.KindUnrecognizedTransactionFormat, "%d trailing or missing bytes", len(raw)-len(reencoded))
	}

	required := int(tx.Message.Header.NumRequiredSignatures)
	if required == 0 || len(tx.Message.AccountKeys) < required {
		return nil, failure.New(failure.KindUnrecognizedTransactionFormat, "transaction has no fee payer")
	}

	return tx, nil
}

// Inspect classifies raw and summarizes it as it is, without restamping.
func Inspect(raw []byte) (Summary, error) {
	tx, err := AcceptExternal(raw)
	if err != nil {
		return Summary{}, err
	}

	return Describe(tx, solana.PublicKey{})
}
