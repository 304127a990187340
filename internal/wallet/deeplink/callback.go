package deeplink

import (
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/mr-tron/base58"
	"github/chapool/intent-wallet/internal/wallet/failure"
)

var knownFlows = map[string]Flow{
	string(FlowConnect):         FlowConnect,
	string(FlowSignTransaction): FlowSignTransaction,
	string(FlowDisconnect):      FlowDisconnect,
}

// ParseCallback classifies a callback URI by its path segment before anything
// is decrypted. An errorCode parameter wins over every other interpretation.
// A recognized path with missing parameters is an error, an unknown path is
// returned as Unrecognized.
func ParseCallback(raw string) (Event, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, failure.Wrap(failure.KindCallbackParse, err, "invalid callback URI")
	}

	segment := flowSegment(u)
	meta := Meta{Flow: knownFlows[segment]}

	q := u.Query()

	if g := q.Get(ParamGeneration); g != "" {
		gen, err := strconv.ParseUint(g, 10, 64)
		if err != nil {
			return nil, failure.Wrap(failure.KindCallbackParse, err, "invalid generation parameter")
		}
		meta.Generation = gen
		meta.HasGeneration = true
	}

	if q.Has(ParamErrorCode) {
		return ErrorReported{
			Meta:    meta,
			Code:    q.Get(ParamErrorCode),
			Message: q.Get(ParamErrorMessage),
		}, nil
	}

	switch meta.Flow {
	case FlowConnect:
		peer, err := requireBase58(q, ParamPhantomEncryptionPublicKey, publicKeySize)
		if err != nil {
			return nil, err
		}
		nonce, err := requireBase58(q, ParamNonce, nonceSize)
		if err != nil {
			return nil, err
		}
		data, err := requireBase58(q, ParamData, 0)
		if err != nil {
			return nil, err
		}

		return Connected{Meta: meta, PeerPublic: peer, Nonce: nonce, Ciphertext: data}, nil

	case FlowSignTransaction:
		nonce, err := requireBase58(q, ParamNonce, nonceSize)
		if err != nil {
			return nil, err
		}
		data, err := requireBase58(q, ParamData, 0)
		if err != nil {
			return nil, err
		}

		return Signed{Meta: meta, Nonce: nonce, Ciphertext: data}, nil

	case FlowDisconnect:
		return Disconnected{Meta: meta}, nil

	default:
		return Unrecognized{Meta: meta, Path: segment}, nil
	}
}

// flowSegment returns the last path segment, or the host for custom scheme
// links without a path (myapp://onConnect?...).
func flowSegment(u *url.URL) string {
	p := strings.Trim(u.Path, "/")
	if p != "" {
		return path.Base(p)
	}

	if u.Opaque != "" {
		return path.Base(strings.Trim(u.Opaque, "/"))
	}

	return u.Host
}

// requireBase58 decodes a mandatory parameter. size 0 accepts any non-empty value.
func requireBase58(q url.Values, name string, size int) ([]byte, error) {
	v := q.Get(name)
	if v == "" {
		return nil, failure.Newf(failure.KindCallbackParse, "missing required parameter %s", name)
	}

	b, err := base58.Decode(v)
	if err != nil {
		return nil, failure.Wrap(failure.KindCallbackParse, err, "parameter "+name+" is not base58")
	}

	if len(b) == 0 || (size > 0 && len(b) != size) {
		return nil, failure.Newf(failure.KindCallbackParse, "parameter %s has invalid length %d", name, len(b))
	}

	return b, nil
}
