package session

// State is the lifecycle of the relationship with the external signer.
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
)

func (s State) String() string {
	return string(s)
}

// ConnectData is the decrypted body of a connect callback.
type ConnectData struct {
	PublicKey string `json:"public_key"`
	Session   string `json:"session"`
}

// SignTransactionPayload is encrypted into a sign request. Transaction is base58 wire bytes.
type SignTransactionPayload struct {
	Transaction string `json:"transaction"`
	Session     string `json:"session"`
}

// SignTransactionData is the decrypted body of a sign callback.
type SignTransactionData struct {
	Transaction string `json:"transaction"`
}

// DisconnectPayload is encrypted into a disconnect request.
type DisconnectPayload struct {
	Session string `json:"session"`
}
