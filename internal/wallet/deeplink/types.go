package deeplink

// Flow names the callback path segment a signer answer arrives on.
type Flow string

const (
	FlowConnect         Flow = "onConnect"
	FlowSignTransaction Flow = "onSignTransaction"
	FlowDisconnect      Flow = "onDisconnect"
	FlowUnknown         Flow = ""
)

func (f Flow) String() string {
	if f == FlowUnknown {
		return "unknown"
	}

	return string(f)
}

// Request methods appended to the signer base URL.
const (
	MethodConnect         = "connect"
	MethodSignTransaction = "signTransaction"
	MethodDisconnect      = "disconnect"
)

// Query parameters of requests and callbacks.
const (
	ParamDappEncryptionPublicKey    = "dapp_encryption_public_key"
	ParamCluster                    = "cluster"
	ParamAppURL                     = "app_url"
	ParamRedirectLink               = "redirect_link"
	ParamNonce                      = "nonce"
	ParamPayload                    = "payload"
	ParamPhantomEncryptionPublicKey = "phantom_encryption_public_key"
	ParamData                       = "data"
	ParamErrorCode                  = "errorCode"
	ParamErrorMessage               = "errorMessage"
	// ParamGeneration is added to our own redirect links so a callback can be
	// matched to the orchestrator generation that issued the request.
	ParamGeneration = "generation"
)

// Meta is common to every callback event.
type Meta struct {
	Flow          Flow
	Generation    uint64
	HasGeneration bool
}

// Event is the tagged union produced by ParseCallback.
type Event interface {
	CallbackMeta() Meta
}

// ErrorReported is an errorCode/errorMessage callback. It takes priority over
// every other interpretation of the callback.
type ErrorReported struct {
	Meta
	Code    string
	Message string
}

// Connected answers a connect request.
type Connected struct {
	Meta
	PeerPublic []byte
	Nonce      []byte
	Ciphertext []byte
}

// Signed answers a signTransaction request.
type Signed struct {
	Meta
	Nonce      []byte
	Ciphertext []byte
}

// Disconnected answers a disconnect request.
type Disconnected struct {
	Meta
}

// Unrecognized is a callback on a path this transport does not know.
type Unrecognized struct {
	Meta
	Path string
}

func (m Meta) CallbackMeta() Meta {
	return m
}
