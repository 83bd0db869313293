package user

// NOTE: commands travel from handler to usecase
// Input commands
type RegisterDeviceCommand struct {
	DeviceToken string
	Pubkey      string // 64 hex chars, x-coordinate of an even-y secp256k1 key
	Timestamp   string // ISO-8601, signed verbatim
	Signature   string // base64 compact r || s over sha256(DeviceToken || Timestamp)
}

// Complete reports whether the unsigned fields are present. An empty pubkey
// or signature is left to the verifier so it is rejected like any other
// malformed encoding.
func (c RegisterDeviceCommand) Complete() bool {
	return c.DeviceToken != "" && c.Timestamp != ""
}
