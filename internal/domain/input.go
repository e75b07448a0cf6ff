package domain

import (
	"bytes"         // Raw JSON inspection
	"encoding/json" // Payload decoding
	"errors"        // Range errors
	"regexp"        // Integer text
	"strconv"       // Integer parsing
	"strings"       // Whitespace trimming
)

// Problem describes why a supplied field could not be decoded
type Problem int

const (
	// ProblemNull marks a field sent as an explicit null
	ProblemNull Problem = iota + 1
	// ProblemNotInteger marks a user_id that is not an integer
	ProblemNotInteger
	// ProblemNotString marks a string field sent as a bool, object or array
	ProblemNotString
)

// Integers may be written with a zero fraction, e.g. "5" or "5.00"
var integerText = regexp.MustCompile(`^([+-]?\d+)(\.0*)?$`)

// WalletInput is the write payload for a wallet. A nil field was not supplied
// by the caller; which fields must be present depends on the validation mode.
// Fields that were supplied but unusable are listed in Problems instead.
type WalletInput struct {
	UserID     *int64  `json:"user_id" validate:"required,min=-2147483648,max=2147483647"`
	Address    *string `json:"address" validate:"required,min=1,max=42"`
	PrivateKey *string `json:"private_key" validate:"required,min=1,max=64"`
	PublicKey  *string `json:"public_key" validate:"required,min=1,max=64"`

	Problems map[string]Problem `json:"-" validate:"-"` // Keyed by JSON field name
}

// UnmarshalJSON records explicit nulls and accepts user_id as a number or a
// numeric string.
func (in *WalletInput) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*in = WalletInput{}
	for name, value := range raw {
		switch name {
		case "user_id":
			in.setUserIDJSON(value)
		case "address":
			in.Address = in.stringJSON(name, value)
		case "private_key":
			in.PrivateKey = in.stringJSON(name, value)
		case "public_key":
			in.PublicKey = in.stringJSON(name, value)
		}
	}
	return nil
}

// SetUserIDText parses text as the user_id, recording a problem when it is
// not an integer.
func (in *WalletInput) SetUserIDText(text string) {
	m := integerText.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		in.addProblem("user_id", ProblemNotInteger)
		return
	}
	// Out of range values saturate and are rejected by the range rule
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		in.addProblem("user_id", ProblemNotInteger)
		return
	}
	in.UserID = &n
}

// TrimSpace strips surrounding whitespace from the supplied string fields
func (in *WalletInput) TrimSpace() {
	for _, f := range []**string{&in.Address, &in.PrivateKey, &in.PublicKey} {
		if *f != nil {
			trimmed := strings.TrimSpace(**f)
			*f = &trimmed
		}
	}
}

func (in *WalletInput) setUserIDJSON(value json.RawMessage) {
	value = bytes.TrimSpace(value)
	switch {
	case isNull(value):
		in.addProblem("user_id", ProblemNull)
	case len(value) > 0 && value[0] == '"':
		var text string
		if err := json.Unmarshal(value, &text); err != nil {
			in.addProblem("user_id", ProblemNotInteger)
			return
		}
		in.SetUserIDText(text)
	default:
		in.SetUserIDText(string(value)) // Numbers keep their literal text
	}
}

func (in *WalletInput) stringJSON(name string, value json.RawMessage) *string {
	value = bytes.TrimSpace(value)
	switch {
	case isNull(value):
		in.addProblem(name, ProblemNull)
		return nil
	case len(value) > 0 && value[0] == '"':
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			in.addProblem(name, ProblemNotString)
			return nil
		}
		return &s
	case len(value) > 0 && (value[0] == '-' || (value[0] >= '0' && value[0] <= '9')):
		s := string(value) // Numbers are accepted as their text
		return &s
	default:
		in.addProblem(name, ProblemNotString)
		return nil
	}
}

func (in *WalletInput) addProblem(name string, p Problem) {
	if in.Problems == nil {
		in.Problems = make(map[string]Problem)
	}
	in.Problems[name] = p
}

func isNull(value json.RawMessage) bool {
	return bytes.Equal(value, []byte("null"))
}

// Columns returns the supplied fields keyed by column name
func (in WalletInput) Columns() map[string]any {
	cols := make(map[string]any, 4)
	if in.UserID != nil {
		cols["user_id"] = *in.UserID
	}
	if in.Address != nil {
		cols["address"] = *in.Address
	}
	if in.PrivateKey != nil {
		cols["private_key"] = *in.PrivateKey
	}
	if in.PublicKey != nil {
		cols["public_key"] = *in.PublicKey
	}
	return cols
}

// Apply copies the supplied fields onto w
func (in WalletInput) Apply(w *Wallet) {
	if in.UserID != nil {
		w.UserID = *in.UserID
	}
	if in.Address != nil {
		w.Address = *in.Address
	}
	if in.PrivateKey != nil {
		w.PrivateKey = *in.PrivateKey
	}
	if in.PublicKey != nil {
		w.PublicKey = *in.PublicKey
	}
}
