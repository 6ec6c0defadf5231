package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"
	"github.com/mr-tron/base58"
)

// PubkeyLength is the size in bytes of every program and account identifier.
const PubkeyLength = 32

// Pubkey is a 32-byte program or account identifier. Its text form is base58.
type Pubkey [PubkeyLength]byte

// PubkeyFromBase58 decodes a base58 identifier.
func PubkeyFromBase58(s string) (Pubkey, error) {
	var pk Pubkey
	raw, err := base58.Decode(s)
	if err != nil {
		return pk, fmt.Errorf("invalid base58 identifier %q: %w", s, err)
	}
	if len(raw) != PubkeyLength {
		return pk, fmt.Errorf("invalid identifier %q: decoded to %d bytes, want %d", s, len(raw), PubkeyLength)
	}
	copy(pk[:], raw)
	return pk, nil
}

// MustPubkeyFromBase58 is like PubkeyFromBase58 but panics on error.
// Use it only for compiled-in constants.
func MustPubkeyFromBase58(s string) Pubkey {
	pk, err := PubkeyFromBase58(s)
	if err != nil {
		panic(err)
	}
	return pk
}

func (p Pubkey) String() string {
	return base58.Encode(p[:])
}

// IsZero reports whether every byte is zero.
func (p Pubkey) IsZero() bool {
	return p == Pubkey{}
}

// MarshalJSON encodes the identifier as a base58 string
func (p Pubkey) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON decodes a base58 string
func (p *Pubkey) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	pk, err := PubkeyFromBase58(s)
	if err != nil {
		return err
	}
	*p = pk
	return nil
}

// Value implements the driver.Valuer interface
func (p Pubkey) Value() (driver.Value, error) {
	return p.String(), nil
}

// Scan implements the sql.Scanner interface
func (p *Pubkey) Scan(value interface{}) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	case nil:
		*p = Pubkey{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Pubkey", value)
	}
	pk, err := PubkeyFromBase58(s)
	if err != nil {
		return err
	}
	*p = pk
	return nil
}

// PubkeyList is stored as a postgres text[] of base58 identifiers.
type PubkeyList []Pubkey

// Value implements the driver.Valuer interface
func (l PubkeyList) Value() (driver.Value, error) {
	arr := make(pq.StringArray, len(l))
	for i, pk := range l {
		arr[i] = pk.String()
	}
	return arr.Value()
}

// Scan implements the sql.Scanner interface
func (l *PubkeyList) Scan(value interface{}) error {
	var arr pq.StringArray
	if err := arr.Scan(value); err != nil {
		return err
	}
	if arr == nil {
		*l = nil
		return nil
	}
	out := make(PubkeyList, len(arr))
	for i, s := range arr {
		pk, err := PubkeyFromBase58(s)
		if err != nil {
			return fmt.Errorf("account %d: %w", i, err)
		}
		out[i] = pk
	}
	*l = out
	return nil
}
