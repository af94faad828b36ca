package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// The version suffix leaves room for a future algorithm migration.
const (
	DomainEntry  = "ledger/entry/v1"
	DomainAction = "ledger/action/v1"
)

// AddressLen is the length of a hex-encoded SHA-256 address.
const AddressLen = sha256.Size * 2

// DefaultEntryType is used when a record is stored without an explicit type.
const DefaultEntryType = "entry"

// Address is the lowercase hex SHA-256 content address of an entry or action.
type Address string

func (a Address) String() string { return string(a) }

// Validate reports whether a is a structurally valid address:
// exactly AddressLen lowercase hex characters.
func (a Address) Validate() error {
	if len(a) != AddressLen {
		return fmt.Errorf("address must be %d hex characters, got %d", AddressLen, len(a))
	}
	for i := 0; i < len(a); i++ {
		c := a[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			return fmt.Errorf("address has non-hex character %q at offset %d", c, i)
		}
	}
	return nil
}

// ParseAddress validates s and returns it as an Address.
func ParseAddress(s string) (Address, error) {
	a := Address(s)
	if err := a.Validate(); err != nil {
		return "", err
	}
	return a, nil
}

// AddressFromBytes encodes a raw 32-byte digest as an Address.
// Any other length is malformed.
func AddressFromBytes(b []byte) (Address, error) {
	if len(b) != sha256.Size {
		return "", fmt.Errorf("address digest must be %d bytes, got %d", sha256.Size, len(b))
	}
	return Address(hex.EncodeToString(b)), nil
}

// HashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte prevents domain/data boundary ambiguity.
func HashWithDomain(domain string, data []byte) Address {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return Address(hex.EncodeToString(h.Sum(nil)))
}

// EntryForm returns the value that is canonicalized and hashed for an entry.
// The entry type is part of the identity: the same content under two types
// yields two addresses.
func EntryForm(entryType string, record IRObject) IRObject {
	if entryType == "" {
		entryType = DefaultEntryType
	}
	return IRObject{
		"entry_type": IRString(entryType),
		"content":    record,
	}
}

// CanonicalEntry returns the canonical bytes of an entry.
func CanonicalEntry(entryType string, record IRObject) ([]byte, error) {
	if record == nil {
		return nil, fmt.Errorf("record is nil")
	}
	canonical, err := MarshalCanonical(EntryForm(entryType, record))
	if err != nil {
		return nil, fmt.Errorf("canonical entry: %w", err)
	}
	return canonical, nil
}

// EntryAddress computes the content address of a typed record.
func EntryAddress(entryType string, record IRObject) (Address, error) {
	canonical, err := CanonicalEntry(entryType, record)
	if err != nil {
		return "", err
	}
	return HashWithDomain(DomainEntry, canonical), nil
}

// MustEntryAddress is like EntryAddress but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustEntryAddress(entryType string, record IRObject) Address {
	addr, err := EntryAddress(entryType, record)
	if err != nil {
		panic(err)
	}
	return addr
}

// ActionAddress computes the content address of an action from its signed
// body. The signature itself is excluded so the address is what gets signed.
func ActionAddress(act Action) (Address, error) {
	canonical, err := MarshalCanonical(act.Body())
	if err != nil {
		return "", fmt.Errorf("action address: %w", err)
	}
	return HashWithDomain(DomainAction, canonical), nil
}
