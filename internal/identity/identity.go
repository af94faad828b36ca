// Package identity holds the local agent key.
//
// An agent is an ed25519 keypair. Its AgentID is "agent:" followed by the
// hex public key, so any holder of an action can check its signature
// without a key directory.
package identity

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/ledgerstore/internal/ir"
)

// AgentPrefix precedes the hex public key in every AgentID.
const AgentPrefix = "agent:"

// ErrBadSignature is returned by Verify when a signature does not match.
var ErrBadSignature = errors.New("action signature does not verify")

// Agent is an initialized local identity.
// The zero value is not usable; construct with Generate or FromSeed.
type Agent struct {
	priv ed25519.PrivateKey
	id   ir.AgentID
}

// Generate creates a fresh agent from crypto/rand.
func Generate() (*Agent, error) {
	seed := make([]byte, ed25519.SeedSize)
	if _, err := rand.Read(seed); err != nil {
		return nil, fmt.Errorf("generate agent seed: %w", err)
	}
	return FromSeed(seed)
}

// FromSeed derives the agent from a 32-byte ed25519 seed.
func FromSeed(seed []byte) (*Agent, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("agent seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)
	return &Agent{
		priv: priv,
		id:   ir.AgentID(AgentPrefix + hex.EncodeToString(pub)),
	}, nil
}

// ParseSeed decodes a hex-encoded seed as found in config files.
func ParseSeed(s string) ([]byte, error) {
	seed, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("agent seed is not hex: %w", err)
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("agent seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	return seed, nil
}

// ID returns the agent's identifier. Nil agents report the empty ID.
func (a *Agent) ID() ir.AgentID {
	if a == nil {
		return ""
	}
	return a.id
}

// Seed returns the private seed for persistence.
func (a *Agent) Seed() []byte {
	return a.priv.Seed()
}

// Sign stamps act with the agent as author and returns it with Address and
// Signature filled in. The signature covers the action address.
func (a *Agent) Sign(act ir.Action) (ir.Action, error) {
	act.Author = a.id
	addr, err := ir.ActionAddress(act)
	if err != nil {
		return ir.Action{}, err
	}
	act.Address = addr
	act.Signature = hex.EncodeToString(ed25519.Sign(a.priv, []byte(addr)))
	return act, nil
}

// PublicKey extracts the ed25519 public key embedded in an AgentID.
func PublicKey(id ir.AgentID) (ed25519.PublicKey, error) {
	s, ok := strings.CutPrefix(string(id), AgentPrefix)
	if !ok {
		return nil, fmt.Errorf("agent id %q lacks %q prefix", id, AgentPrefix)
	}
	key, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("agent id %q: %w", id, err)
	}
	if len(key) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("agent id %q: public key must be %d bytes", id, ed25519.PublicKeySize)
	}
	return ed25519.PublicKey(key), nil
}

// Verify checks that act's address matches its body and that the signature
// was made by its author.
func Verify(act ir.Action) error {
	addr, err := ir.ActionAddress(act)
	if err != nil {
		return err
	}
	if addr != act.Address {
		return fmt.Errorf("action address %s does not match body (want %s)", act.Address, addr)
	}
	pub, err := PublicKey(act.Author)
	if err != nil {
		return err
	}
	sig, err := hex.DecodeString(act.Signature)
	if err != nil {
		return fmt.Errorf("decode signature: %w", err)
	}
	if !ed25519.Verify(pub, []byte(act.Address), sig) {
		return ErrBadSignature
	}
	return nil
}
