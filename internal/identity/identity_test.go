package identity

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ledgerstore/internal/ir"
)

func fixedSeed() []byte {
	return bytes.Repeat([]byte{7}, 32)
}

func TestFromSeedDeterministic(t *testing.T) {
	a1, err := FromSeed(fixedSeed())
	require.NoError(t, err)
	a2, err := FromSeed(fixedSeed())
	require.NoError(t, err)

	assert.Equal(t, a1.ID(), a2.ID())
	assert.True(t, strings.HasPrefix(string(a1.ID()), AgentPrefix))
	assert.Len(t, string(a1.ID()), len(AgentPrefix)+64)
	assert.Equal(t, fixedSeed(), a1.Seed())
}

func TestFromSeedWrongLength(t *testing.T) {
	_, err := FromSeed([]byte{1, 2, 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "32 bytes")
}

func TestGenerateDistinct(t *testing.T) {
	a1, err := Generate()
	require.NoError(t, err)
	a2, err := Generate()
	require.NoError(t, err)
	assert.NotEqual(t, a1.ID(), a2.ID())
}

func TestParseSeed(t *testing.T) {
	seed, err := ParseSeed(strings.Repeat("07", 32))
	require.NoError(t, err)
	assert.Equal(t, fixedSeed(), seed)

	_, err = ParseSeed("zz")
	require.Error(t, err)

	_, err = ParseSeed("0707")
	require.Error(t, err)
}

func TestNilAgentID(t *testing.T) {
	var a *Agent
	assert.Equal(t, ir.AgentID(""), a.ID())
}

func TestSignAndVerify(t *testing.T) {
	agent, err := FromSeed(fixedSeed())
	require.NoError(t, err)

	target := ir.MustEntryAddress("post", ir.IRObject{"content": ir.IRString("test")})
	act, err := agent.Sign(ir.Action{Kind: ir.ActionDelete, Target: target, Seq: 1})
	require.NoError(t, err)

	assert.Equal(t, agent.ID(), act.Author)
	assert.NoError(t, act.Address.Validate())
	assert.NotEmpty(t, act.Signature)
	assert.NoError(t, Verify(act))
}

func TestVerifyDetectsTampering(t *testing.T) {
	agent, err := FromSeed(fixedSeed())
	require.NoError(t, err)
	other, err := Generate()
	require.NoError(t, err)

	act, err := agent.Sign(ir.Action{Kind: ir.ActionDelete, Target: "t", Seq: 1})
	require.NoError(t, err)

	tampered := act
	tampered.Seq = 2
	assert.Error(t, Verify(tampered), "body change breaks the address")

	forged := act
	forged.Author = other.ID()
	assert.Error(t, Verify(forged))

	resigned, err := other.Sign(ir.Action{Kind: ir.ActionDelete, Target: "t", Seq: 1})
	require.NoError(t, err)
	swapped := resigned
	swapped.Signature = act.Signature
	assert.ErrorIs(t, Verify(swapped), ErrBadSignature)
}

func TestPublicKeyErrors(t *testing.T) {
	_, err := PublicKey("nope")
	assert.Error(t, err)
	_, err = PublicKey(AgentPrefix + "zz")
	assert.Error(t, err)
	_, err = PublicKey(AgentPrefix + "abcd")
	assert.Error(t, err)
}
