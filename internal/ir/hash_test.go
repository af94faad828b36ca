package ir

import (
	"strings"
	"sync"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postRecord() IRObject {
	return IRObject{"content": IRString("test")}
}

func TestEntryAddressGolden(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	canonical, err := CanonicalEntry("post", postRecord())
	require.NoError(t, err)
	g.Assert(t, "post_entry_canonical", canonical)

	addr, err := EntryAddress("post", postRecord())
	require.NoError(t, err)
	g.Assert(t, "post_entry_address", []byte(addr))
}

func TestEntryAddressDeterminism(t *testing.T) {
	a1 := MustEntryAddress("post", IRObject{"content": IRString("test"), "n": IRInt(1)})
	a2 := MustEntryAddress("post", IRObject{"n": IRInt(1), "content": IRString("test")})

	assert.Equal(t, a1, a2, "key order must not affect the address")
	assert.Len(t, string(a1), AddressLen)
	assert.NoError(t, a1.Validate())
}

func TestEntryAddressChangesWithInput(t *testing.T) {
	base := MustEntryAddress("post", postRecord())

	assert.NotEqual(t, base, MustEntryAddress("post", IRObject{"content": IRString("other")}))
	assert.NotEqual(t, base, MustEntryAddress("comment", postRecord()), "entry type is part of identity")
	assert.Equal(t, MustEntryAddress("", postRecord()), MustEntryAddress(DefaultEntryType, postRecord()))
}

func TestEntryAddressNFCEquivalence(t *testing.T) {
	a1 := MustEntryAddress("post", IRObject{"content": IRString("caf\u00E9")})
	a2 := MustEntryAddress("post", IRObject{"content": IRString("cafe\u0301")})
	assert.Equal(t, a1, a2)
}

func TestEntryAddressEncodingErrors(t *testing.T) {
	_, err := EntryAddress("post", nil)
	require.Error(t, err)

	_, err = EntryAddress("post", IRObject{"content": IRNull{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "null")

	assert.Panics(t, func() { MustEntryAddress("post", IRObject{"x": IRNull{}}) })
}

func TestEntryAddressConcurrent(t *testing.T) {
	expected := MustEntryAddress("post", postRecord())

	var wg sync.WaitGroup
	results := make([]Address, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = MustEntryAddress("post", postRecord())
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, expected, r)
	}
}

func TestHashWithDomainSeparation(t *testing.T) {
	data := []byte(`{"a":1}`)
	assert.NotEqual(t, HashWithDomain(DomainEntry, data), HashWithDomain(DomainAction, data))
	assert.Equal(t, HashWithDomain(DomainEntry, data), HashWithDomain(DomainEntry, data))
}

func TestAddressValidate(t *testing.T) {
	valid := MustEntryAddress("post", postRecord())

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", string(valid), false},
		{"empty", "", true},
		{"too short", string(valid[:63]), true},
		{"too long", string(valid) + "0", true},
		{"uppercase", strings.ToUpper(string(valid)), true},
		{"non hex", strings.Repeat("g", AddressLen), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAddress(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAddressFromBytes(t *testing.T) {
	addr, err := AddressFromBytes(make([]byte, 32))
	require.NoError(t, err)
	assert.Equal(t, Address(strings.Repeat("0", AddressLen)), addr)

	_, err = AddressFromBytes(make([]byte, 31))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "32 bytes")
}

func TestActionAddressExcludesSignature(t *testing.T) {
	act := Action{
		Kind:   ActionDelete,
		Target: MustEntryAddress("post", postRecord()),
		Author: AgentID("agent:abc"),
		Seq:    3,
	}

	a1, err := ActionAddress(act)
	require.NoError(t, err)

	act.Signature = "deadbeef"
	act.Address = "ignored"
	a2, err := ActionAddress(act)
	require.NoError(t, err)
	assert.Equal(t, a1, a2)

	act.Seq = 4
	a3, err := ActionAddress(act)
	require.NoError(t, err)
	assert.NotEqual(t, a1, a3)
}
