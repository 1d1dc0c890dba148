package solana

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTicketAccountData(used bool, eventID string, owner PublicKey) []byte {
	data := make([]byte, 0, ticketAccountMinSize+len(eventID))
	flag := byte(0)
	if used {
		flag = 1
	}
	data = append(data, flag)
	data = binary.LittleEndian.AppendUint32(data, uint32(len(eventID)))
	data = append(data, eventID...)
	data = append(data, owner[:]...)
	return data
}

func TestParseTicketAccount_RoundTrip(t *testing.T) {
	owner := MustParsePublicKey("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	data := buildTicketAccountData(false, "event-001", owner)

	acc := ParseTicketAccount(data)
	require.NotNil(t, acc)
	assert.False(t, acc.Used)
	assert.Equal(t, "event-001", acc.EventID)
	assert.Equal(t, owner, acc.Owner)
}

func TestParseTicketAccount_UsedFlag(t *testing.T) {
	owner := MustParsePublicKey("SysvarRent111111111111111111111111111111111")
	acc := ParseTicketAccount(buildTicketAccountData(true, "E1", owner))
	require.NotNil(t, acc)
	assert.True(t, acc.Used)
}

func TestParseTicketAccount_Malformed(t *testing.T) {
	owner := MustParsePublicKey("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")

	tests := []struct {
		name string
		data []byte
	}{
		{"nil buffer", nil},
		{"empty buffer", []byte{}},
		{"ten bytes", make([]byte, 10)},
		{"one under minimum", make([]byte, ticketAccountMinSize-1)},
		{"flag out of range", func() []byte {
			d := buildTicketAccountData(false, "E1", owner)
			d[0] = 7
			return d
		}()},
		{"length prefix past end", func() []byte {
			d := buildTicketAccountData(false, "E1", owner)
			binary.LittleEndian.PutUint32(d[1:5], 1<<30)
			return d
		}()},
		{"owner truncated", func() []byte {
			d := buildTicketAccountData(false, "E1", owner)
			return d[:len(d)-5]
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, ParseTicketAccount(tt.data))
		})
	}
}

func TestParseTokenAccount(t *testing.T) {
	mint := MustParsePublicKey("SysvarRent111111111111111111111111111111111")
	owner := MustParsePublicKey("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")

	data := make([]byte, TokenAccountSize)
	copy(data[0:32], mint[:])
	copy(data[32:64], owner[:])
	binary.LittleEndian.PutUint64(data[64:72], 2_500_000)

	acc := ParseTokenAccount(data)
	require.NotNil(t, acc)
	assert.Equal(t, mint, acc.Mint)
	assert.Equal(t, owner, acc.Owner)
	assert.Equal(t, uint64(2_500_000), acc.Amount)

	assert.Nil(t, ParseTokenAccount(data[:71]))
	assert.Nil(t, ParseTokenAccount(nil))
}

func TestNewTokenTransferInstruction(t *testing.T) {
	source := MustParsePublicKey("SysvarRent111111111111111111111111111111111")
	dest := MustParsePublicKey("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	owner := MustParsePublicKey("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")

	ix := NewTokenTransferInstruction(source, dest, owner, 1_000_000)

	assert.Equal(t, TokenProgramID, ix.ProgramID)
	require.Len(t, ix.Accounts, 3)
	assert.True(t, ix.Accounts[0].IsWritable)
	assert.True(t, ix.Accounts[2].IsSigner)

	require.Len(t, ix.Data, 9)
	assert.Equal(t, byte(tokenInstructionTransfer), ix.Data[0])
	assert.Equal(t, uint64(1_000_000), binary.LittleEndian.Uint64(ix.Data[1:]))
}

func TestInstructionJSONRoundTrip(t *testing.T) {
	source := MustParsePublicKey("SysvarRent111111111111111111111111111111111")
	dest := MustParsePublicKey("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	owner := MustParsePublicKey("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")

	original := NewTokenTransferInstruction(source, dest, owner, 42)

	encoded, err := original.MarshalJSON()
	require.NoError(t, err)

	var decoded Instruction
	require.NoError(t, decoded.UnmarshalJSON(encoded))

	assert.Equal(t, original.ProgramID, decoded.ProgramID)
	assert.Equal(t, original.Accounts, decoded.Accounts)
	assert.Equal(t, original.Data, decoded.Data)
}

func TestParsePublicKey(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"system program", "11111111111111111111111111111111", false},
		{"token program", "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA", false},
		{"empty", "", true},
		{"bad alphabet", "0OIl", true},
		{"wrong length", "abc", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pk, err := ParsePublicKey(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, pk.String())
		})
	}
}
