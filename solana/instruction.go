package solana

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
)

// AccountMeta describes one account an instruction touches.
type AccountMeta struct {
	PublicKey  PublicKey `json:"pubkey"`
	IsSigner   bool      `json:"is_signer"`
	IsWritable bool      `json:"is_writable"`
}

// Instruction is a program invocation: the program to run, the accounts it
// may read or write, and its packed argument bytes.
type Instruction struct {
	ProgramID PublicKey     `json:"program_id"`
	Accounts  []AccountMeta `json:"accounts"`
	Data      []byte        `json:"-"`
}

// MarshalJSON encodes Data as base64 so instructions survive the trip to
// the wallet portal intact.
func (ix Instruction) MarshalJSON() ([]byte, error) {
	type alias Instruction
	return json.Marshal(struct {
		alias
		Data string `json:"data"`
	}{alias: alias(ix), Data: base64.StdEncoding.EncodeToString(ix.Data)})
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (ix *Instruction) UnmarshalJSON(b []byte) error {
	type alias Instruction
	aux := struct {
		*alias
		Data string `json:"data"`
	}{alias: (*alias)(ix)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	data, err := base64.StdEncoding.DecodeString(aux.Data)
	if err != nil {
		return err
	}
	ix.Data = data
	return nil
}

// SPL token program instruction tags.
const (
	tokenInstructionTransfer        = 3
	tokenInstructionTransferChecked = 12
)

// NewTokenTransferInstruction builds an SPL token Transfer moving amount
// base units from source to destination, authorized by owner.
func NewTokenTransferInstruction(source, destination, owner PublicKey, amount uint64) Instruction {
	data := make([]byte, 9)
	data[0] = tokenInstructionTransfer
	binary.LittleEndian.PutUint64(data[1:], amount)

	return Instruction{
		ProgramID: TokenProgramID,
		Accounts: []AccountMeta{
			{PublicKey: source, IsSigner: false, IsWritable: true},
			{PublicKey: destination, IsSigner: false, IsWritable: true},
			{PublicKey: owner, IsSigner: true, IsWritable: false},
		},
		Data: data,
	}
}

// NewTokenTransferCheckedInstruction builds a TransferChecked, which also
// pins the mint and its decimals so a wrong-mint transfer fails on-chain.
func NewTokenTransferCheckedInstruction(source, mint, destination, owner PublicKey, amount uint64, decimals uint8) Instruction {
	data := make([]byte, 10)
	data[0] = tokenInstructionTransferChecked
	binary.LittleEndian.PutUint64(data[1:], amount)
	data[9] = decimals

	return Instruction{
		ProgramID: TokenProgramID,
		Accounts: []AccountMeta{
			{PublicKey: source, IsSigner: false, IsWritable: true},
			{PublicKey: mint, IsSigner: false, IsWritable: false},
			{PublicKey: destination, IsSigner: false, IsWritable: true},
			{PublicKey: owner, IsSigner: true, IsWritable: false},
		},
		Data: data,
	}
}

// NewCreateAccountInstruction builds a System program CreateAccount that
// funds a fresh account with lamports rent and space bytes, owned by owner.
func NewCreateAccountInstruction(funder, newAccount, owner PublicKey, lamports, space uint64) Instruction {
	data := make([]byte, 52)
	binary.LittleEndian.PutUint32(data[0:], 0) // CreateAccount tag
	binary.LittleEndian.PutUint64(data[4:], lamports)
	binary.LittleEndian.PutUint64(data[12:], space)
	copy(data[20:], owner[:])

	return Instruction{
		ProgramID: SystemProgramID,
		Accounts: []AccountMeta{
			{PublicKey: funder, IsSigner: true, IsWritable: true},
			{PublicKey: newAccount, IsSigner: true, IsWritable: true},
		},
		Data: data,
	}
}

// NewCreateAssociatedTokenAccountInstruction builds the idempotent-less
// ATA create for (owner, mint), funded by funder.
func NewCreateAssociatedTokenAccountInstruction(funder, ata, owner, mint PublicKey) Instruction {
	return Instruction{
		ProgramID: AssociatedTokenProgramID,
		Accounts: []AccountMeta{
			{PublicKey: funder, IsSigner: true, IsWritable: true},
			{PublicKey: ata, IsSigner: false, IsWritable: true},
			{PublicKey: owner, IsSigner: false, IsWritable: false},
			{PublicKey: mint, IsSigner: false, IsWritable: false},
			{PublicKey: SystemProgramID, IsSigner: false, IsWritable: false},
			{PublicKey: TokenProgramID, IsSigner: false, IsWritable: false},
			{PublicKey: SysvarRentID, IsSigner: false, IsWritable: false},
		},
		Data: nil,
	}
}
