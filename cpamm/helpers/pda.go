package helpers

import (
	"bytes"
	"encoding/binary"

	solanago "github.com/gagliardetto/solana-go"
)

// ProgramID is the on-chain AMM program address the account addresses derive from.
var ProgramID = solanago.MustPublicKeyFromBase58("cpamdpZCGKUy5JxQXB4dcpGPiikHawvSWAd6mEn1sGG")

// getFirstKey returns the lexicographically larger key bytes.
func getFirstKey(key1, key2 solanago.PublicKey) []byte {
	buf1 := key1.Bytes()
	buf2 := key2.Bytes()
	if bytes.Compare(buf1, buf2) == 1 {
		return buf1
	}
	return buf2
}

// getSecondKey returns the lexicographically smaller key bytes.
func getSecondKey(key1, key2 solanago.PublicKey) []byte {
	buf1 := key1.Bytes()
	buf2 := key2.Bytes()
	if bytes.Compare(buf1, buf2) == 1 {
		return buf2
	}
	return buf1
}

func DerivePoolAuthority() solanago.PublicKey {
	pub, _, _ := solanago.FindProgramAddress([][]byte{[]byte("pool_authority")}, ProgramID)
	return pub
}

func DeriveConfigAddress(index uint64) solanago.PublicKey {
	indexBytes := make([]byte, 8)
	binary.LittleEndian.PutUint64(indexBytes, index)
	pub, _, _ := solanago.FindProgramAddress([][]byte{[]byte("config"), indexBytes}, ProgramID)
	return pub
}

func DerivePoolAddress(config, tokenAMint, tokenBMint solanago.PublicKey) solanago.PublicKey {
	pub, _, _ := solanago.FindProgramAddress([][]byte{
		[]byte("pool"),
		config.Bytes(),
		getFirstKey(tokenAMint, tokenBMint),
		getSecondKey(tokenAMint, tokenBMint),
	}, ProgramID)
	return pub
}

func DeriveCustomizablePoolAddress(tokenAMint, tokenBMint solanago.PublicKey) solanago.PublicKey {
	pub, _, _ := solanago.FindProgramAddress([][]byte{
		[]byte("cpool"),
		getFirstKey(tokenAMint, tokenBMint),
		getSecondKey(tokenAMint, tokenBMint),
	}, ProgramID)
	return pub
}

func DerivePositionAddress(positionNft solanago.PublicKey) solanago.PublicKey {
	pub, _, _ := solanago.FindProgramAddress([][]byte{[]byte("position"), positionNft.Bytes()}, ProgramID)
	return pub
}

func DeriveTokenVaultAddress(tokenMint, pool solanago.PublicKey) solanago.PublicKey {
	pub, _, _ := solanago.FindProgramAddress([][]byte{[]byte("token_vault"), tokenMint.Bytes(), pool.Bytes()}, ProgramID)
	return pub
}

func DeriveRewardVaultAddress(pool solanago.PublicKey, rewardIndex uint8) solanago.PublicKey {
	pub, _, _ := solanago.FindProgramAddress([][]byte{[]byte("reward_vault"), pool.Bytes(), []byte{rewardIndex}}, ProgramID)
	return pub
}

func DeriveVestingAddress(position solanago.PublicKey, index uint64) solanago.PublicKey {
	indexBytes := make([]byte, 8)
	binary.LittleEndian.PutUint64(indexBytes, index)
	pub, _, _ := solanago.FindProgramAddress([][]byte{[]byte("vesting"), position.Bytes(), indexBytes}, ProgramID)
	return pub
}
