package tokensale

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// saleStateLayout mirrors the program's packed TokenSale record. The client
// only ever decodes it; the program is the sole writer.
var saleStateLayout = Layout{
	{Name: "isInitialized", Kind: KindU8},
	{Name: "initPubkey", Kind: KindPubkey},
	{Name: "saleTokenAccountPubkey", Kind: KindPubkey},
	{Name: "poolTokenAccountPubkey", Kind: KindPubkey},
	{Name: "whitelistAccountPubkey", Kind: KindPubkey},
	{Name: "whitelistProgramPubkey", Kind: KindPubkey},
	{Name: "tokenSaleAmount", Kind: KindU64},
	{Name: "usdMinAmount", Kind: KindU64},
	{Name: "usdMaxAmount", Kind: KindU64},
	{Name: "tokenSalePrice", Kind: KindU64},
	{Name: "tokenSaleTime", Kind: KindU64},
}

// SaleStateLen is the exact packed size of the record.
var SaleStateLen = saleStateLayout.Span()

// SaleState is the decoded sale-state record.
type SaleState struct {
	IsInitialized    bool
	InitPubkey       solana.PublicKey
	SaleTokenAccount solana.PublicKey
	PoolTokenAccount solana.PublicKey
	WhitelistAccount solana.PublicKey
	WhitelistProgram solana.PublicKey
	TokenSaleAmount  uint64
	UsdMinAmount     uint64
	UsdMaxAmount     uint64
	TokenSalePrice   uint64
	TokenSaleTime    uint64
}

// UnpackSaleState decodes a sale-state account buffer. The buffer length
// must be exactly SaleStateLen; anything else means the wrong account was
// fetched or the program version skewed.
func UnpackSaleState(data []byte) (*SaleState, error) {
	values, err := saleStateLayout.Decode(data)
	if err != nil {
		return nil, err
	}

	flag := values[0].(uint8)
	if flag > 1 {
		return nil, fmt.Errorf("%w: initialized flag must be 0 or 1, got %d", ErrDecode, flag)
	}

	return &SaleState{
		IsInitialized:    flag == 1,
		InitPubkey:       values[1].(solana.PublicKey),
		SaleTokenAccount: values[2].(solana.PublicKey),
		PoolTokenAccount: values[3].(solana.PublicKey),
		WhitelistAccount: values[4].(solana.PublicKey),
		WhitelistProgram: values[5].(solana.PublicKey),
		TokenSaleAmount:  values[6].(Numberu64).Uint64(),
		UsdMinAmount:     values[7].(Numberu64).Uint64(),
		UsdMaxAmount:     values[8].(Numberu64).Uint64(),
		TokenSalePrice:   values[9].(Numberu64).Uint64(),
		TokenSaleTime:    values[10].(Numberu64).Uint64(),
	}, nil
}
