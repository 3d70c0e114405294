package tokensale

import (
	"github.com/gagliardetto/solana-go"
)

// Instruction opcodes. The opcode is the first byte of every payload.
const (
	OpInitTokenSale    uint8 = 0
	OpFundTokenSale    uint8 = 1
	OpExecuteTokenSale uint8 = 2
)

var initArgsLayout = Layout{
	{Name: "opcode", Kind: KindU8},
	{Name: "tokenSaleAmount", Kind: KindU64},
	{Name: "usdMinAmount", Kind: KindU64},
	{Name: "usdMaxAmount", Kind: KindU64},
	{Name: "tokenSalePrice", Kind: KindU64},
	{Name: "tokenSaleTime", Kind: KindU64},
}

var fundArgsLayout = Layout{
	{Name: "opcode", Kind: KindU8},
	{Name: "tokenSaleAmount", Kind: KindU64},
}

var executeArgsLayout = Layout{
	{Name: "opcode", Kind: KindU8},
	{Name: "usdAmount", Kind: KindU64},
}

// InitArgs are the InitTokenSale parameters. TokenSalePrice carries the
// reciprocal form (round(1/price) * 100, see ReciprocalPrice).
type InitArgs struct {
	TokenSaleAmount Numberu64
	UsdMinAmount    Numberu64
	UsdMaxAmount    Numberu64
	TokenSalePrice  Numberu64
	TokenSaleTime   Numberu64
}

// InitAccounts lists every account InitTokenSale touches. The sale-state
// account must already exist: a system create-account instruction sized to
// SaleStateLen and owned by Program has to precede the init instruction in
// the same transaction.
type InitAccounts struct {
	Program          solana.PublicKey // sale program (instruction target)
	PoolAuthority    solana.PublicKey // signer initialising the sale
	SaleState        solana.PublicKey
	PoolUSDTAccount  solana.PublicKey // receives funds raised
	SaleTokenAccount solana.PublicKey // holds the tokens on sale
	WhitelistMap     solana.PublicKey
	TokenProgram     solana.PublicKey
	WhitelistProgram solana.PublicKey
	RentSysvar       solana.PublicKey
}

// BuildInit assembles the InitTokenSale instruction. The account order and
// signer/writable flags are part of the program's contract; do not reorder.
func BuildInit(accounts InitAccounts, args InitArgs) (solana.Instruction, error) {
	data, err := initArgsLayout.Encode(
		OpInitTokenSale,
		args.TokenSaleAmount,
		args.UsdMinAmount,
		args.UsdMaxAmount,
		args.TokenSalePrice,
		args.TokenSaleTime,
	)
	if err != nil {
		return nil, err
	}

	metas := solana.AccountMetaSlice{
		solana.NewAccountMeta(accounts.PoolAuthority, false, true),
		solana.NewAccountMeta(accounts.SaleState, true, false),
		solana.NewAccountMeta(accounts.PoolUSDTAccount, false, false),
		solana.NewAccountMeta(accounts.SaleTokenAccount, true, false),
		solana.NewAccountMeta(accounts.WhitelistMap, false, false),
		solana.NewAccountMeta(accounts.TokenProgram, false, false),
		solana.NewAccountMeta(accounts.WhitelistProgram, false, false),
		solana.NewAccountMeta(accounts.RentSysvar, false, false),
	}
	return solana.NewInstruction(accounts.Program, metas, data), nil
}

// FundArgs are the FundTokenSale parameters.
type FundArgs struct {
	TokenSaleAmount Numberu64
}

// FundAccounts lists every account FundTokenSale touches.
type FundAccounts struct {
	Program          solana.PublicKey
	PoolAuthority    solana.PublicKey // signer funding the sale
	SaleState        solana.PublicKey
	PoolTokenAccount solana.PublicKey // source of the tokens on sale
	SaleTokenAccount solana.PublicKey
	TokenProgram     solana.PublicKey
}

// BuildFund assembles the FundTokenSale instruction.
func BuildFund(accounts FundAccounts, args FundArgs) (solana.Instruction, error) {
	data, err := fundArgsLayout.Encode(OpFundTokenSale, args.TokenSaleAmount)
	if err != nil {
		return nil, err
	}

	metas := solana.AccountMetaSlice{
		solana.NewAccountMeta(accounts.PoolAuthority, false, true),
		solana.NewAccountMeta(accounts.SaleState, false, false),
		solana.NewAccountMeta(accounts.PoolTokenAccount, true, false),
		solana.NewAccountMeta(accounts.SaleTokenAccount, true, false),
		solana.NewAccountMeta(accounts.TokenProgram, false, false),
	}
	return solana.NewInstruction(accounts.Program, metas, data), nil
}

// ExecuteArgs are the ExecuteTokenSale parameters.
type ExecuteArgs struct {
	UsdAmount Numberu64
}

// ExecuteAccounts lists every account ExecuteTokenSale touches.
// SaleAuthority is the program-derived address from FindSaleAuthority.
type ExecuteAccounts struct {
	Program          solana.PublicKey
	User             solana.PublicKey // buyer, signer
	SaleState        solana.PublicKey
	SaleTokenAccount solana.PublicKey
	UserDestination  solana.PublicKey // receives tokens purchased
	UserSource       solana.PublicKey // sends USDT
	PoolDestination  solana.PublicKey // receives USDT
	SaleAuthority    solana.PublicKey
	TokenProgram     solana.PublicKey
	WhitelistMap     solana.PublicKey
	WhitelistAccount solana.PublicKey // buyer's whitelist entry
	WhitelistProgram solana.PublicKey
}

// BuildExecute assembles the ExecuteTokenSale instruction. Whether the
// purchase is allowed (min/max bounds, whitelist, go-live time) is decided
// by the program, not here.
func BuildExecute(accounts ExecuteAccounts, args ExecuteArgs) (solana.Instruction, error) {
	data, err := executeArgsLayout.Encode(OpExecuteTokenSale, args.UsdAmount)
	if err != nil {
		return nil, err
	}

	metas := solana.AccountMetaSlice{
		solana.NewAccountMeta(accounts.User, false, true),
		solana.NewAccountMeta(accounts.SaleState, false, false),
		solana.NewAccountMeta(accounts.SaleTokenAccount, true, false),
		solana.NewAccountMeta(accounts.UserDestination, true, false),
		solana.NewAccountMeta(accounts.UserSource, true, false),
		solana.NewAccountMeta(accounts.PoolDestination, true, false),
		solana.NewAccountMeta(accounts.SaleAuthority, false, false),
		solana.NewAccountMeta(accounts.TokenProgram, false, false),
		solana.NewAccountMeta(accounts.WhitelistMap, true, false),
		solana.NewAccountMeta(accounts.WhitelistAccount, true, false),
		solana.NewAccountMeta(accounts.WhitelistProgram, false, false),
	}
	return solana.NewInstruction(accounts.Program, metas, data), nil
}
