package wallet

// Operation minimums.
const (
	DefaultMinWithdraw   = 10.0
	DefaultMinTransfer   = 0.01
	DefaultMinPoolPoints = 1
)

// History pagination is a fixed recency window, no cursor.
const DefaultHistoryLimit = 20

// Coins accepted for deposits and withdrawals.
var defaultDepositAddresses = map[string]string{
	"USDT": "TRC20-DEPOSIT-ADDRESS-UNSET",
	"USDC": "ERC20-DEPOSIT-ADDRESS-UNSET",
}
