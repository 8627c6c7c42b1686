package dto

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	// assetRe matches crypto asset symbols as they appear on exchange APIs.
	assetRe = regexp.MustCompile(`^[A-Z]{2,10}$`)
	// walletRe is deliberately loose: settlement wallets span several chains
	// (EVM hex, Starknet, base58), so only the character set is pinned down.
	walletRe = regexp.MustCompile(`^[a-zA-Z0-9]{10,128}$`)
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("asset", validateAsset)
		_ = v.RegisterValidation("wallet", validateWallet)
	}
}

// validateAsset accepts uppercase exchange ticker symbols.
func validateAsset(fl validator.FieldLevel) bool {
	return assetRe.MatchString(fl.Field().String())
}

// validateWallet accepts alphanumeric wallet addresses, 0x prefix included.
func validateWallet(fl validator.FieldLevel) bool {
	raw := fl.Field().String()
	if len(raw) > 2 && raw[0] == '0' && (raw[1] == 'x' || raw[1] == 'X') {
		raw = raw[2:]
	}
	return walletRe.MatchString(raw)
}
