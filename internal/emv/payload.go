// Package emv implements the merchant-presented QR payload codec: an
// EMVCo-style TLV wire format carrying standard merchant-payment fields plus
// scheme-private extension fields for crypto settlement, sealed with a
// CRC16-CCITT terminal tag.
package emv

// Standard EMVCo tags, emitted in this exact order. The order is part of the
// wire contract: it determines the byte stream and therefore the CRC.
const (
	TagPayloadFormat        = "00"
	TagPointOfInitiation    = "01"
	TagMerchantAccountInfo  = "26"
	TagMerchantCategoryCode = "52"
	TagTransactionCurrency  = "53"
	TagTransactionAmount    = "54"
	TagCountryCode          = "58"
	TagMerchantName         = "59"
	TagMerchantCity         = "60"
	TagCRC                  = "63"
)

// Scheme-private extension tags carrying crypto settlement data.
// Treated as a versioned catalog: extending the scheme means adding a version
// field, not grabbing further ad hoc tag numbers.
const (
	TagCryptoWallet  = "64"
	TagCryptoAsset   = "65"
	TagCryptoAmount  = "66"
	TagExchangeRate  = "67"
	TagSessionID     = "68"
	TagPaymentMethod = "69"
)

// Sub-tags inside the Merchant Account Info nested TLV (tag 26).
const (
	SubTagAID        = "00"
	SubTagMerchantID = "01"
)

// Fixed field values.
const (
	PayloadFormatVersion = "01"
	InitiationStatic     = "11" // static, reusable QR

	// SchemeAID is the registered application identifier distinguishing this
	// scheme from generic EMVCo processors.
	SchemeAID        = "ar.com.cryptoqr"
	MerchantIDPrefix = "CRYPTOQR_"

	CategoryFinancialServices = "6012"
	CurrencyARSNumeric        = "032"
	CountryCodeAR             = "AR"
	DefaultMerchantCity       = "Buenos Aires"

	// PaymentMethodFiat marks the fiat-only settlement path.
	PaymentMethodFiat = "FIAT"
)

// Field length limits enforced before serialization.
const (
	MaxMerchantNameLen = 25
	MaxMerchantCityLen = 15
)

// numericCurrencies maps ISO 4217 numeric codes back to their symbolic form.
var numericCurrencies = map[string]string{
	"032": "ARS",
	"840": "USD",
}

// CurrencySymbol resolves an ISO numeric currency code to its symbolic code.
// Unknown codes are passed through unchanged, matching lenient reader
// behavior.
func CurrencySymbol(numeric string) string {
	if sym, ok := numericCurrencies[numeric]; ok {
		return sym
	}
	return numeric
}
