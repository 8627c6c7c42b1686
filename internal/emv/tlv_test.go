package emv

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeTLV(t *testing.T) {
	out, err := EncodeTLV([]Field{
		{Tag: "00", Value: "01"},
		{Tag: "59", Value: "Kiosco XYZ"},
	})
	require.NoError(t, err)
	assert.Equal(t, "0002015910Kiosco XYZ", out)
}

func TestEncodeTLV_EmptyValue(t *testing.T) {
	out, err := EncodeTLV([]Field{{Tag: "68", Value: ""}})
	require.NoError(t, err)
	assert.Equal(t, "6800", out)
}

func TestEncodeTLV_ValueTooLong(t *testing.T) {
	_, err := EncodeTLV([]Field{{Tag: "64", Value: strings.Repeat("a", 100)}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds 99")
}

func TestEncodeTLV_MaxLengthValue(t *testing.T) {
	out, err := EncodeTLV([]Field{{Tag: "64", Value: strings.Repeat("a", 99)}})
	require.NoError(t, err)
	assert.Equal(t, "6499"+strings.Repeat("a", 99), out)
}

func TestEncodeTLV_InvalidTag(t *testing.T) {
	_, err := EncodeTLV([]Field{{Tag: "123", Value: "x"}})
	assert.Error(t, err)
}

func TestEncodeTLV_NonASCIIValue(t *testing.T) {
	_, err := EncodeTLV([]Field{{Tag: "60", Value: "Córdoba"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-ASCII")
}

func TestDecodeTLV(t *testing.T) {
	tags, err := DecodeTLV("0002015910Kiosco XYZ5303032")
	require.NoError(t, err)
	assert.Equal(t, "01", tags["00"])
	assert.Equal(t, "Kiosco XYZ", tags["59"])
	assert.Equal(t, "032", tags["53"])
}

func TestDecodeTLV_Empty(t *testing.T) {
	tags, err := DecodeTLV("")
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestDecodeTLV_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"truncated header", "590"},
		{"non-numeric length", "59xaKiosco"},
		{"value runs past end", "5910Kios"},
		{"length longer than rest", "000399"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeTLV(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedPayload)
		})
	}
}

func TestTLV_RoundTrip(t *testing.T) {
	fields := []Field{
		{Tag: "00", Value: "01"},
		{Tag: "26", Value: "0015ar.com.cryptoqr0111CRYPTOQR_m1"},
		{Tag: "54", Value: "10000.00"},
		{Tag: "68", Value: "sess_1"},
	}
	encoded, err := EncodeTLV(fields)
	require.NoError(t, err)

	decoded, err := DecodeTLV(encoded)
	require.NoError(t, err)
	require.Len(t, decoded, len(fields))
	for _, f := range fields {
		assert.Equal(t, f.Value, decoded[f.Tag])
	}
}

func TestDecodeTLV_Nested(t *testing.T) {
	inner, err := EncodeTLV([]Field{
		{Tag: SubTagAID, Value: SchemeAID},
		{Tag: SubTagMerchantID, Value: "CRYPTOQR_m42"},
	})
	require.NoError(t, err)

	outer, err := EncodeTLV([]Field{{Tag: TagMerchantAccountInfo, Value: inner}})
	require.NoError(t, err)

	tags, err := DecodeTLV(outer)
	require.NoError(t, err)

	sub, err := DecodeTLV(tags[TagMerchantAccountInfo])
	require.NoError(t, err)
	assert.Equal(t, SchemeAID, sub[SubTagAID])
	assert.Equal(t, "CRYPTOQR_m42", sub[SubTagMerchantID])
}
