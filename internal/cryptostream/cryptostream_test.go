package cryptostream

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prn-tf/serac/internal/serac"
)

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	plaintext := strings.Repeat("the quick brown fox jumps over the lazy dog ", 5000) // spans several chunks

	var ciphertext bytes.Buffer
	require.NoError(t, Encrypt(&ciphertext, strings.NewReader(plaintext), "correct horse battery staple"))

	var recovered bytes.Buffer
	require.NoError(t, Decrypt(&recovered, bytes.NewReader(ciphertext.Bytes()), "correct horse battery staple", int64(ciphertext.Len())))

	require.Equal(t, plaintext, recovered.String())
}

func TestEncryptDecrypt_Empty(t *testing.T) {
	var ciphertext bytes.Buffer
	require.NoError(t, Encrypt(&ciphertext, strings.NewReader(""), "pw"))

	var recovered bytes.Buffer
	require.NoError(t, Decrypt(&recovered, bytes.NewReader(ciphertext.Bytes()), "pw", int64(ciphertext.Len())))
	require.Empty(t, recovered.String())
}

func TestDecrypt_WrongPassword(t *testing.T) {
	var ciphertext bytes.Buffer
	require.NoError(t, Encrypt(&ciphertext, strings.NewReader("secret payload"), "right-password"))

	var recovered bytes.Buffer
	err := Decrypt(&recovered, bytes.NewReader(ciphertext.Bytes()), "wrong-password", int64(ciphertext.Len()))
	require.ErrorIs(t, err, serac.ErrWrongPassword)
	require.Empty(t, recovered.Bytes())
}

func TestDecrypt_Truncated(t *testing.T) {
	var ciphertext bytes.Buffer
	require.NoError(t, Encrypt(&ciphertext, strings.NewReader("secret payload"), "pw"))

	// The stream ends one byte before the declared srcSize.
	truncated := ciphertext.Bytes()[:ciphertext.Len()-1]
	var recovered bytes.Buffer
	err := Decrypt(&recovered, bytes.NewReader(truncated), "pw", int64(ciphertext.Len()))
	require.ErrorIs(t, err, serac.ErrTruncated)
}

func TestDecrypt_TooShortToContainFraming(t *testing.T) {
	var recovered bytes.Buffer
	err := Decrypt(&recovered, bytes.NewReader([]byte("short")), "pw", 5)
	require.ErrorIs(t, err, serac.ErrTruncated)
}

func TestEncrypt_DistinctSaltsPerCall(t *testing.T) {
	var a, b bytes.Buffer
	require.NoError(t, Encrypt(&a, strings.NewReader("same plaintext"), "pw"))
	require.NoError(t, Encrypt(&b, strings.NewReader("same plaintext"), "pw"))
	require.NotEqual(t, a.Bytes(), b.Bytes())
}
