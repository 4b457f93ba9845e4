package token

import (
	"testing"

	"github.com/akarpov88/petkeeper/internal/common"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	for _, seq := range []int64{0, 1, 42, 1 << 40} {
		got, err := Decode(Encode(seq))
		require.NoError(t, err)
		require.Equal(t, seq, got)
	}
}

func TestDecode_Empty(t *testing.T) {
	seq, err := Decode(nil)
	require.NoError(t, err)
	require.Equal(t, int64(0), seq)
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode([]byte("short"))
	require.ErrorIs(t, err, common.ErrTokenExpired)
}
