package cdf

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cdflib/cdf/format"
)

func TestCreateOpenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roundtrip.cdf")

	w, err := Create(path, WithEncoding(format.EncodingIBMPC), WithChecksum(true))
	require.NoError(t, err)

	_, err = w.DefineZVariable("Temperature", format.TypeDouble, 1, nil, nil, true, format.SparseNone, nil, 4, false)
	require.NoError(t, err)

	for i := int64(0); i < 3; i++ {
		require.NoError(t, w.PutRecord("Temperature", i, []any{float64(i) * 1.25}))
	}
	require.NoError(t, w.Close())

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	require.Equal(t, []string{"Temperature"}, r.VarNames())
	inq, err := r.Varinq("Temperature")
	require.NoError(t, err)
	require.Equal(t, format.TypeDouble, inq.DataType)
}
