package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDataset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dataset.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_WellFormed(t *testing.T) {
	path := writeDataset(t, ""+
		"place_name;city;province;makanan_khas;rating;address\n"+
		"Candi Borobudur;Magelang;Jawa Tengah;Getuk;4.7;Jl. Badrawati\n"+
		"Malioboro;Yogyakarta;DI Yogyakarta;Gudeg;4.5;Jl. Malioboro\n")

	places, err := Load(path, ";")
	require.NoError(t, err)
	require.Len(t, places, 2)

	assert.Equal(t, "Candi Borobudur", places[0].Name)
	assert.Equal(t, "Magelang", places[0].City)
	assert.Equal(t, "Getuk", places[0].SignatureFood)
	assert.Equal(t, "candi borobudur magelang", places[0].SearchText)
	assert.Equal(t, "4.5", places[1].Rating)
}

func TestLoad_EmptySignatureFoodDefaults(t *testing.T) {
	path := writeDataset(t, ""+
		"place_name;city;province;makanan_khas\n"+
		"Candi Borobudur;Magelang;Jawa Tengah;\n")

	places, err := Load(path, ";")
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, DefaultSignatureFood, places[0].SignatureFood)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"), ";")
	require.ErrorIs(t, err, ErrDatasetUnavailable)
}

func TestLoad_MissingRequiredColumn(t *testing.T) {
	path := writeDataset(t, ""+
		"place_name;province;makanan_khas\n"+
		"Candi Borobudur;Jawa Tengah;Getuk\n")

	_, err := Load(path, ";")
	require.ErrorIs(t, err, ErrSchema)
}

func TestLoad_EmptyRequiredFieldFailsWholeBuild(t *testing.T) {
	path := writeDataset(t, ""+
		"place_name;city\n"+
		"Candi Borobudur;Magelang\n"+
		";Yogyakarta\n")

	_, err := Load(path, ";")
	require.ErrorIs(t, err, ErrSchema)
}

func TestLoad_HeaderOnly(t *testing.T) {
	path := writeDataset(t, "place_name;city\n")
	_, err := Load(path, ";")
	require.ErrorIs(t, err, ErrSchema)
}

func TestLoad_CommaSeparator(t *testing.T) {
	path := writeDataset(t, ""+
		"place_name,city\n"+
		"Kawah Ijen,Banyuwangi\n")

	places, err := Load(path, ",")
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, "kawah ijen banyuwangi", places[0].SearchText)
}
