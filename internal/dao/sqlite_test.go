package dao

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exome-prioritizer/internal/domain"
)

func TestVariantStore_FrequencyData(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	store := NewVariantStoreWithDB(db)

	rows := sqlmock.NewRows([]string{"source", "frequency"}).
		AddRow("THOUSAND_GENOMES", 0.02).
		AddRow("GNOMAD_EXOMES", 0.05)
	mock.ExpectQuery("SELECT source, frequency FROM frequency").
		WithArgs(1, 145508800, "A", "G").
		WillReturnRows(rows)

	data, err := store.FrequencyData(context.Background(), 1, 145508800, "A", "G")
	require.NoError(t, err)
	assert.True(t, data.IsRepresentedInDatabase())
	assert.InDelta(t, 0.05, data.MaxFreq(), 1e-9)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVariantStore_FrequencyDataMissingRowYieldsEmptyData(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	store := NewVariantStoreWithDB(db)

	mock.ExpectQuery("SELECT source, frequency FROM frequency").
		WithArgs(1, 100, "A", "T").
		WillReturnRows(sqlmock.NewRows([]string{"source", "frequency"}))

	data, err := store.FrequencyData(context.Background(), 1, 100, "A", "T")
	require.NoError(t, err)
	require.NotNil(t, data, "a queried but absent allele yields empty data, not nil")
	assert.False(t, data.IsRepresentedInDatabase())
	assert.Equal(t, 0.0, data.MaxFreq())
}

func TestVariantStore_PathogenicityData(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	store := NewVariantStoreWithDB(db)

	rows := sqlmock.NewRows([]string{"source", "score"}).
		AddRow("POLYPHEN", 0.98).
		AddRow("SIFT", 0.02)
	mock.ExpectQuery("SELECT source, score FROM pathogenicity").
		WithArgs(10, 123256215, "T", "G").
		WillReturnRows(rows)

	data, err := store.PathogenicityData(context.Background(), 10, 123256215, "T", "G", domain.MISSENSE_VARIANT)
	require.NoError(t, err)
	assert.True(t, data.HasPredictedScore())
	assert.InDelta(t, 0.98, data.MaxScore(), 1e-9)
}

func TestVariantStore_PathogenicitySkipsNonMissense(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	store := NewVariantStoreWithDB(db)

	data, err := store.PathogenicityData(context.Background(), 1, 100, "A", "T", domain.STOP_GAINED)
	require.NoError(t, err)
	assert.False(t, data.HasPredictedScore())
	assert.NoError(t, mock.ExpectationsWereMet(), "no query runs for non-missense effects")
}
