package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/akozadaev/go_crime_analytical_system/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

const header = "FECHA,LATITUD,LONGITUD,TIPO,VIOLENCIA,HORA,CUADRANTE,DISTRITO,AÑO,MES,ESTACION\n"

func validRow(i int) string {
	return fmt.Sprintf("2021-0%d-1%d 10:00:00,-12.0%d,-77.0%d,ROBO A NEGOCIO,SI,10,%d,LIMA,2021,%d,VERANO\n",
		i%9+1, i%9, i%9, i%9, i%5+1, i%9+1)
}

func TestParseRetainsOnlyValidRows(t *testing.T) {
	malformed := []string{
		"not-a-date,-12.1,-77.1,ROBO A NEGOCIO,SI,10,1,LIMA,2021,1,VERANO\n",
		",-12.1,-77.1,ROBO A NEGOCIO,SI,10,1,LIMA,2021,1,VERANO\n",
		"2021-01-01,,-77.1,ROBO A NEGOCIO,SI,10,1,LIMA,2021,1,VERANO\n",
		"2021-01-01,-12.1,,ROBO A NEGOCIO,SI,10,1,LIMA,2021,1,VERANO\n",
		"2021-01-01,NaN,-77.1,ROBO A NEGOCIO,SI,10,1,LIMA,2021,1,VERANO\n",
		"2021-01-01,abc,-77.1,ROBO A NEGOCIO,SI,10,1,LIMA,2021,1,VERANO\n",
		"2021-01-01,-12.1\n",
	}

	for _, m := range []int{0, 1, 7, 30} {
		t.Run(fmt.Sprintf("%d valid", m), func(t *testing.T) {
			var b strings.Builder
			b.WriteString(header)
			for i := 0; i < m; i++ {
				b.WriteString(validRow(i))
				b.WriteString(malformed[i%len(malformed)])
			}
			if m == 0 {
				b.WriteString(malformed[0])
			}

			res, err := Parse(NewSnapshot("mem", []byte(b.String())), Options{})
			require.NoError(t, err)

			assert.Len(t, res.Records, m)
			assert.Equal(t, m, res.Stats.Retained)

			rejected := 0
			for _, n := range res.Stats.Rejected {
				rejected += n
			}
			assert.Equal(t, res.Stats.Total-m, rejected)
		})
	}
}

func TestParseRejectionReasons(t *testing.T) {
	data := header +
		"2021-01-01,-12.1,-77.1,ROBO A NEGOCIO,SI,10,1,LIMA,2021,1,VERANO\n" +
		"garbage,-12.1,-77.1,ROBO A NEGOCIO,SI,10,1,LIMA,2021,1,VERANO\n" +
		"2021-01-01,,-77.1,ROBO A NEGOCIO,SI,10,1,LIMA,2021,1,VERANO\n" +
		"2021-01-01,-12.1\n"

	res, err := Parse(NewSnapshot("mem", []byte(data)), Options{})
	require.NoError(t, err)

	assert.Equal(t, 4, res.Stats.Total)
	assert.Equal(t, 1, res.Stats.Retained)
	assert.Equal(t, map[string]int{
		RejectTimestamp:   1,
		RejectCoordinates: 2,
	}, res.Stats.Rejected)
}

func TestParseKeepsShortRows(t *testing.T) {
	data := header +
		"2021-01-01 10:00:00,-12.1,-77.1,ROBO A NEGOCIO,SI,10,1,LIMA,2021,1,VERANO\n" +
		"2021-02-01 11:00:00,-12.2,-77.2,ROBO DE VEHICULO,NO,11,2,SURCO,2021,2\n" +
		"2021-03-01 12:00:00,-12.3,-77.3,ROBO A NEGOCIO\n"

	res, err := Parse(NewSnapshot("mem", []byte(data)), Options{})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Stats.Total)
	assert.Equal(t, 3, res.Stats.Retained)
	assert.Empty(t, res.Stats.Rejected)

	assert.Equal(t, "SURCO", res.Records[1].District)
	assert.Equal(t, 2, res.Records[1].Month)
	assert.Empty(t, res.Records[1].Season)

	assert.Equal(t, "ROBO A NEGOCIO", res.Records[2].Category)
	assert.Empty(t, res.Records[2].ZoneID)
	assert.Empty(t, res.Records[2].Hour)
	assert.Zero(t, res.Records[2].Year)
}

func TestParseKeepsOutOfRangeCoordinates(t *testing.T) {
	data := header + "2021-01-01,120.5,-500,ROBO A NEGOCIO,SI,10,1,LIMA,2021,1,VERANO\n"

	res, err := Parse(NewSnapshot("mem", []byte(data)), Options{})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, 120.5, res.Records[0].Latitude)
	assert.Equal(t, -500.0, res.Records[0].Longitude)
}

func TestParseFields(t *testing.T) {
	data := "\ufeff" + header + "15/03/2020 22:30,-12.1,-77.2,ROBO DE VEHICULO, no ,99,7.0,SURCO,2020.0,3,OTOÑO\n"

	res, err := Parse(NewSnapshot("mem", []byte(data)), Options{})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)

	r := res.Records[0]
	assert.Equal(t, 1, r.Row)
	assert.Equal(t, time.Date(2020, time.March, 15, 22, 30, 0, 0, time.UTC), r.OccurredAt)
	assert.Equal(t, "ROBO DE VEHICULO", r.Category)
	assert.Equal(t, " no ", r.Violence, "raw value is kept for the feature deriver")
	assert.Equal(t, "99", r.Hour)
	assert.Equal(t, "7.0", r.ZoneID)
	assert.Equal(t, 2020, r.Year)
	assert.Equal(t, 3, r.Month)
	assert.Equal(t, "OTOÑO", r.Season)
}

func TestParseMissingColumns(t *testing.T) {
	data := "FECHA,LATITUD,TIPO\n2021-01-01,-12.1,ROBO A NEGOCIO\n"

	_, err := Parse(NewSnapshot("mem", []byte(data)), Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrDataUnavailable))

	var mc *models.MissingColumnsError
	require.True(t, errors.As(err, &mc))
	assert.Contains(t, mc.Missing, "LONGITUD")
	assert.Contains(t, mc.Missing, "ESTACION")
	assert.NotContains(t, mc.Missing, "FECHA")
}

func TestParseEmptySource(t *testing.T) {
	_, err := Parse(NewSnapshot("mem", nil), Options{})
	assert.ErrorIs(t, err, models.ErrDataUnavailable)
}

func TestParseWindows1252(t *testing.T) {
	utf := header + "2021-01-01,-12.1,-77.1,ROBO A NEGOCIO,SI,10,1,BREÑA,2021,1,OTOÑO\n"
	encoded, err := charmap.Windows1252.NewEncoder().String(utf)
	require.NoError(t, err)

	res, err := Parse(NewSnapshot("mem", []byte(encoded)), Options{Encoding: "windows-1252"})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "BREÑA", res.Records[0].District)

	_, err = Parse(NewSnapshot("mem", []byte(utf)), Options{Encoding: "ebcdic"})
	assert.ErrorIs(t, err, models.ErrDataUnavailable)
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "robos.csv")
	require.NoError(t, os.WriteFile(path, []byte(header+validRow(1)), 0o600))

	src := NewFileSource(path, time.Second)
	assert.Equal(t, path, src.Name())

	res, err := Load(context.Background(), src, Options{})
	require.NoError(t, err)
	assert.Len(t, res.Records, 1)
	assert.Equal(t, Fingerprint([]byte(header+validRow(1))), res.Stats.Fingerprint)

	_, err = Load(context.Background(), NewFileSource(filepath.Join(dir, "missing.csv"), time.Second), Options{})
	assert.ErrorIs(t, err, models.ErrDataUnavailable)
}

func TestBytesSourceCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBytesSource("mem", []byte(header)).Snapshot(ctx)
	assert.ErrorIs(t, err, models.ErrDataUnavailable)
}

func TestFingerprintChangesWithContent(t *testing.T) {
	a := Fingerprint([]byte("a"))
	assert.Equal(t, a, Fingerprint([]byte("a")))
	assert.NotEqual(t, a, Fingerprint([]byte("b")))
	assert.Len(t, a, 16)
}
