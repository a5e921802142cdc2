package georef

import (
	"testing"

	"github.com/akozadaev/go_crime_analytical_system/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func point(zone, district string, lat, lon float64) models.Incident {
	return models.Incident{ZoneID: zone, District: district, Coordinates: models.GeoPoint{Lat: lat, Lon: lon}}
}

func TestSingleRecordCentroidIsExact(t *testing.T) {
	refs := Build([]models.Incident{point("7", "LIMA", -12.0464, -77.0428)})
	require.Len(t, refs, 1)

	assert.Equal(t, models.GeoPoint{Lat: -12.0464, Lon: -77.0428}, refs[0].Centroid)
	assert.Equal(t, "LIMA", refs[0].District)
	assert.Equal(t, 1, refs[0].Incidents)
	assert.Equal(t, models.Bounds{MinLat: -12.0464, MinLon: -77.0428, MaxLat: -12.0464, MaxLon: -77.0428}, refs[0].Bounds)
}

func TestCentroidIsArithmeticMean(t *testing.T) {
	refs := Build([]models.Incident{
		point("1", "LIMA", -12.0, -77.0),
		point("2", "SURCO", -12.1, -77.1),
		point("1", "LIMA", -12.2, -77.4),
		point("1", "LIMA", 10.0, -77.2), // ошибочная координата смещает центроид
	})
	require.Len(t, refs, 2)

	assert.Equal(t, "1", refs[0].ZoneID)
	assert.InDelta(t, (-12.0-12.2+10.0)/3, refs[0].Centroid.Lat, 1e-9)
	assert.InDelta(t, -77.2, refs[0].Centroid.Lon, 1e-9)
	assert.Equal(t, models.Bounds{MinLat: -12.2, MinLon: -77.4, MaxLat: 10.0, MaxLon: -77.0}, refs[0].Bounds)
	assert.Equal(t, "2", refs[1].ZoneID)
}

func TestDominantDistrictTieBreakIsFirstSeen(t *testing.T) {
	rs := []models.Incident{
		point("5", "SURCO", -12.1, -77.0),
		point("5", "BARRANCO", -12.1, -77.0),
		point("5", "BARRANCO", -12.1, -77.0),
		point("5", "SURCO", -12.1, -77.0),
	}

	for i := 0; i < 100; i++ {
		refs := Build(rs)
		require.Len(t, refs, 1)
		assert.Equal(t, "SURCO", refs[0].District)
	}
}

func TestDominantDistrictMode(t *testing.T) {
	refs := Build([]models.Incident{
		point("5", "SURCO", 0, 0),
		point("5", "BARRANCO", 0, 0),
		point("5", "BARRANCO", 0, 0),
	})
	assert.Equal(t, "BARRANCO", refs[0].District)
}

func TestBuildSkipsEmptyZoneAndEmptyInput(t *testing.T) {
	assert.Empty(t, Build(nil))
	assert.Empty(t, Build([]models.Incident{point("", "LIMA", 1, 1)}))
}

func TestIndex(t *testing.T) {
	idx := Index(Build([]models.Incident{point("1", "LIMA", 1, 2), point("2", "SURCO", 3, 4)}))
	assert.Len(t, idx, 2)
	assert.Equal(t, "SURCO", idx["2"].District)
}
