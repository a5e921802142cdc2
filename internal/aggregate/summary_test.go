package aggregate

import (
	"testing"

	"github.com/akozadaev/go_crime_analytical_system/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	s := Summarize(scenario())

	assert.Equal(t, 5, s.Total)
	assert.Equal(t, 2, s.Violent)
	assert.InDelta(t, 40.0, s.ViolentPercent, 1e-9)
	assert.Equal(t, 2, s.Districts)
	assert.Equal(t, 3, s.Zones)
	assert.Equal(t, negocio, s.DominantCategory)
	require.NotNil(t, s.PeakHour)
	assert.Equal(t, 10, *s.PeakHour, "ties resolve to the earlier hour")
	assert.InDelta(t, 2.5, s.AverageMonthly, 1e-9)
	assert.Equal(t, "2021-01", s.PeakMonth)
	assert.Equal(t, 1, s.PeakMonthOfYear)
	assert.Equal(t, 2021, s.PeakYear)
	assert.Equal(t, "LIMA", s.TopDistrict)
}

func TestSummarizeWithoutHours(t *testing.T) {
	rs := []models.Incident{incident("2020-06-01", vehiculo, models.ViolenceNo, nil, "1", "LIMA")}
	s := Summarize(rs)
	assert.Nil(t, s.PeakHour)
	assert.Equal(t, "2020-06", s.PeakMonth)
}

func TestSummarizePeakMonthOfYearAcrossYears(t *testing.T) {
	rs := []models.Incident{
		incident("2020-03-02", negocio, models.ViolenceNo, nil, "1", "LIMA"),
		incident("2021-03-09", negocio, models.ViolenceNo, nil, "1", "LIMA"),
		incident("2021-05-01", negocio, models.ViolenceNo, nil, "1", "LIMA"),
		incident("2021-05-20", negocio, models.ViolenceNo, nil, "1", "LIMA"),
		incident("2022-03-15", negocio, models.ViolenceNo, nil, "1", "LIMA"),
	}
	s := Summarize(rs)
	assert.Equal(t, "2021-05", s.PeakMonth)
	assert.Equal(t, 3, s.PeakMonthOfYear)

	// равенство: меньший месяц года
	s = Summarize(rs[1:3])
	assert.Equal(t, 3, s.PeakMonthOfYear)
}

func TestBreakdown(t *testing.T) {
	rs := append(scenario(), incident("2020-12-24", vehiculo, models.ViolenceYes, nil, "4", "LIMA"))
	b := Breakdown(rs)

	assert.Equal(t, []models.RankedCount{{Value: "2020", Count: 1}, {Value: "2021", Count: 5}}, b.ByYear)
	assert.Equal(t, []models.RankedCount{{Value: "1", Count: 3}, {Value: "2", Count: 2}, {Value: "12", Count: 1}}, b.ByMonth)
	assert.Equal(t, []models.RankedCount{{Value: "VERANO", Count: 6}}, b.BySeason)
	assert.Equal(t, []models.RankedCount{
		{Value: "SI", Count: 3},
		{Value: "NO", Count: 2},
		{Value: "DESCONOCIDA", Count: 1},
	}, b.ByViolence)
	assert.Equal(t, []models.RankedCount{{Value: negocio, Count: 3}, {Value: vehiculo, Count: 3}}, b.ByCategory)
}

func TestProfile(t *testing.T) {
	p := Profile(scenario(), negocio, 10)

	assert.Equal(t, negocio, p.Category)
	assert.Equal(t, 3, p.Total)
	assert.InDelta(t, 66.67, p.ViolentPercent, 0.01)
	assert.Equal(t, "SURCO", p.TopDistrict)
	assert.Equal(t, 2021, p.PeakYear)
	assert.Equal(t, []models.RankedCount{{Value: "SURCO", Count: 2}, {Value: "LIMA", Count: 1}}, p.TopDistricts)
	assert.Len(t, p.TopZones, 3)

	empty := Profile(scenario(), "ROBO A CASA HABITACION", 10)
	assert.Equal(t, 0, empty.Total)
	assert.Empty(t, empty.ByYear)
	assert.Empty(t, empty.TopDistrict)
}
