package dayclock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

// A 23:45 log in New York is already the next day in UTC; the key must stay local.
func TestDateKey_LateNightStaysLocal(t *testing.T) {
	ny := mustLoad(t, "America/New_York")
	c := In(ny)

	late := time.Date(2026, 3, 10, 23, 45, 0, 0, ny)
	assert.Equal(t, "2026-03-11", late.UTC().Format(DateLayout))
	assert.Equal(t, "2026-03-10", c.DateKey(late))
	assert.Equal(t, "2026-03-10", c.DateKey(late.UTC()))
}

func TestStartEndOfDay(t *testing.T) {
	tokyo := mustLoad(t, "Asia/Tokyo")
	c := In(tokyo)

	in := time.Date(2026, 10, 19, 15, 4, 5, 0, tokyo)
	start := c.StartOfDay(in)
	end := c.EndOfDay(in)

	assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, tokyo), start)
	assert.Equal(t, time.Date(2026, 10, 19, 23, 59, 59, 999_000_000, tokyo), end)
	assert.Equal(t, start.UnixMilli()+24*60*60*1000-1, end.UnixMilli())
}

// On the spring-forward day the local day is 23 hours long; bounds still land
// on local midnight and 23:59:59.999.
func TestStartEndOfDay_DST(t *testing.T) {
	ny := mustLoad(t, "America/New_York")
	c := In(ny)

	in := time.Date(2026, 3, 8, 12, 0, 0, 0, ny)
	start, end := c.StartOfDay(in), c.EndOfDay(in)
	assert.Equal(t, 0, start.Hour())
	assert.Equal(t, 23, end.Hour())
	assert.Equal(t, 23*time.Hour-time.Millisecond, end.Sub(start))
}

func TestDaysAgo_CrossesDSTWithoutSkipping(t *testing.T) {
	ny := mustLoad(t, "America/New_York")
	c := In(ny)

	now := time.Date(2026, 3, 9, 0, 30, 0, 0, ny)
	var keys []string
	for i := 0; i < 3; i++ {
		keys = append(keys, c.DateKey(c.DaysAgo(now, i)))
	}
	assert.Equal(t, []string{"2026-03-09", "2026-03-08", "2026-03-07"}, keys)
}

func TestToday_UsesInjectedNow(t *testing.T) {
	fixed := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	c := Clock{Loc: time.UTC, Now: func() time.Time { return fixed }}
	assert.Equal(t, fixed, c.Today())
}

func TestPackageHelpersUseLocalZone(t *testing.T) {
	now := time.Now()
	assert.Equal(t, now.In(time.Local).Format(DateLayout), LocalDateKey(now))
	assert.Equal(t, time.Local, StartOfLocalDay(now).Location())
	assert.True(t, !EndOfLocalDay(now).Before(now))
}
