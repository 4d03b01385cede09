package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestCurrency(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "$1,234.57", Currency(1234.567, "$", 2))
	assert.Equal(t, "₹1,500,000", Currency(1500000, "₹", 0))
	assert.Equal(t, "$0.50", Currency(0.5, "$", 2))
	assert.Equal(t, "€1.234,57", Currency(1234.567, "€", 2, WithLanguage(language.German)))
}

func TestPercentage(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "25.0%", Percentage(0.25, 1, true))
	assert.Equal(t, "100.0%", Percentage(1, 1, true))
	assert.Equal(t, "30.2%", Percentage(30.2, 1, true))
	assert.Equal(t, "0", Percentage(0, 0, false))
	assert.Equal(t, "-0.50", Percentage(-0.5, 2, false))
}

func TestFileSize(t *testing.T) {
	t.Parallel()
	cases := []struct {
		bytes    uint64
		decimals int
		want     string
	}{
		{0, 2, "0 Bytes"},
		{1, 2, "1 Bytes"},
		{1023, 2, "1023 Bytes"},
		{1024, 2, "1 KB"},
		{1536, 2, "1.5 KB"},
		{1234567, 2, "1.18 MB"},
		{1234567, 0, "1 MB"},
		{5 << 30, 2, "5 GB"},
		{1 << 60, 1, "1 EB"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, FileSize(c.bytes, c.decimals), "%d", c.bytes)
	}
}

func TestRelativeTime(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		ago  time.Duration
		want string
	}{
		{0, "0 seconds ago"},
		{59 * time.Second, "59 seconds ago"},
		{90 * time.Second, "1 minute ago"},
		{45 * time.Minute, "45 minutes ago"},
		{time.Hour, "1 hour ago"},
		{5 * time.Hour, "5 hours ago"},
		{30 * time.Hour, "1 day ago"},
		{29 * 24 * time.Hour, "29 days ago"},
		{45 * 24 * time.Hour, "1 month ago"},
		{200 * 24 * time.Hour, "6 months ago"},
		{400 * 24 * time.Hour, "1 year ago"},
		{1000 * 24 * time.Hour, "2 years ago"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, RelativeTime(now.Add(-c.ago), now), "%v", c.ago)
	}
	assert.Equal(t, "3 hours from now", RelativeTime(now.Add(3*time.Hour), now))
}

func TestDate(t *testing.T) {
	d := time.Date(2024, 3, 7, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, "3/7/2024", Date(d, Short))
	assert.Equal(t, "Mar 7, 2024", Date(d, Medium))
	assert.Equal(t, "Thursday, March 7, 2024", Date(d, Long))

	saved := now
	defer func() { now = saved }()
	now = func() time.Time { return d.Add(2 * time.Hour) }
	assert.Equal(t, "2 hours ago", Date(d, Relative))
}

func TestParseStyle(t *testing.T) {
	t.Parallel()
	for in, want := range map[string]Style{"": Medium, "short": Short, "LONG": Long, "relative": Relative} {
		got, err := ParseStyle(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
	_, err := ParseStyle("iso")
	require.Error(t, err)
	require.Equal(t, "long", Long.String())
}
