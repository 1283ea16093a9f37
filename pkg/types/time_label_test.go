package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeLabel_Minutes(t *testing.T) {
	tests := []struct {
		name    string
		label   string
		want    int
		wantErr bool
	}{
		{name: "morning 12h", label: "9:00 AM", want: 9 * 60},
		{name: "noon", label: "12:00 PM", want: 12 * 60},
		{name: "midnight", label: "12:00 AM", want: 0},
		{name: "afternoon", label: "1:30 PM", want: 13*60 + 30},
		{name: "hour only", label: "9 AM", want: 9 * 60},
		{name: "24h", label: "14:15", want: 14*60 + 15},
		{name: "lower case period", label: "10:00 pm", want: 22 * 60},
		{name: "extra spaces", label: "  10:00   AM ", want: 10 * 60},
		{name: "bad period", label: "10:00 XM", wantErr: true},
		{name: "bad hour 12h", label: "13:00 PM", wantErr: true},
		{name: "bad hour 24h", label: "24:00", wantErr: true},
		{name: "bad minutes", label: "10:61", wantErr: true},
		{name: "single digit minutes", label: "10:5", wantErr: true},
		{name: "garbage", label: "soon", wantErr: true},
		{name: "plus sign hour", label: "+9:00 AM", wantErr: true},
		{name: "minus sign hour 24h", label: "-0:30", wantErr: true},
		{name: "signed minutes", label: "9:+5 AM", wantErr: true},
		{name: "empty hour", label: ":30", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TimeLabel(tt.label).Minutes()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeLabel)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewTimeLabel_Normalizes(t *testing.T) {
	label, err := NewTimeLabel(" 9:00   am")
	require.NoError(t, err)
	assert.Equal(t, TimeLabel("9:00 AM"), label)

	_, err = NewTimeLabel("   ")
	assert.ErrorIs(t, err, ErrInvalidTimeLabel)

	_, err = NewTimeLabel("+9:00 AM")
	assert.ErrorIs(t, err, ErrInvalidTimeLabel)
}

func TestSortTimeLabels_ChronologicalAndStable(t *testing.T) {
	labels := []TimeLabel{"1:00 PM", "11:00 AM", "09:00", "9:00 AM", "bogus", "12:00 AM"}

	SortTimeLabels(labels)

	assert.Equal(t, []TimeLabel{"12:00 AM", "09:00", "9:00 AM", "11:00 AM", "1:00 PM", "bogus"}, labels)
}

func TestLaterThan(t *testing.T) {
	sorted := []TimeLabel{"9:00 AM", "09:00", "10:00 AM", "11:00 AM"}

	assert.Equal(t, []TimeLabel{"09:00", "10:00 AM", "11:00 AM"}, LaterThan(sorted, "9:00 AM"))
	assert.Empty(t, LaterThan(sorted, "11:00 AM"))
	// метка отсутствует в списке - берём всё, что позже по времени
	assert.Equal(t, []TimeLabel{"11:00 AM"}, LaterThan(sorted, "10:30 AM"))
}

func TestTimeLabel_At(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	at, err := TimeLabel("2:45 PM").At(date, loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 14, 14, 45, 0, 0, loc), at)
}

func TestTimeLabel_Scan(t *testing.T) {
	var label TimeLabel
	require.NoError(t, label.Scan([]byte("10:00 AM")))
	assert.Equal(t, TimeLabel("10:00 AM"), label)

	assert.Error(t, label.Scan(42))
}

func TestLabelFromTime(t *testing.T) {
	label := LabelFromTime(time.Date(2026, 5, 10, 15, 4, 0, 0, time.UTC))
	assert.Equal(t, TimeLabel("3:04 PM"), label)

	minutes, err := label.Minutes()
	require.NoError(t, err)
	assert.Equal(t, 15*60+4, minutes)
}
