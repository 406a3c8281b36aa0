package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeVariants(t *testing.T) {
	tests := []struct {
		teeTime string
		want    []string
	}{
		{
			teeTime: "08:00",
			want:    []string{"08:00 am", "8:00 am", "08:00 AM", "8:00 AM", "08:00"},
		},
		{
			teeTime: "14:30",
			want:    []string{"02:30 pm", "2:30 pm", "02:30 PM", "2:30 PM", "14:30"},
		},
		{
			teeTime: "12:15",
			want:    []string{"12:15 pm", "12:15 pm", "12:15 PM", "12:15 PM", "12:15"},
		},
		{
			teeTime: "00:00",
			want:    []string{"12:00 am", "12:00 am", "12:00 AM", "12:00 AM", "00:00"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.teeTime, func(t *testing.T) {
			assert.Equal(t, tt.want, TimeVariants(tt.teeTime))
		})
	}
}

func TestTimeVariantsPassthroughOnBadInput(t *testing.T) {
	assert.Equal(t, []string{"noonish"}, TimeVariants("noonish"))
}

func TestMatchSlot(t *testing.T) {
	slots := []Slot{
		{Time: "07:00 am", Available: false},
		{Time: "07:30 am", Available: true, Course: "Municipal"},
		{Time: "8:00 am", Available: true},
	}

	t.Run("matches display variant", func(t *testing.T) {
		s, ok := MatchSlot("08:00", slots)
		require.True(t, ok)
		assert.Equal(t, "8:00 am", s.Time)
	})

	t.Run("skips unavailable slots", func(t *testing.T) {
		_, ok := MatchSlot("07:00", slots)
		assert.False(t, ok)
	})

	t.Run("case insensitive", func(t *testing.T) {
		s, ok := MatchSlot("07:30", []Slot{{Time: "07:30 AM", Available: true}})
		require.True(t, ok)
		assert.Equal(t, "07:30 AM", s.Time)
	})

	t.Run("no slots", func(t *testing.T) {
		_, ok := MatchSlot("08:00", nil)
		assert.False(t, ok)
	})

	t.Run("no matching time", func(t *testing.T) {
		_, ok := MatchSlot("09:00", slots)
		assert.False(t, ok)
	})
}
