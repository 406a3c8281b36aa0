package webtrac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resultsTable = `
<table id="frwebsearch_output_table">
  <tr><th>Add</th><th>Time</th><th>Holes</th><th>Course</th><th>Status</th></tr>
  <tr>
    <td><a class="cart-button success" title="Available"></a></td>
    <td>07:00 am</td><td>18</td><td>Charleston Municipal</td><td>Available</td>
  </tr>
  <tr>
    <td><a class="cart-button error" title="Unavailable"></a></td>
    <td>07:30 am</td><td>18</td><td>Charleston Municipal</td><td>Sold Out</td>
  </tr>
  <tr>
    <td><a class="cart-button success" title="Available"></a></td>
    <td>02:30  pm</td><td>9</td><td>Charleston Municipal</td><td>Available</td>
  </tr>
  <tr><td colspan="5">No more results</td></tr>
</table>`

func TestParseSlots(t *testing.T) {
	slots, err := ParseSlots(resultsTable)
	require.NoError(t, err)
	require.Len(t, slots, 3)

	assert.Equal(t, "07:00 am", slots[0].Time)
	assert.True(t, slots[0].Available)
	assert.Equal(t, "18", slots[0].Holes)
	assert.Equal(t, "Charleston Municipal", slots[0].Course)

	assert.Equal(t, "07:30 am", slots[1].Time)
	assert.False(t, slots[1].Available)

	// whitespace inside the cell is collapsed
	assert.Equal(t, "02:30 pm", slots[2].Time)
	assert.True(t, slots[2].Available)
	assert.Equal(t, "9", slots[2].Holes)
}

func TestParseSlotsUnavailableStatus(t *testing.T) {
	// "Unavailable" contains "Available" as a substring
	html := `<table>
	  <tr>
	    <td><a class="cart-button error"></a></td>
	    <td>08:15 am</td><td>18</td><td>Charleston Municipal</td><td>Unavailable</td>
	  </tr>
	</table>`
	slots, err := ParseSlots(html)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.False(t, slots[0].Available)
}

func TestParseSlotsSkipsHeaderAndJunk(t *testing.T) {
	html := `<table>
	  <tr><td>Time</td><td>Holes</td><td>Course</td></tr>
	  <tr><td>Nothing to see</td></tr>
	</table>`
	slots, err := ParseSlots(html)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestParseSlotsEmptyInput(t *testing.T) {
	slots, err := ParseSlots("")
	require.NoError(t, err)
	assert.Empty(t, slots)
}
