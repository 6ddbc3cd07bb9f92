package crops

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabelTable_Lookup(t *testing.T) {
	table := NewLabelTable()

	tests := []struct {
		id   int
		want string
	}{
		{1, "Rice"},
		{2, "Maize"},
		{13, "Banana"},
		{20, "Kidneybeans"},
		{22, "Coffee"},
		{0, UnknownCrop},
		{23, UnknownCrop},
		{-1, UnknownCrop},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, table.Lookup(tt.id), "id %d", tt.id)
	}
	assert.Equal(t, 22, table.Len())
}

func TestLabelTable_List(t *testing.T) {
	list := NewLabelTable().List()

	assert.Len(t, list, 22)
	for i, c := range list {
		assert.Equal(t, i+1, c.ID)
	}
	assert.Equal(t, Crop{ID: 1, Name: "Rice"}, list[0])
	assert.Equal(t, Crop{ID: 22, Name: "Coffee"}, list[21])
}

func TestNewLabelTableFrom_CopiesInput(t *testing.T) {
	names := map[int]string{3: "Jute", 1: "Rice"}
	table := NewLabelTableFrom(names)
	names[1] = "Wheat"
	names[2] = "Barley"

	assert.Equal(t, "Rice", table.Lookup(1))
	assert.Equal(t, UnknownCrop, table.Lookup(2))
	assert.Equal(t, []string{"Rice", "Jute"}, table.Names())
}
