package utils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexNumbers(t *testing.T) {
	var in struct {
		Age   *FlexInt   `json:"age"`
		Price *FlexFloat `json:"price"`
		Stock *FlexInt   `json:"stock"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"age":" 21 ","price":4.5}`), &in))
	assert.Equal(t, 21, *in.Age.Int())
	assert.Equal(t, 4.5, *in.Price.Float())
	assert.Nil(t, in.Stock.Int())

	assert.Error(t, json.Unmarshal([]byte(`{"age":"twenty"}`), &in))
	assert.Error(t, json.Unmarshal([]byte(`{"age":2.5}`), &in))
	assert.Error(t, json.Unmarshal([]byte(`{"price":"cheap"}`), &in))
}
