package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategorySetNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   CategorySet
		want []Category
	}{
		{"empty becomes none", NewCategorySet(), []Category{CategoryNone}},
		{"none stays", NewCategorySet(CategoryNone), []Category{CategoryNone}},
		{"unknown beats none", NewCategorySet(CategoryNone, CategoryUnknown), []Category{CategoryUnknown}},
		{"detected beats placeholders", NewCategorySet(CategoryNone, CategoryUnknown, CategoryTime), []Category{CategoryTime}},
		{"multiple detected", NewCategorySet(CategoryWeather, CategoryTime), []Category{CategoryTime, CategoryWeather}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.in.Normalize().Sorted())
		})
	}
}

func TestCategorySetJSON(t *testing.T) {
	s := NewCategorySet(CategoryWeather, CategoryCrypto)
	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `["crypto","weather"]`, string(data))

	var back CategorySet
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, back.Has(CategoryCrypto))
	assert.Equal(t, 2, back.Len())
}

func TestCategoryIsValid(t *testing.T) {
	for _, c := range AllCategories() {
		assert.True(t, c.IsValid(), c)
	}
	assert.True(t, CategoryOther.IsValid())
	assert.False(t, Category("podcast").IsValid())
}
