package catalog_test

import (
	"law-pilot-server/internal/catalog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	c, err := catalog.Load()

	require.NoError(t, err)
	require.NotEmpty(t, c.ImmigrationServices)

	for key, category := range c.ImmigrationServices {
		assert.NotEmpty(t, category.Label, "категория %s без названия", key)
		assert.NotEmpty(t, category.Services, "категория %s без услуг", key)
	}
}

func TestFindCaseType(t *testing.T) {
	c, err := catalog.Load()
	require.NoError(t, err)

	svc, ok := c.FindCaseType("H-1B Work Visa")
	require.True(t, ok)
	assert.Equal(t, "H-1B Work Visa", svc.CaseType)

	_, ok = c.FindCaseType("Несуществующая услуга")
	assert.False(t, ok)
}
