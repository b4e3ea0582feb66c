package scheduling_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zatekoja/screeningscheduler/backend/internal/domain/entities"
	"github.com/zatekoja/screeningscheduler/backend/internal/domain/scheduling"
)

func TestCategoryOf(t *testing.T) {
	tests := []struct {
		key      string
		expected entities.Category
	}{
		{"bloodCount", entities.CategoryLaboratory},
		{"psa", entities.CategoryLaboratory},
		{"chestXray", entities.CategoryImaging},
		{"colonoscopy", entities.CategoryImaging},
		{"mammography", entities.CategoryImaging},
		{"ekg", entities.CategoryEKG},
		{"cardiologyConsultation", entities.CategoryConsultation},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			category, ok := scheduling.CategoryOf(tt.key)
			assert.True(t, ok)
			assert.Equal(t, tt.expected, category)
		})
	}

	t.Run("unknown key", func(t *testing.T) {
		category, ok := scheduling.CategoryOf("tarotReading")
		assert.False(t, ok)
		assert.Equal(t, entities.CategoryUnknown, category)
		assert.Equal(t, scheduling.UnknownCategoryRank, scheduling.CategoryRank(category))
	})
}

func TestCategoryRank(t *testing.T) {
	assert.Equal(t, 1, scheduling.CategoryRank(entities.CategoryLaboratory))
	assert.Equal(t, 2, scheduling.CategoryRank(entities.CategoryImaging))
	assert.Equal(t, 3, scheduling.CategoryRank(entities.CategoryEKG))
	assert.Equal(t, 4, scheduling.CategoryRank(entities.CategoryConsultation))
	assert.Equal(t, 999, scheduling.CategoryRank(entities.Category("surgery")))
}

func TestCatalogIsComplete(t *testing.T) {
	names := make(map[string]string)
	for _, key := range scheduling.Keys() {
		category, ok := scheduling.CategoryOf(key)
		assert.True(t, ok, key)
		assert.Less(t, scheduling.CategoryRank(category), scheduling.UnknownCategoryRank, key)

		name := scheduling.TypeName(key)
		assert.NotEmpty(t, name, key)
		if other, dup := names[name]; dup {
			t.Errorf("type name %q used by %s and %s", name, other, key)
		}
		names[name] = key
	}
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "Chest X-Ray", scheduling.TypeName("chestXray"))
	assert.Equal(t, "customScreening", scheduling.TypeName("customScreening"))
}
