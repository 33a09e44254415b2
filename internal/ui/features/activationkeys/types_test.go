package activationkeys

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDataColumnsCarryHeaders(t *testing.T) {
	for _, col := range DataColumns() {
		assert.NotEmpty(t, col.Header, "every data column is labeled")
		assert.NotNil(t, col.Accessor, "every data column has a text form")
	}
}

func TestColumnsAddOnlyTheActionCell(t *testing.T) {
	data := DataColumns()
	web := Columns("token-123")

	assert.Len(t, web, len(data)+1)
	action := web[len(web)-1]
	assert.Empty(t, action.Header)
	assert.NotNil(t, action.Render)
}
