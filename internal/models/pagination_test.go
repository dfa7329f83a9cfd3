package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 10, 15)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 10, p.Limit)
	assert.Equal(t, 15, p.TotalCount)
	assert.Equal(t, 2, p.TotalPages)

	p = NewPagination(1, 10, 0)
	assert.Equal(t, 0, p.TotalPages)

	p = NewPagination(1, 10, 10)
	assert.Equal(t, 1, p.TotalPages)
}

func TestNormalizePage(t *testing.T) {
	assert.Equal(t, 1, NormalizePage(0))
	assert.Equal(t, 1, NormalizePage(-3))
	assert.Equal(t, 7, NormalizePage(7))
}

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, 10, NormalizeLimit(0, 10))
	assert.Equal(t, 50, NormalizeLimit(-1, 50))
	assert.Equal(t, 25, NormalizeLimit(25, 10))
	assert.Equal(t, MaxPageLimit, NormalizeLimit(1000, 10))
}
