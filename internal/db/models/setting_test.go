package models

import (
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm/schema"
)

func TestSettingValueColumnType(t *testing.T) {
	s, err := schema.Parse(&Setting{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	field := s.LookUpField("Value")
	require.NotNil(t, field)
	assert.Equal(t, schema.Bytes, field.DataType)

	tests := []struct {
		name string
		got  string
		want string
	}{
		{name: "postgres", got: gormpostgres.Dialector{Config: &gormpostgres.Config{}}.DataTypeOf(field), want: "bytea"},
		{name: "sqlite", got: sqlite.Dialector{}.DataTypeOf(field), want: "blob"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}
