package meta

import (
	"errors"
	"fmt"
	"testing"

	"github.com/donutnomad/crudgen/typeref"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEntityRef(t *testing.T) {
	ref, err := ParseEntityRef("github.com/acme/demo/model/dal/entity.User")
	require.NoError(t, err)
	assert.Equal(t, "github.com/acme/demo/model/dal/entity", ref.Package)
	assert.Equal(t, "User", ref.Name)
	assert.Equal(t, "github.com/acme/demo/model/dal/entity.User", ref.String())

	ref, err = ParseEntityRef("entity.Order")
	require.NoError(t, err)
	assert.Equal(t, EntityRef{Package: "entity", Name: "Order"}, ref)

	for _, bad := range []string{"", "User", "github.com/acme/demo", "github.com/acme/demo.", ".User"} {
		t.Run(bad, func(t *testing.T) {
			_, err := ParseEntityRef(bad)
			assert.Error(t, err)
		})
	}
}

func TestEntityMetadataClone(t *testing.T) {
	m := &EntityMetadata{
		ClassName:   "User",
		PackageName: "example.com/entity",
		IDFieldType: typeref.Resolve("int64"),
		Fields: []FieldMetadata{
			{Name: "ID", Type: typeref.Resolve("int64"), IsIdentifier: true, ColumnName: "id"},
			{Name: "Tags", Type: typeref.Resolve("[]string"), ColumnName: "tags"},
		},
		Imports: map[string]string{"time": "time"},
	}

	cp := m.Clone()
	cp.Fields[0].Name = "Changed"
	cp.Fields[1].Type.Elem.Name = "int"
	cp.Imports["x"] = "y"

	assert.Equal(t, "ID", m.Fields[0].Name)
	assert.Equal(t, "[]string", m.Fields[1].Type.String())
	assert.NotContains(t, m.Imports, "x")

	id, ok := m.IDFieldMetadata()
	require.True(t, ok)
	assert.Equal(t, "ID", id.Name)

	f, ok := m.FieldByColumn("tags")
	require.True(t, ok)
	assert.Equal(t, "Tags", f.Name)
	_, ok = m.FieldByColumn("missing")
	assert.False(t, ok)

	assert.Equal(t, "example.com/entity.User", m.EntityType().String())
}

func TestErrors(t *testing.T) {
	ref := EntityRef{Package: "example.com/entity", Name: "User"}

	nf := &NotFoundError{Entity: ref, Paths: []string{"a/user.go", "a/User.go"}}
	assert.Contains(t, nf.Error(), "example.com/entity.User")
	assert.Contains(t, nf.Error(), "a/user.go, a/User.go")

	pe := &ParseError{Entity: ref, File: "a/user.go", Cause: ErrNoIdentifier}
	wrapped := fmt.Errorf("生成失败: %w", pe)

	var target *ParseError
	require.True(t, errors.As(wrapped, &target))
	assert.True(t, errors.Is(wrapped, ErrNoIdentifier))
	assert.Contains(t, pe.Error(), "a/user.go")
}
