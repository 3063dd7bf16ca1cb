package convertorgen

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/donutnomad/crudgen/internal/fixture"
	"github.com/donutnomad/crudgen/internal/plugintest"
)

func TestConvertorTemplate(t *testing.T) {
	tpl := NewConvertorTemplate()
	assert.Equal(t, "convertor", tpl.Name())

	path, src := plugintest.Generate(t, tpl, fixture.User(), plugintest.Config())
	assert.Equal(t, "/work/model/convertor/user_convertor.go", path)

	out := plugintest.Compact(src)
	assert.Contains(t, out, "package convertor")
	assert.Contains(t, out, "type UserConvertor interface {")
	assert.Contains(t, out, "ToDto(item *entity.User) *dto.UserDto")
	assert.Contains(t, out, "ToEntity(d *dto.UserDto) *entity.User")

	// 只有两个方法，没有任何实现
	methods := regexp.MustCompile(`(?m)^To\w+\(`).FindAllString(out, -1)
	assert.Len(t, methods, 2)
	assert.NotContains(t, out, "func ")
}
