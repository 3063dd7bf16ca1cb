// Package builtin 汇总内置模板。
package builtin

import (
	"github.com/donutnomad/crudgen/controllergen"
	"github.com/donutnomad/crudgen/convertorgen"
	"github.com/donutnomad/crudgen/dtogen"
	"github.com/donutnomad/crudgen/mappergen"
	"github.com/donutnomad/crudgen/plugin"
	"github.com/donutnomad/crudgen/servicegen"
)

// Templates 按生成顺序返回全部内置模板的新实例
func Templates() []plugin.Template {
	return []plugin.Template{
		dtogen.NewDtoTemplate(),
		dtogen.NewQueryTemplate(),
		mappergen.NewMapperTemplate(),
		servicegen.NewServiceTemplate(),
		servicegen.NewServiceImplTemplate(),
		convertorgen.NewConvertorTemplate(),
		controllergen.NewControllerTemplate(),
	}
}

// Register 将内置模板注册到 reg
func Register(reg *plugin.Registry) error {
	for _, t := range Templates() {
		if err := reg.Register(t); err != nil {
			return err
		}
	}
	return nil
}

// NewRegistry 返回只包含内置模板的注册表
func NewRegistry() *plugin.Registry {
	reg := plugin.NewRegistry()
	if err := Register(reg); err != nil {
		panic(err)
	}
	return reg
}
