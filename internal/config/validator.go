// Package config 配置校验
// 配置错误是直接展示给使用者的，所以这里沿用 validator + 翻译器，
// 把校验失败信息翻译成可读的提示
package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
)

// trans 全局翻译器
var trans ut.Translator

// validate 全局校验器实例
var validate *validator.Validate

// InitValidator 初始化校验器和翻译器
// locale 参数指定需要初始化的语言，例如 "zh" 或 "en"
func InitValidator(locale string) (err error) {
	validate = validator.New()

	// 注册一个获取 toml tag 的自定义方法
	// 默认情况下 validator 使用结构体字段名（如 Host），这里改为使用 toml tag
	// 配置文件里写的是 toml 字段名，报错信息也应该对应 toml 字段名
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("toml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	zhT := zh.New() // 初始化中文翻译器
	enT := en.New() // 初始化英文翻译器

	// 第一个参数是备用（fallback）的语言环境，当找不到匹配语言时使用该语言
	uni := ut.New(enT, zhT, enT)

	var ok bool
	trans, ok = uni.GetTranslator(locale)
	if !ok {
		return fmt.Errorf("uni.GetTranslator(%s) failed", locale)
	}

	// 根据 locale 注册对应的默认翻译规则
	switch locale {
	case "zh":
		err = zh_translations.RegisterDefaultTranslations(validate, trans)
	default:
		err = en_translations.RegisterDefaultTranslations(validate, trans)
	}
	return
}

// Validate 校验配置完整性
// 返回翻译后的错误提示，多个错误用分号拼接
func Validate(c *Config) error {
	if validate == nil {
		if err := InitValidator("zh"); err != nil {
			return err
		}
	}
	if err := validate.Struct(c); err != nil {
		validationErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		msgs := make([]string, 0, len(validationErrs))
		for _, m := range removeTopStruct(validationErrs.Translate(trans)) {
			msgs = append(msgs, m)
		}
		return fmt.Errorf("配置校验失败: %s", strings.Join(msgs, "; "))
	}
	return nil
}

// removeTopStruct 去除提示信息中的结构体名称
// validator 返回的错误信息默认带有结构体名称（如 "Config.host"），使用者不需要这个前缀
func removeTopStruct(fields map[string]string) map[string]string {
	res := make(map[string]string)
	for field, err := range fields {
		res[field[strings.Index(field, ".")+1:]] = err
	}
	return res
}
