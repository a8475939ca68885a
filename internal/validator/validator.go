package validator

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// フィールド名（JSONのキー）→ 失敗したルール
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fe[k])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	//エラーのフィールド名はJSONタグ名にする
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return v
}

// 構造体のタグで検証する。失敗したら FieldErrors を返す。
func Struct(i any) error {
	err := validate.Struct(i)
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}

	fields := make(FieldErrors, len(ves))
	for _, fe := range ves {
		fields[fieldPath(fe.Namespace())] = fe.Tag()
	}
	return fields
}

// "Req.produits[0].prix" → "produits[0].prix"
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	ok := errors.As(err, &fe)
	return fe, ok
}

// echo.Validator
type EchoValidator struct{}

func New() *EchoValidator { return &EchoValidator{} }

func (*EchoValidator) Validate(i any) error {
	return Struct(i)
}
