package handler

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/GoArmGo/PhotoRelay/internal/domain"
	"github.com/go-playground/validator/v10"
)

const (
	paramQuery   = "query"
	paramPage    = "page"
	paramPerPage = "per_page"
	locQuery     = "query"
)

// searchParams хранит параметры /search до преобразования в domain.SearchRequest.
type searchParams struct {
	Query   string `validate:"min=1"`
	Page    int    `validate:"gt=0"`
	PerPage int    `validate:"gte=1,lte=30"`
}

// порядок полей в ответе 422
var paramOrder = []string{paramQuery, paramPage, paramPerPage}

var structFieldToParam = map[string]string{
	"Query":   paramQuery,
	"Page":    paramPage,
	"PerPage": paramPerPage,
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// parseSearchRequest разбирает и проверяет параметры запроса.
// Сообщаются все ошибочные параметры сразу, а не только первый.
func parseSearchRequest(values url.Values) (domain.SearchRequest, error) {
	failed := make(map[string]domain.FieldError)
	raw := make(map[string]string)

	params := searchParams{Page: domain.DefaultPage, PerPage: domain.DefaultPerPage}

	if v, ok := values[paramQuery]; ok {
		params.Query = v[0]
		raw[paramQuery] = v[0]
	} else {
		failed[paramQuery] = domain.FieldError{
			Loc:  []string{locQuery, paramQuery},
			Msg:  "Field required",
			Type: "missing",
		}
	}

	params.Page = parseIntParam(values, paramPage, domain.DefaultPage, raw, failed)
	params.PerPage = parseIntParam(values, paramPerPage, domain.DefaultPerPage, raw, failed)

	if err := validate.Struct(params); err != nil {
		fieldErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return domain.SearchRequest{}, fmt.Errorf("failed to validate search params: %w", err)
		}
		for _, fe := range fieldErrs {
			name := structFieldToParam[fe.StructField()]
			if _, exists := failed[name]; exists {
				continue
			}
			failed[name] = constraintError(name, fe, raw[name])
		}
	}

	if len(failed) > 0 {
		vErr := &domain.ValidationError{}
		for _, name := range paramOrder {
			if fe, ok := failed[name]; ok {
				vErr.Fields = append(vErr.Fields, fe)
			}
		}
		return domain.SearchRequest{}, vErr
	}

	return domain.SearchRequest{
		Query:   params.Query,
		Page:    params.Page,
		PerPage: params.PerPage,
	}, nil
}

// parseIntParam возвращает def, если параметра нет.
func parseIntParam(values url.Values, name string, def int, raw map[string]string, failed map[string]domain.FieldError) int {
	v, ok := values[name]
	if !ok {
		return def
	}
	raw[name] = v[0]

	n, err := strconv.Atoi(v[0])
	if err != nil {
		failed[name] = domain.FieldError{
			Loc:   []string{locQuery, name},
			Msg:   "Input should be a valid integer, unable to parse string as an integer",
			Type:  "int_parsing",
			Input: v[0],
		}
		return 0
	}
	return n
}

func constraintError(name string, fe validator.FieldError, input string) domain.FieldError {
	out := domain.FieldError{
		Loc:   []string{locQuery, name},
		Input: input,
	}

	switch fe.Tag() {
	case "min":
		out.Type = "string_too_short"
		out.Msg = fmt.Sprintf("String should have at least %s character", fe.Param())
	case "gt":
		out.Type = "greater_than"
		out.Msg = fmt.Sprintf("Input should be greater than %s", fe.Param())
	case "gte":
		out.Type = "greater_than_equal"
		out.Msg = fmt.Sprintf("Input should be greater than or equal to %s", fe.Param())
	case "lte":
		out.Type = "less_than_equal"
		out.Msg = fmt.Sprintf("Input should be less than or equal to %s", fe.Param())
	default:
		out.Type = "value_error"
		out.Msg = fe.Error()
	}
	return out
}
