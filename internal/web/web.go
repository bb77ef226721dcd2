package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// Templates разбирает встроенные HTML-шаблоны.
func Templates() (*template.Template, error) {
	return template.ParseFS(templatesFS, "templates/*.html")
}

// Static возвращает файловую систему со статикой (js, css) без префикса static/.
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// каталог встроен на этапе компиляции, ошибки здесь быть не может
		panic(err)
	}
	return http.FS(sub)
}
