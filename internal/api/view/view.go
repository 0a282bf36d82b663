package view

import (
	"embed"
	"html/template"
	"time"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// 模板名
const (
	IndexTemplate = "index.tmpl"
	LoginTemplate = "login.tmpl"
	ErrorTemplate = "error.tmpl"
)

// Templates 解析内嵌的全部页面模板，交给 gin.Engine.SetHTMLTemplate
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcMap()).ParseFS(templatesFS, "templates/*.tmpl")
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"formatTime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("2006-01-02 15:04")
		},
	}
}
