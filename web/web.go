package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"
	"time"

	"folio/internal/models"
	"folio/internal/utils"

	"github.com/gin-contrib/multitemplate"
)

//go:embed templates
var files embed.FS

// Templates 返回内嵌的模板目录
func Templates() fs.FS {
	sub, err := fs.Sub(files, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// 页面：layout + components + view
var pages = []string{
	"portfolio/list.html",
	"portfolio/detail.html",
	"portfolio/loading.html",
	"portfolio/form.html",
	"user/profile.html",
	"user/settings.html",
	"auth/login.html",
	"auth/register.html",
	"error.html",
}

// 片段：components + view，不带 layout，供 HTMX 局部替换
var fragments = []string{
	"fragments/content.html",
	"fragments/like.html",
	"fragments/portfolio_comments.html",
	"fragments/user_comments.html",
	"fragments/error.html",
}

func toTime(t any) (time.Time, bool) {
	switch v := t.(type) {
	case time.Time:
		return v, true
	case models.Timestamp:
		return v.Time, true
	case *models.Timestamp:
		if v == nil {
			return time.Time{}, false
		}
		return v.Time, true
	}
	return time.Time{}, false
}

func timeAgo(t any) string {
	tv, ok := toTime(t)
	if !ok || tv.IsZero() {
		return ""
	}
	seconds := int(time.Since(tv).Seconds())
	switch {
	case seconds < 60:
		return "刚刚"
	case seconds < 3600:
		return fmt.Sprintf("%d分钟前", seconds/60)
	case seconds < 86400:
		return fmt.Sprintf("%d小时前", seconds/3600)
	case seconds < 2592000:
		return fmt.Sprintf("%d天前", seconds/86400)
	case seconds < 31536000:
		return fmt.Sprintf("%d个月前", seconds/2592000)
	}
	return fmt.Sprintf("%d年前", seconds/31536000)
}

func FuncMap() template.FuncMap {
	return template.FuncMap{
		"dict": func(values ...any) (map[string]any, error) {
			if len(values)%2 != 0 {
				return nil, fmt.Errorf("invalid dict call")
			}
			dict := make(map[string]any, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict keys must be strings")
				}
				dict[key] = values[i+1]
			}
			return dict, nil
		},
		"add":     func(a, b int) int { return a + b },
		"sub":     func(a, b int) int { return a - b },
		"timeAgo": timeAgo,
		"date": func(t any) string {
			if tv, ok := toTime(t); ok && !tv.IsZero() {
				return tv.Format("2006-01-02")
			}
			return ""
		},
		"comment": utils.RenderComment,
		"join":    strings.Join,
	}
}

func parse(fsys fs.FS, funcs template.FuncMap, files ...string) (*template.Template, error) {
	return template.New(path.Base(files[0])).Funcs(funcs).ParseFS(fsys, files...)
}

// LoadTemplates 按 handler 使用的名字注册所有页面和片段
func LoadTemplates(fsys fs.FS) (multitemplate.Renderer, error) {
	r := multitemplate.NewRenderer()
	funcs := FuncMap()

	components, err := fs.Glob(fsys, "components/*.html")
	if err != nil {
		return nil, err
	}

	for _, name := range pages {
		files := append([]string{"layouts/base.html"}, components...)
		files = append(files, "views/"+name)
		tmpl, err := parse(fsys, funcs, files...)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.Add(name, tmpl)
	}

	for _, name := range fragments {
		files := append([]string{"views/" + name}, components...)
		tmpl, err := parse(fsys, funcs, files...)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.Add(name, tmpl)
	}
	return r, nil
}
