package render

import (
	"fmt"
	"html/template"
	"net/url"
	"path/filepath"
	"plottwisters/internal/services"
	"time"

	"github.com/gin-contrib/multitemplate"
)

// LoadTemplates registers every page under its view name, each assembled from the
// shared layouts and components.
func LoadTemplates(templatesDir string) multitemplate.Renderer {
	r := multitemplate.NewRenderer()

	layouts, err := filepath.Glob(templatesDir + "/layouts/*.html")
	if err != nil {
		panic(err)
	}

	components, err := filepath.Glob(templatesDir + "/components/*.html")
	if err != nil {
		panic(err)
	}

	assemble := func(view string) []string {
		files := make([]string, 0, len(layouts)+len(components)+1)
		files = append(files, layouts...)
		files = append(files, components...)
		files = append(files, templatesDir+"/views/"+view)
		return files
	}

	funcMap := template.FuncMap{
		"dict": func(values ...interface{}) (map[string]interface{}, error) {
			if len(values)%2 != 0 {
				return nil, fmt.Errorf("invalid dict call")
			}
			dict := make(map[string]interface{}, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict keys must be strings")
				}
				dict[key] = values[i+1]
			}
			return dict, nil
		},
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},
		"gt": func(a, b int) bool {
			return a > b
		},
		"timeAgo": func(t time.Time) string {
			seconds := int(time.Since(t).Seconds())
			switch {
			case seconds < 60:
				return "just now"
			case seconds < 3600:
				return fmt.Sprintf("%dm ago", seconds/60)
			case seconds < 86400:
				return fmt.Sprintf("%dh ago", seconds/3600)
			case seconds < 2592000:
				return fmt.Sprintf("%dd ago", seconds/86400)
			case seconds < 31536000:
				return fmt.Sprintf("%dmo ago", seconds/2592000)
			}
			return fmt.Sprintf("%dy ago", seconds/31536000)
		},
		"date": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
		"imageURL": services.ImageURL,
		"urlquery": url.QueryEscape,
	}

	views := []string{
		// Auth
		"auth/login.html",
		"auth/register.html",
		// Movies
		"movies/list.html",
		"movies/detail.html",
		// Alternate endings
		"endings/form.html",
		"endings/show.html",
		// Contests
		"contests/list.html",
		"contests/detail.html",
		"contests/submit.html",
		// Admin
		"admin/contests.html",
		"admin/contest_form.html",
		"admin/contest_detail.html",
		// Error
		"error.html",
	}
	for _, view := range views {
		r.AddFromFilesFuncs(view, funcMap, assemble(view)...)
	}

	return r
}
