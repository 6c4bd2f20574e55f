package site

import "html/template"

var pageTemplate = template.Must(template.New("tag").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="UTF-8"/>
<meta name="viewport" content="width=device-width, initial-scale=1.0"/>
<title>Posts tagged with "#{{.Tag}}"</title>
{{- if .Stylesheet}}
<link rel="stylesheet" href="{{.Stylesheet}}"/>
{{- end}}
</head>
<body>
<main>
<h2>Posts tagged with "#{{.Tag}}"</h2>
{{- if .Posts}}
<ul>
{{- range .Posts}}
<li><a href="{{$.PostBase}}/{{.ID}}">{{.Post.Emoji}} {{.Post.Title}}</a> <time>{{.Post.CreatedAt}}</time></li>
{{- end}}
</ul>
{{- else}}
<p>No posts yet.</p>
{{- end}}
{{- if .Redirect}}
<script>window.location.href = {{.URL}};</script>
<noscript><p>Please enable JavaScript or <a href="/">return to the home page</a> to view filtered posts.</p></noscript>
{{- end}}
</main>
</body>
</html>
`))

type pageData struct {
	Lang       string
	Stylesheet string
	PostBase   string
	Redirect   bool
	URL        string
	Page
}
