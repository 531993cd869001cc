package info

import "html/template"

const docsHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>fnweaver routes</title>
  <script src="https://unpkg.com/@stoplight/elements/web-components.min.js"></script>
  <link rel="stylesheet" href="https://unpkg.com/@stoplight/elements/styles.min.css">
</head>
<body>
  <elements-api apiDescriptionUrl="{{.BaseURL}}/openapi.json" router="hash" layout="sidebar"></elements-api>
</body>
</html>
`

var defaultDocsTemplate = template.Must(template.New("docs").Parse(docsHTML))
