package main

// pageHTML is the plotter page. The form submits to itself; pressing Enter in
// a text field uses the first submit button, which plots.
const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>mathlab</title>
<style>
body { background: #121212; color: #f5f5f5; font-family: sans-serif; margin: 2em auto; max-width: 1100px; }
input { background: #1e1e1e; color: #f5f5f5; border: 1px solid #444; padding: .4em; }
#equation { width: 24em; }
.range input { width: 8em; }
button { background: #2c2c2c; color: #f5f5f5; border: 1px solid #444; padding: .4em .8em; cursor: pointer; }
button.active { border-color: #bb86fc; color: #bb86fc; }
#error-message { display: none; color: #ff6b6b; margin: .5em 0; }
#error-message.show { display: block; }
.row { margin: .6em 0; }
img { max-width: 100%; }
</style>
</head>
<body>
<h1>mathlab</h1>
<form method="get" action="/">
<input type="hidden" name="category" value="{{.Category}}">
<div class="row">
<label>y = <input id="equation" name="expr" value="{{.Expr}}" placeholder="{{.Category.Placeholder}}" autofocus></label>
</div>
<div class="row range">
<label>min x <input id="minX" name="min" value="{{.MinX}}"></label>
<label>max x <input id="maxX" name="max" value="{{.MaxX}}"></label>
</div>
<div class="row">
<button id="plot-btn" type="submit" name="action" value="plot">Plot</button>
<button id="clear-btn" type="submit" name="action" value="clear">Clear</button>
</div>
<div class="row">
{{range .Categories}}<button class="function-btn{{if eq . $.Category}} active{{end}}" type="submit" name="type" value="{{.}}">{{.Title}}</button>
{{end}}</div>
<div class="row">
{{range .Examples}}<button class="example-btn" type="submit" name="example" value="{{.}}">{{.}}</button>
{{end}}</div>
</form>
<div id="error-message"{{if .Err}} class="show"{{end}}>{{.Message}}</div>
{{if .Chart}}<img id="chart" src="/chart?v={{.Version}}" alt="chart">{{end}}
</body>
</html>
`
