package webview

import "html/template"

var headerTpl = template.Must(template.New("header").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1, shrink-to-fit=no">

<link rel="stylesheet" href="{{.Resource "css/bootstrap.min.css"}}">
<link rel="stylesheet" href="{{.Resource "css/font-awesome.css"}}">
<link rel="stylesheet" href="{{.Resource "css/hljs-atom-one-dark.css"}}">
<link rel="stylesheet" href="{{.Resource "css/codemirror.css"}}">
<link rel="stylesheet" href="{{.Resource "css/mermaid/mermaid.css"}}">
<link rel="stylesheet" href="{{.Resource "css/mermaid/mermaid.dark.css"}}">

<script src="{{.Resource "js/jquery.min.js"}}"></script>
<script src="{{.Resource "js/bootstrap.bundle.min.js"}}"></script>
<script src="{{.Resource "js/moment-with-locales.min.js"}}"></script>
<script src="{{.Resource "js/filtrex.js"}}"></script>
<script src="{{.Resource "js/showdown.min.js"}}"></script>
<script src="{{.Resource "js/highlight.pack.js"}}"></script>
<script src="{{.Resource "js/codemirror/codemirror.js"}}"></script>
<script src="{{.Resource "js/codemirror/addon/display/autorefresh.js"}}"></script>
<script src="{{.Resource "js/codemirror/mode/markdown/markdown.js"}}"></script>
<script src="{{.Resource "js/mermaid/mermaid.js"}}"></script>
<script src="{{.Resource "js/mermaid/mermaidAPI.js"}}"></script>

<script>
const vscode = acquireVsCodeApi();

function kbv_log(msg) {
    try {
        vscode.postMessage({
            command: 'log',
            data: {
                message: msg
            }
        });
    } catch (e) { }
}

window.onerror = function(message) {
    kbv_log(message);
    return false;
};
</script>

<title>{{.Title}}</title>
</head>
<body>
`))

var navBarTpl = template.Must(template.New("navbar").Parse(`<nav class="navbar navbar-expand-lg navbar-dark bg-dark fixed-top kbv-navbar">
  <a class="navbar-brand" href="#">
    <img src="{{.Resource "img/icon.svg"}}" width="30" height="30" class="d-inline-block align-top" alt="">
    <span class="kbv-title">{{.Title}}</span>
  </a>
  <img id="kbv-busy" class="kbv-busy" src="{{.Resource "img/ajax-loader-16x11.gif"}}" alt="">
  <div class="navbar-nav ml-auto kbv-buttons">
{{.Buttons}}
    <a class="btn btn-sm btn-outline-light kbv-social" href="https://github.com/Roelanb/kanbanview" title="GitHub" target="_blank"><i class="fa fa-github" aria-hidden="true"></i></a>
    <a class="btn btn-sm btn-outline-light kbv-social" href="https://twitter.com/intent/tweet?url=https%3A%2F%2Fgithub.com%2FRoelanb%2Fkanbanview" title="Twitter" target="_blank"><i class="fa fa-twitter" aria-hidden="true"></i></a>
    <a class="btn btn-sm btn-outline-light kbv-social" href="https://www.facebook.com/sharer/sharer.php?u=https%3A%2F%2Fgithub.com%2FRoelanb%2Fkanbanview" title="Facebook" target="_blank"><i class="fa fa-facebook" aria-hidden="true"></i></a>
  </div>
</nav>
`))

var footerTpl = template.Must(template.New("footer").Parse(`<link rel="stylesheet" href="{{.Resource "css/style.css"}}">
<script src="{{.Resource "js/script.js"}}"></script>
<link rel="stylesheet" href="{{.Resource .StylePath}}">
<script src="{{.Resource .ScriptPath}}"></script>
{{.Footer}}
</body>
</html>
`))
