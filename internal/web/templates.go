package web

import (
	"html/template"

	"ETFAdvisor/internal/notifier"
)

var templateFuncs = template.FuncMap{
	"percent": notifier.Percent,
	"ratio":   notifier.Ratio,
}

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>ETF Advisor</title>
<style>
body { font-family: sans-serif; max-width: 40em; margin: 2em auto; }
.pick { border: 1px solid #ccc; padding: 1em; margin-top: 1em; }
.message { color: #a00; }
form { display: inline; }
</style>
</head>
<body>
<h1>ETF Advisor</h1>
<form method="post" action="/pick">
  <label for="tier">Risk level</label>
  <select id="tier" name="tier">
    {{- range .Tiers}}
    <option value="{{.}}"{{if eq . $.Selected}} selected{{end}}>{{.}}</option>
    {{- end}}
  </select>
  <button type="submit">Find Best ETF</button>
</form>
<form method="post" action="/next"><button type="submit">Check Another ETF in the Same Risk Level</button></form>
<form method="post" action="/reset"><button type="submit">Reset Selection</button></form>
{{with .Message}}<p class="message">{{.}}</p>{{end}}
{{with .Pick}}
<div class="pick">
  <h2>Best ETF for {{$.Selected}} investors: {{.Ticker}}</h2>
  <p>Sharpe Ratio: {{ratio .SharpeRatio}}</p>
  <p>Annual Returns: {{percent .AnnualReturn}} | Volatility: {{percent .Volatility}}</p>
  <p>Why the Sharpe Ratio matters: It tells you how much return you are getting per unit of risk.</p>
</div>
{{end}}
{{if .Seen}}
<p>Already shown for {{.Selected}}: {{range $i, $t := .Seen}}{{if $i}}, {{end}}{{$t}}{{end}}</p>
{{end}}
</body>
</html>
`
