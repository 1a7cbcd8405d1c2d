package web

import (
	"html/template"

	"github.com/kpauljoseph/flashlearn/internal/view"
)

var templateFuncs = template.FuncMap{
	"markClass": func(m view.OptionMark) string {
		switch m {
		case view.MarkCorrect:
			return "quiz-option correct"
		case view.MarkIncorrect:
			return "quiz-option incorrect"
		}
		return "quiz-option"
	},
}

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>FlashLearn</title>
<style>
:root { --error-color: #c0392b; --ok-color: #27ae60; }
body { font-family: sans-serif; max-width: 960px; margin: 0 auto; padding: 1rem; }
.hidden { display: none; }
.error { color: var(--error-color); }
.tiles { display: flex; flex-wrap: wrap; gap: .5rem; }
.tile button { padding: .75rem 1rem; }
.tile.active button { font-weight: bold; outline: 2px solid #333; }
.tab-link.active { font-weight: bold; }
.correct { color: var(--ok-color); font-weight: bold; }
.incorrect { color: var(--error-color); text-decoration: line-through; }
</style>
</head>
<body>
<h1>FlashLearn</h1>

{{if .ErrorVisible}}<p id="error-message" class="error">{{.ErrorMessage}}</p>{{end}}

<section id="upload">
  <form method="post" action="/tab" style="display:inline">
    <button class="tab-link{{if eq .ActiveTab "file"}} active{{end}}" name="tab" value="file">File</button>
    <button class="tab-link{{if eq .ActiveTab "youtube"}} active{{end}}" name="tab" value="youtube">YouTube</button>
  </form>
  <form id="upload-form" method="post" action="/upload" enctype="multipart/form-data">
    <input id="subject-input" name="subject" placeholder="Subject name" value="{{.Upload.Subject}}">
    {{if eq .ActiveTab "file"}}
    <input id="file-input" type="file" name="file" accept=".pdf,.txt">
    {{if .Upload.FileName}}<small>last file: {{.Upload.FileName}}</small>{{end}}
    {{else}}
    <input id="youtube-url" name="url" placeholder="https://www.youtube.com/watch?v=..." value="{{.Upload.URL}}">
    {{end}}
    <button id="submit-button" type="submit"{{if .Upload.SubmitDisabled}} disabled{{end}}>Generate</button>
    {{if .Upload.Spinner}}<span id="loading-spinner">Processing...</span>{{end}}
  </form>
</section>

<section id="subjects">
  <h2>Subjects</h2>
  {{if .TilesPlaceholder}}<p>{{.TilesPlaceholder}}</p>{{end}}
  <div id="subject-tiles" class="tiles">
  {{range .Tiles}}
    <form method="post" action="/subjects/select" class="tile{{if .Active}} active{{end}}">
      <button name="name" value="{{.Name}}">{{.Name}}</button>
    </form>
  {{end}}
  </div>
</section>

{{with .Content}}{{if .Visible}}
<section id="content-container">
  <h2 id="current-subject-title">{{.Title}}</h2>

  <h3>Summary</h3>
  <p id="summary-content">{{range $i, $line := .Summary}}{{if $i}}<br>{{end}}{{$line}}{{end}}</p>

  <h3>Flashcards</h3>
  <div id="flashcards-content" class="tiles">
  {{range $i, $card := .Flashcards}}
    <form method="post" action="/flashcards/flip" class="tile flashcard{{if $card.Flipped}} is-flipped{{end}}">
      <button name="card" value="{{$i}}">{{if $card.Flipped}}{{$card.Definition}}{{else}}{{$card.Term}}{{end}}</button>
    </form>
  {{else}}
    <p>No flashcards available.</p>
  {{end}}
  </div>

  <h3>Quiz</h3>
  <div id="quiz-content">
  {{range $qi, $q := .Quiz}}
    <div class="question">
      <p>{{$q.Number}}. {{$q.Prompt}}</p>
      <form method="post" action="/quiz/choose">
        <input type="hidden" name="question" value="{{$qi}}">
        <ul>
        {{range $oi, $opt := $q.Options}}
          <li class="{{markClass $opt.Mark}}"><button name="option" value="{{$oi}}"{{if $q.Locked}} disabled{{end}}>{{$opt.Text}}</button></li>
        {{end}}
        </ul>
      </form>
    </div>
  {{else}}
    <p>No quiz available.</p>
  {{end}}
  </div>
</section>
{{end}}{{end}}

<section id="qa">
  <h2>Ask a question</h2>
  <form id="qa-form" method="post" action="/ask">
    <input id="qa-input" name="question" value="{{.Ask.Question}}" placeholder="Ask about the selected subject">
    <button type="submit"{{if .Ask.Disabled}} disabled{{end}}>Ask</button>
  </form>
  {{if .Ask.ResponseVisible}}
  <div id="qa-response">
    <p{{if .Ask.IsError}} class="error"{{end}}>{{range $i, $line := .Ask.Response}}{{if $i}}<br>{{end}}{{$line}}{{end}}</p>
  </div>
  {{end}}
</section>
</body>
</html>
`
