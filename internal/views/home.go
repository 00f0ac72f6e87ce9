package views

import (
	"html/template"

	"github.com/a-h/templ"
)

// HomeView is the data behind the landing page.
type HomeView struct {
	FormPath string
	// QRDataURI is empty when the code could not be generated.
	QRDataURI string
}

// QRSrc marks the generated data URI as a trusted image source.
func (v HomeView) QRSrc() template.URL {
	return template.URL(v.QRDataURI)
}

func Home(v HomeView) templ.Component {
	return render("home", v)
}
