package notify

import (
	"bytes"
	"fmt"
	"html/template"
)

var (
	welcomeTmpl = template.Must(template.New("welcome").Parse(`<html>
<body style="font-family: Arial, sans-serif; padding: 20px;">
	<h1>Welcome, {{.Name}}</h1>
	<p>{{.Intro}}</p>
</body>
</html>`))

	contactTmpl = template.Must(template.New("contact").Parse(`<html>
<body style="font-family: Arial, sans-serif; padding: 20px;">
	<h2>New contact form submission</h2>
	<p><strong>Name:</strong> {{.Name}}</p>
	<p><strong>Email:</strong> {{.Email}}</p>
	{{if .Phone}}<p><strong>Phone:</strong> {{.Phone}}</p>{{end}}
	{{if .Subject}}<p><strong>Subject:</strong> {{.Subject}}</p>{{end}}
	<p style="white-space: pre-wrap;">{{.Message}}</p>
</body>
</html>`))

	lowStockTmpl = template.Must(template.New("low_stock").Parse(`<html>
<body style="font-family: Arial, sans-serif; padding: 20px;">
	<h2>{{len .Items}} products at or below {{.Threshold}} units</h2>
	<table cellpadding="6" style="border-collapse: collapse;">
		<tr><th align="left">ID</th><th align="left">Product</th><th align="right">Stock</th></tr>
		{{range .Items}}<tr><td>{{.ID}}</td><td>{{.Name}}</td><td align="right">{{.Stock}}</td></tr>
		{{end}}
	</table>
</body>
</html>`))
)

// ContactForm is a submission from the public contact form.
type ContactForm struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
}

type LowStockItem struct {
	ID    uint
	Name  string
	Stock int
}

func render(t *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s email: %w", t.Name(), err)
	}
	return buf.String(), nil
}

// WelcomeEmail greets a newly created admin user or registered customer.
func WelcomeEmail(to, name, intro string) (Message, error) {
	html, err := render(welcomeTmpl, map[string]string{"Name": name, "Intro": intro})
	if err != nil {
		return Message{}, err
	}
	return Message{To: []string{to}, Subject: "Welcome to the store", HTML: html}, nil
}

// ContactEmail forwards a contact form to the store inbox with Reply-To set to the sender.
func ContactEmail(recipient string, form ContactForm) (Message, error) {
	html, err := render(contactTmpl, form)
	if err != nil {
		return Message{}, err
	}
	subject := "Contact form: " + form.Name
	if form.Subject != "" {
		subject = "Contact form: " + form.Subject
	}
	return Message{To: []string{recipient}, ReplyTo: form.Email, Subject: subject, HTML: html}, nil
}

func LowStockEmail(recipient string, threshold int, items []LowStockItem) (Message, error) {
	html, err := render(lowStockTmpl, map[string]interface{}{"Threshold": threshold, "Items": items})
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      []string{recipient},
		Subject: fmt.Sprintf("Low stock report: %d products", len(items)),
		HTML:    html,
	}, nil
}
