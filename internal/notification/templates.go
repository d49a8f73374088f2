package notification

import (
	"strings"
	"text/template"
	"time"

	"glowstudio/internal/domain"
)

// messageData is what every template renders from.
type messageData struct {
	Name    string
	Service string
	Date    string
	Time    string
	Reason  string
	Amount  float64
	Studio  string
}

var templates = template.Must(template.New("messages").Parse(`
{{define "booked_subject"}}Your appointment request at {{.Studio}}{{end}}
{{define "booked_body"}}Hola {{.Name}},

We received your appointment request:

  Service: {{.Service}}
  Date: {{.Date}}
  Time: {{.Time}}

It will be confirmed once the payment is processed. See you soon!

{{.Studio}}{{end}}

{{define "confirmed_subject"}}Appointment confirmed - {{.Studio}}{{end}}
{{define "confirmed_body"}}Hola {{.Name}},

Your appointment is confirmed:

  Service: {{.Service}}
  Date: {{.Date}}
  Time: {{.Time}}

If you need to reschedule, please do it at least 2 hours in advance.

{{.Studio}}{{end}}

{{define "cancelled_subject"}}Appointment cancelled - {{.Studio}}{{end}}
{{define "cancelled_body"}}Hola {{.Name}},

Your appointment for {{.Service}} on {{.Date}} at {{.Time}} was cancelled.
{{if .Reason}}
Reason: {{.Reason}}
{{end}}
You can book a new time whenever suits you.

{{.Studio}}{{end}}

{{define "reminder_subject"}}Reminder: your appointment tomorrow - {{.Studio}}{{end}}
{{define "reminder_body"}}Hola {{.Name}},

A friendly reminder of your upcoming appointment:

  Service: {{.Service}}
  Date: {{.Date}}
  Time: {{.Time}}

See you there!

{{.Studio}}{{end}}

{{define "payment_subject"}}Payment received - {{.Studio}}{{end}}
{{define "payment_body"}}Hola {{.Name}},

We received your payment of ${{printf "%.2f" .Amount}} for {{.Service}}.

{{.Studio}}{{end}}

{{define "studio_alert"}}New appointment: {{.Service}} on {{.Date}} at {{.Time}} for {{.Name}}.{{end}}
`))

func render(name string, data messageData) string {
	var sb strings.Builder
	if err := templates.ExecuteTemplate(&sb, name, data); err != nil {
		return ""
	}
	return strings.TrimSpace(sb.String())
}

// dataFor flattens an appointment into template fields, rendering the window
// in the studio timezone.
func dataFor(a *domain.Appointment, loc *time.Location, studio string) messageData {
	d := messageData{Name: "there", Service: "your service", Studio: studio}
	if a == nil {
		return d
	}
	if a.User != nil && a.User.FullName != "" {
		d.Name = a.User.FullName
	}
	if a.Service != nil && a.Service.Name != "" {
		d.Service = a.Service.Name
	}
	local := a.StartTime.In(loc)
	d.Date = local.Format("Monday, 02 Jan 2006")
	d.Time = local.Format("15:04")
	return d
}
