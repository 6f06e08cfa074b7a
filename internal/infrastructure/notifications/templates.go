package notifications

import (
	"bytes"
	"html/template"
	"regexp"
	"strings"
	"time"

	"github.com/you/leadsvc/domain"
)

var (
	verificationTmpl = template.Must(template.New("verification").Parse(
		`<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto">` +
			`<h2>Verify your e-mail</h2>` +
			`<p>Use the code below to finish creating your account.</p>` +
			`<p style="font-size:32px;font-weight:bold;letter-spacing:8px">{{.Code}}</p>` +
			`<p>This code expires in {{.Minutes}} minutes.</p>` +
			`<p>If you did not sign up, you can ignore this message.</p></div>`))

	bookingTmpl = template.Must(template.New("booking").Parse(
		`<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto">` +
			`<h2>Consultation booked</h2>` +
			`<p>Hi {{.Name}}, your consultation is confirmed.</p>` +
			`<p>Booking ID: <strong>{{.BookingID}}</strong><br>` +
			`Date: {{.Date}}<br>Time: {{.Time}}<br>` +
			`Services: {{range $i, $s := .Services}}{{if $i}}, {{end}}{{$s}}{{end}}</p>` +
			`<p>We will reach out on {{.Phone}} before the session.</p></div>`))

	tagPattern   = regexp.MustCompile(`<br>|</p>|</h2>`)
	stripPattern = regexp.MustCompile(`<[^>]+>`)
)

// VerificationEmail renders the subject and HTML body carrying a verification code
func VerificationEmail(code string, ttl time.Duration) (string, string, error) {
	var buf bytes.Buffer
	err := verificationTmpl.Execute(&buf, struct {
		Code    string
		Minutes int
	}{Code: code, Minutes: int(ttl.Minutes())})
	return "Your verification code", buf.String(), err
}

// BookingConfirmationEmail renders the subject and HTML body for a new booking
func BookingConfirmationEmail(b *domain.Booking) (string, string, error) {
	var buf bytes.Buffer
	err := bookingTmpl.Execute(&buf, b)
	return "Your consultation booking " + b.BookingID, buf.String(), err
}

// BookingConfirmationSMS renders the short confirmation text
func BookingConfirmationSMS(b *domain.Booking) string {
	return "Your consultation " + b.BookingID + " is booked for " + b.Date + " at " + b.Time + "."
}

func plainText(html string) string {
	text := tagPattern.ReplaceAllString(html, "$0\n")
	text = stripPattern.ReplaceAllString(text, "")
	lines := strings.Split(text, "\n")
	out := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
