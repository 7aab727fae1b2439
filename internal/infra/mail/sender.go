package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"math"
	"strconv"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/prefab-leads/internal/entity"
)

var newLeadTemplate = template.Must(template.New("new_lead").Parse(`<h2>New offer request</h2>
<p><strong>{{.Name}}</strong> asked for an offer on <strong>{{.ProductName}}</strong>.</p>
<ul>
  <li>Email: <a href="mailto:{{.Email}}">{{.Email}}</a></li>
  <li>Phone: <a href="tel:{{.Phone}}">{{.Phone}}</a></li>
  <li>Total price: {{.TotalPrice}} €</li>
  <li>Upgrades: {{.Upgrades}}</li>
  {{- if and .ReserveSlot .PreferredMonth}}
  <li>Production slot requested for {{.PreferredMonth}}</li>
  {{- end}}
</ul>
{{- if .Message}}
<p>{{.Message}}</p>
{{- end}}
<p><small>Lead {{.LeadID}}</small></p>
`))

func NewEmailSender(host string, port int, user, password, from, to string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		To:       to,
	}
}

// SendNewLead tells the sales inbox about a freshly captured lead.
func (s *EmailSender) SendNewLead(lead entity.Lead, productName string) error {
	body, err := RenderNewLead(lead, productName)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", s.To)
	m.SetHeader("Reply-To", lead.Email)
	m.SetHeader("Subject", fmt.Sprintf("New lead: %s (%s)", lead.FullName(), productName))
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("sending SMTP email: %w", err)
	}

	return nil
}

func RenderNewLead(lead entity.Lead, productName string) (string, error) {
	data := NewLeadEmailData{
		LeadID:         lead.ID,
		Name:           lead.FullName(),
		Email:          lead.Email,
		Phone:          lead.Phone,
		Message:        lead.Message,
		ProductName:    productName,
		TotalPrice:     formatPrice(lead.TotalPrice),
		Upgrades:       len(lead.Configuration.Upgrades),
		ReserveSlot:    lead.ReserveSlot,
		PreferredMonth: lead.PreferredMonth,
	}

	var body bytes.Buffer
	if err := newLeadTemplate.Execute(&body, data); err != nil {
		return "", fmt.Errorf("rendering email template: %w", err)
	}
	return body.String(), nil
}

// formatPrice groups thousands with dots and keeps cents after a comma:
// 119000 -> 119.000, 119999.99 -> 119.999,99
func formatPrice(v float64) string {
	cents := int64(math.Round(math.Abs(v) * 100))
	digits := strconv.FormatInt(cents/100, 10)

	var b strings.Builder
	if v < 0 && cents > 0 {
		b.WriteByte('-')
	}
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if rest := cents % 100; rest != 0 {
		fmt.Fprintf(&b, ",%02d", rest)
	}
	return b.String()
}
